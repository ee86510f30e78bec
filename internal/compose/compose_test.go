package compose

import (
	"strings"
	"testing"
)

func TestIsMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{in: "<div>加油</div>", want: true},
		{in: "  \n<p>x</p>", want: true},
		{in: "<not closed", want: false},
		{in: "相信自己 <b>明天</b>", want: false},
		{in: "", want: false},
	}

	for _, tt := range tests {
		if got := IsMarkup(tt.in); got != tt.want {
			t.Errorf("IsMarkup(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCompose(t *testing.T) {
	t.Parallel()

	t.Run("markup fragment is embedded verbatim", func(t *testing.T) {
		t.Parallel()

		fragment := `<div style="color:red"><p>坚持就是胜利</p></div>`
		doc := Compose(fragment, true)

		if !strings.Contains(doc, fragment) {
			t.Errorf("expected fragment verbatim in document: %s", doc)
		}
		if strings.Contains(doc, "<blockquote") {
			t.Errorf("markup document should not use the quote template: %s", doc)
		}
		if !strings.Contains(doc, "你好,") || !strings.Contains(doc, "你的贴心小助手") {
			t.Errorf("expected greeting and sign-off: %s", doc)
		}
	})

	t.Run("plain text is escaped inside a quote", func(t *testing.T) {
		t.Parallel()

		doc := Compose("  1 < 2 & 相信自己  ", false)

		if !strings.Contains(doc, "<blockquote") {
			t.Errorf("expected quote template: %s", doc)
		}
		if !strings.Contains(doc, "<strong>1 &lt; 2 &amp; 相信自己</strong>") {
			t.Errorf("expected escaped, trimmed text: %s", doc)
		}
	})

	t.Run("both templates share header and footer", func(t *testing.T) {
		t.Parallel()

		for _, doc := range []string{Compose("<p>x</p>", true), Compose("x", false)} {
			if !strings.Contains(doc, "每日心灵鸡汤") {
				t.Errorf("missing header: %s", doc)
			}
			if !strings.Contains(doc, "自动发送的邮件") {
				t.Errorf("missing footer: %s", doc)
			}
			if !strings.HasPrefix(doc, "<div") || !strings.HasSuffix(strings.TrimSpace(doc), "</div>") {
				t.Errorf("expected a single outer wrapper: %s", doc)
			}
		}
	})

	t.Run("composition is deterministic", func(t *testing.T) {
		t.Parallel()

		if Compose("加油", false) != Compose("加油", false) {
			t.Error("expected identical output")
		}
	})
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	t.Run("composed text document", func(t *testing.T) {
		t.Parallel()

		got := PlainText(Compose("相信自己，明天会更好。", false))
		want := strings.Join([]string{
			"✨ 每日心灵鸡汤",
			"你好,",
			"希望你拥有美好的一天！这里有一句今日份的心灵鸡汤送给你：",
			"相信自己，明天会更好。",
			"祝好,",
			"你的贴心小助手",
			"这是一封自动发送的邮件，愿你今天也充满力量。",
		}, "\n")
		if got != want {
			t.Errorf("PlainText() =\n%s\nwant\n%s", got, want)
		}
	})

	t.Run("entities are decoded and scripts dropped", func(t *testing.T) {
		t.Parallel()

		got := PlainText(`<div><style>p{color:red}</style><p>1 &lt; 2</p><script>alert(1)</script><p>a<br>b</p></div>`)
		if got != "1 < 2\na\nb" {
			t.Errorf("PlainText() = %q", got)
		}
	})

	t.Run("inline elements stay on one line", func(t *testing.T) {
		t.Parallel()

		got := PlainText(`<p>今天 <strong>也要</strong> 加油</p>`)
		if got != "今天 也要 加油" {
			t.Errorf("PlainText() = %q", got)
		}
	})
}
