package content

import "testing"

func TestIsValidPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "empty", in: "", want: false},
		{name: "whitespace only", in: "  \n ", want: false},
		{name: "two characters", in: "加油", want: false},
		{name: "four characters", in: "加油加油", want: false},
		{name: "exactly five characters", in: "加油你能行", want: true},
		{name: "five characters after trimming", in: "  加油你能行  ", want: true},
		{name: "sentence", in: "相信自己，明天会更好。", want: true},
		{name: "literal think tag", in: "<think>加油你能行", want: false},
		{name: "literal closing thought tag", in: "加油你能行</thought>", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsValidPlainText(tt.in); got != tt.want {
				t.Errorf("IsValidPlainText(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsValidMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "structural tag with lexicon word", in: "<div>励志</div>", want: true},
		{name: "shorter than ten characters", in: "<p>hi</p>", want: false},
		{name: "contains think tag", in: "<div><think>x</think>励志</div>", want: false},
		{name: "reasoning phrase inside div pair is accepted", in: "<div>思考：今天天气不错</div>", want: true},
		{name: "span without lexicon or div pair", in: "<span>今天天气不错啊朋友</span>", want: false},
		{name: "span with lexicon word", in: "<span>今天也要加油哦朋友们</span>", want: true},
		{name: "no tags at all", in: "plain text without tags 加油", want: false},
		{name: "only non-structural tags", in: "<b>加油加油加油加油</b>", want: false},
		{name: "uppercase tag and lexicon", in: "<P>Keep HOPE alive, friend</P>", want: true},
		{name: "nested div pair without lexicon", in: "<section><div>今天天气不错</div></section>", want: true},
		{name: "div pair with attributes", in: `<div style="color:red">今天天气不错</div>`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsValidMarkup(tt.in); got != tt.want {
				t.Errorf("IsValidMarkup(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidatorFor(t *testing.T) {
	t.Parallel()

	t.Run("text mode uses plain text rules", func(t *testing.T) {
		t.Parallel()
		if !ValidatorFor(ModeText)("加油你能行") {
			t.Error("expected plain sentence to pass in text mode")
		}
	})

	t.Run("html mode uses markup rules", func(t *testing.T) {
		t.Parallel()
		if ValidatorFor(ModeHTML)("加油你能行") {
			t.Error("expected plain sentence to fail in html mode")
		}
		if !ValidatorFor(ModeHTML)("<div>励志</div>") {
			t.Error("expected markup to pass in html mode")
		}
	})
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeHTML},
		{in: "html", want: ModeHTML},
		{in: " HTML ", want: ModeHTML},
		{in: "text", want: ModeText},
		{in: "plain", want: ModeText},
		{in: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("parse "+tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
