package compose

import (
	"bytes"
	"html/template"
	"strings"
)

// shell is the data passed to the document templates.
type shell struct {
	Text     string
	Fragment template.HTML
}

const wrapperOpen = `<div style="font-family: Arial, sans-serif; line-height: 1.6; max-width: 600px; margin: 0 auto; color: #333;">
  <div style="text-align: center; padding: 12px 0; border-bottom: 1px solid #eee;">
    <h1 style="font-size: 20px; margin: 0;">✨ 每日心灵鸡汤</h1>
  </div>
  <div style="padding: 16px 0;">
`

const wrapperClose = `  </div>
  <div style="border-top: 1px solid #eee; padding-top: 8px; font-size: 12px; color: #999; text-align: center;">
    <p>这是一封自动发送的邮件，愿你今天也充满力量。</p>
  </div>
</div>
`

var markupTmpl = template.Must(template.New("markup").Parse(wrapperOpen + `    <h2>你好,</h2>
    <p>希望你拥有美好的一天！这里是今日份的心灵鸡汤：</p>
    {{.Fragment}}
    <p>祝好,<br>你的贴心小助手</p>
` + wrapperClose))

var textTmpl = template.Must(template.New("text").Parse(wrapperOpen + `    <h2>你好,</h2>
    <p>希望你拥有美好的一天！这里有一句今日份的心灵鸡汤送给你：</p>
    <blockquote style="font-size: 1.2em; border-left: 4px solid #ccc; padding-left: 1em; margin: 1em 0;">
      <strong>{{.Text}}</strong>
    </blockquote>
    <p>祝好,<br>你的贴心小助手</p>
` + wrapperClose))

// IsMarkup reports whether s should be treated as an HTML fragment: after
// trimming it starts with '<' and contains a '>'.
func IsMarkup(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "<") && strings.Contains(s, ">")
}

// Compose returns the full HTML email body for the given content.
func Compose(fragment string, isMarkup bool) string {
	var buf bytes.Buffer
	if isMarkup {
		if err := markupTmpl.Execute(&buf, shell{Fragment: template.HTML(fragment)}); err != nil { //nolint:gosec // fragment passed validation upstream
			return fragment
		}
		return buf.String()
	}
	if err := textTmpl.Execute(&buf, shell{Text: strings.TrimSpace(fragment)}); err != nil {
		return template.HTMLEscapeString(fragment)
	}
	return buf.String()
}
