package pipeline

import (
	"github.com/nao1215/soupmail/internal/content"
	"github.com/nao1215/soupmail/internal/llm"
)

const defaultSystemPrompt = "You are a helpful assistant."

const textUserPrompt = "请生成一段简短的、激励人心的心灵鸡汤文字，用于每日邮件发送。"

const htmlUserPrompt = `请生成一段简短的、激励人心的心灵鸡汤，用于每日邮件发送。
要求：
1. 只输出一个 HTML 片段，放在 ` + "```html" + ` 代码块中；
2. 使用 <div>、<p>、<h2> 等标签，可以使用内联样式；
3. 包含一句金句和一两句温暖的解读；
4. 不要输出任何思考过程或解释说明。`

// DefaultPrompt returns the prompt used when none is configured.
func DefaultPrompt(m content.Mode) llm.Prompt {
	if m == content.ModeText {
		return llm.Prompt{System: defaultSystemPrompt, User: textUserPrompt}
	}
	return llm.Prompt{System: defaultSystemPrompt, User: htmlUserPrompt}
}
