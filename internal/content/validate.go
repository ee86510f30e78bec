package content

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const (
	minPlainTextRunes = 5
	minMarkupRunes    = 10
)

var (
	anyTagRe  = regexp.MustCompile(`<[^<>]+>`)
	divPairRe = regexp.MustCompile(`(?is)<div(?:\s[^>]*)?>.*?</div\s*>`)
)

// positiveLexicon is matched against case-folded input.
var positiveLexicon = foldAll([]string{
	// Chinese
	"励志", "加油", "坚持", "梦想", "希望", "勇气", "努力", "成功", "相信",
	"阳光", "美好", "力量", "奋斗", "成长", "未来", "温暖", "快乐", "自信",
	"微笑", "前进", "信念", "热爱", "珍惜", "感恩", "幸福", "光芒",
	// English, for models that answer in the wrong language
	"inspire", "hope", "dream", "courage", "believe", "success",
	"strength", "smile", "grow", "brave",
})

func foldAll(words []string) []string {
	c := cases.Fold()
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = c.String(w)
	}
	return out
}

// ContainsReasoningTag reports whether s still carries a literal
// think/thinking/thought tag.
func ContainsReasoningTag(s string) bool {
	return reasoningTagRe.MatchString(s)
}

// IsValidPlainText accepts non-blank text of at least five characters that
// carries no reasoning tag.
func IsValidPlainText(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if utf8.RuneCountInString(s) < minPlainTextRunes {
		return false
	}
	return !ContainsReasoningTag(s)
}

// IsValidMarkup accepts a fragment that looks like structured HTML and either
// uses the positive lexicon or is wrapped in a complete <div> pair.
//
// Only literal reasoning tags are rejected here. Reasoning phrases such as
// "思考：" inside otherwise valid markup are accepted.
func IsValidMarkup(s string) bool {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < minMarkupRunes {
		return false
	}
	if ContainsReasoningTag(s) {
		return false
	}
	if !anyTagRe.MatchString(s) || !structuralOpenTagRe.MatchString(s) {
		return false
	}
	return HasPositiveLexicon(s) || divPairRe.MatchString(s)
}

// HasPositiveLexicon reports whether s contains at least one word from the
// inspirational word list, ignoring case.
func HasPositiveLexicon(s string) bool {
	folded := cases.Fold().String(s)
	for _, w := range positiveLexicon {
		if strings.Contains(folded, w) {
			return true
		}
	}
	return false
}
