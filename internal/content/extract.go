package content

import (
	"regexp"
	"strings"
)

// Matcher is an extraction attempt that either claims the input or passes.
type Matcher struct {
	Name  string
	Match func(raw string) (string, bool)
}

// Transform is an unconditional rewrite applied in sequence.
type Transform struct {
	Name  string
	Apply func(s string) string
}

var (
	// ```html ... ``` with the closing fence present. (?s) lets the body span lines.
	fencedHTMLRe = regexp.MustCompile("(?is)```html[ \\t]*\\r?\\n?(.*?)```")

	// The opening marker on its own.
	openFenceRe = regexp.MustCompile("(?i)```html")

	closeThinkRe = regexp.MustCompile(`(?i)</think\s*>`)

	// RE2 has no backreferences, so each pair gets its own expression.
	pairedReasoningRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<think\s*>.*?</think\s*>`),
		regexp.MustCompile(`(?is)<thinking\s*>.*?</thinking\s*>`),
		regexp.MustCompile(`(?is)<thought\s*>.*?</thought\s*>`),
	}

	reasoningTagRe = regexp.MustCompile(`(?i)</?(?:think|thinking|thought)\s*>`)

	reasoningMarkerRe = regexp.MustCompile(`思考(?:过程)?[：:]`)

	structuralOpenTagRe = regexp.MustCompile(`(?i)<(?:div|p|h[1-6]|span)(?:\s[^>]*)?>`)

	narrativePrefixRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)^\s*让我.*?(<(?:div|p|h[1-6]|span)[\s>])`),
		regexp.MustCompile(`(?is)^\s*我需要.*?(<(?:div|p|h[1-6]|span)[\s>])`),
		regexp.MustCompile(`(?is)^\s*我应该.*?(<(?:div|p|h[1-6]|span)[\s>])`),
		regexp.MustCompile(`(?is)^\s*我来.*?(<(?:div|p|h[1-6]|span)[\s>])`),
		regexp.MustCompile(`(?is)^\s*首先.*?(<(?:div|p|h[1-6]|span)[\s>])`),
		regexp.MustCompile(`(?is)^\s*分析[：:].*?(<(?:div|p|h[1-6]|span)[\s>])`),
	}

	leadingFenceRe     = regexp.MustCompile("(?i)^```html[ \\t]*\\r?\\n?")
	trailingFenceRe    = regexp.MustCompile("\\s*```\\s*$")
	leadingHTMLTokenRe = regexp.MustCompile(`(?i)^html[ \t]*\r?\n`)
)

// fenceMatchers run first; the first one that claims the input wins.
var fenceMatchers = []Matcher{
	{Name: "fenced_block", Match: matchFencedBlock},
	{Name: "fence_split", Match: matchFenceSplit},
}

// heuristicTransforms run in order when no fenced block was found.
var heuristicTransforms = []Transform{
	{Name: "reasoning_tags", Apply: StripReasoningTags},
	{Name: "leading_commentary", Apply: StripLeadingCommentary},
	{Name: "narrative_prefix", Apply: StripNarrativePrefix},
}

// Extract returns the best-effort content fragment from raw model output.
// It never fails; the worst case is the trimmed input or an empty string.
func Extract(raw string) string {
	out, ok := extractFenced(raw)
	if !ok {
		out = raw
		for _, t := range heuristicTransforms {
			out = t.Apply(out)
		}
	}
	return CleanHTMLContent(out)
}

func extractFenced(raw string) (string, bool) {
	for _, m := range fenceMatchers {
		if out, ok := m.Match(raw); ok {
			return out, true
		}
	}
	return "", false
}

// matchFencedBlock returns the interior of the first ```html block.
// A block that is never closed runs to the end of the input, which is what a
// truncated generation looks like.
func matchFencedBlock(raw string) (string, bool) {
	open := openFenceRe.FindStringIndex(raw)
	if open == nil {
		return "", false
	}

	if m := fencedHTMLRe.FindStringSubmatch(raw); m != nil {
		body := strings.TrimSpace(m[1])
		if body == "" {
			return "", false
		}
		return body, true
	}

	rest := strings.TrimLeft(raw[open[1]:], " \t")
	rest = strings.TrimPrefix(rest, "\r")
	rest = strings.TrimPrefix(rest, "\n")
	body := strings.TrimSpace(rest)
	if body == "" {
		return "", false
	}
	return body, true
}

// matchFenceSplit handles inputs where the marker exists but the block regex
// found nothing useful, e.g. an empty block followed by more fences.
func matchFenceSplit(raw string) (string, bool) {
	open := openFenceRe.FindStringIndex(raw)
	if open == nil {
		return "", false
	}
	rest := strings.ReplaceAll(raw[open[1]:], "```", "")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return rest, true
}

// StripReasoningTags keeps the text after the last </think> and removes every
// reasoning span and stray reasoning tag from what is left.
func StripReasoningTags(s string) string {
	if locs := closeThinkRe.FindAllStringIndex(s, -1); len(locs) > 0 {
		s = s[locs[len(locs)-1][1]:]
	}
	for _, re := range pairedReasoningRes {
		s = re.ReplaceAllString(s, "")
	}
	s = reasoningTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// StripLeadingCommentary drops a "思考过程：" style preamble when it appears
// before the first structural tag.
func StripLeadingCommentary(s string) string {
	marker := reasoningMarkerRe.FindStringIndex(s)
	if marker == nil {
		return s
	}
	tag := structuralOpenTagRe.FindStringIndex(s)
	if tag == nil || marker[0] > tag[0] {
		return s
	}
	return s[tag[0]:]
}

// StripNarrativePrefix removes sentences like "让我想想…" that precede the
// first structural tag. Text without a following tag is left alone.
func StripNarrativePrefix(s string) string {
	for _, re := range narrativePrefixRes {
		s = re.ReplaceAllString(s, "$1")
	}
	return s
}

// CleanHTMLContent is applied to every extraction result regardless of the
// path taken.
func CleanHTMLContent(s string) string {
	s = strings.TrimSpace(s)
	s = leadingFenceRe.ReplaceAllString(s, "")
	s = trailingFenceRe.ReplaceAllString(s, "")
	s = leadingHTMLTokenRe.ReplaceAllString(s, "")
	s = reasoningTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
