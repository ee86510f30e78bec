package compose

import (
	"strings"

	"golang.org/x/net/html"
)

// blockElements start and end on their own line in the text rendering.
var blockElements = map[string]bool{
	"p": true, "div": true, "blockquote": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true, "table": true, "tr": true,
}

// skippedElements carry no readable text.
var skippedElements = map[string]bool{
	"script": true, "style": true, "head": true, "title": true,
}

// PlainText renders an HTML document as readable plain text for the
// text/plain alternative part.
func PlainText(doc string) string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return strings.TrimSpace(doc)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if skippedElements[n.Data] {
				return
			}
			if n.Data == "br" {
				sb.WriteByte('\n')
				return
			}
			if blockElements[n.Data] {
				sb.WriteByte('\n')
				defer sb.WriteByte('\n')
			}
		case html.TextNode:
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return normalizeLines(sb.String())
}

// normalizeLines collapses runs of whitespace inside each line and drops
// blank lines.
func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
