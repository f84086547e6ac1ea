package canvas

import (
	"strings"

	"golang.org/x/net/html"
)

// Text flattens an HTML fragment into readable plain text. Announcement
// bodies arrive from Canvas as rich-editor HTML; agents consuming them
// usually want prose, not markup. Block-level elements become line breaks,
// script and style subtrees are dropped, and runs of whitespace collapse
// to a single space.
//
// A fragment that fails to parse is returned unchanged: a lossy fallback
// beats losing the announcement.
func Text(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var sb strings.Builder
	flatten(root, &sb)
	return tidy(sb.String())
}

// blockTags are elements that terminate a line when rendered.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "table": true, "blockquote": true, "pre": true, "hr": true,
}

func flatten(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(c, sb)
	}

	if n.Type == html.ElementNode && blockTags[n.Data] {
		sb.WriteByte('\n')
	}
}

// tidy collapses intra-line whitespace and squeezes blank-line runs left
// behind by nested block elements.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
