package render

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLText extracts the visible text of an HTML fragment, skipping script
// and style elements.
func HTMLText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			if buf.Len() > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}

// Preview renders a markdown body down to a short plain-text snippet for
// history listings.
func Preview(md string, maxLen int) string {
	rendered, err := MarkdownToHTML(md)
	if err != nil {
		rendered = md
	}
	text := HTMLText(rendered)
	if maxLen <= 0 || len(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return strings.TrimSpace(string(runes[:maxLen])) + "..."
}
