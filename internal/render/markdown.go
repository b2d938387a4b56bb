// Package render converts composed answer bodies between presentation
// formats for the API layer.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// MarkdownToHTML renders a markdown answer body as HTML.
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
