package answer

import (
	"fmt"
	"regexp"
	"strconv"
)

// inlineCiteRe matches the simpler inline citation style: bare [N] markers.
// [Source N] markers are untouched (the letter prefix never matches).
var inlineCiteRe = regexp.MustCompile(`\[(\d+)\]`)

// RewriteInlineCitations rewrites bare [N] markers in the body as
// superscript-style markers and returns the referenced numbers in order of
// first appearance. Markers whose number has no reference text are still
// rewritten and listed as unresolved.
func RewriteInlineCitations(body string, refs map[int]string) (string, []InlineRef) {
	var inline []InlineRef
	seen := make(map[int]bool)

	out := inlineCiteRe.ReplaceAllStringFunc(body, func(m string) string {
		n, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil {
			return m
		}
		if !seen[n] {
			seen[n] = true
			text, ok := refs[n]
			inline = append(inline, InlineRef{Number: n, Text: text, Resolved: ok})
		}
		return fmt.Sprintf("^[%d]", n)
	})

	return out, inline
}
