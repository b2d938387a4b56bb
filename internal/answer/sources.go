package answer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sourceLineRe = regexp.MustCompile(`^\s*(\d+)\.\s+(.+)$`)

// ExtractSources parses a "Sources:" section line by line. An entry is kept
// only if its number is referenced at least once in the final answer body
// as [Source N]; unreferenced boilerplate entries are dropped.
// ReferenceCount is computed against the final body, never partial buffers.
func ExtractSources(sectionText, body string) []SourceEntry {
	var entries []SourceEntry
	for _, line := range strings.Split(sectionText, "\n") {
		m := sourceLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		count := strings.Count(body, fmt.Sprintf("[Source %d]", n))
		if count == 0 {
			continue
		}
		entries = append(entries, SourceEntry{
			Number:         n,
			Details:        strings.TrimSpace(m[2]),
			ReferenceCount: count,
		})
	}
	return entries
}
