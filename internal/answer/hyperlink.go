package answer

import (
	"regexp"
	"strings"
)

var urlRe = regexp.MustCompile(`(?:https?://|www\.)[^\s<>()\[\]]+`)

// FormatHyperlinks rewrites every bare URL in text as a markup hyperlink
// [title](url). The title is inferred from the text immediately preceding
// the URL, back to the nearest sentence boundary; when used, that text is
// removed so it is not duplicated. With no usable preceding text the URL
// itself becomes the title. Idempotent: URLs already inside a link are left
// alone, and nothing outside matched URL spans (other than a consumed
// title) is altered.
func FormatHyperlinks(text string) string {
	matches := urlRe.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		url := strings.TrimRight(text[start:end], ".,;:!?")
		end = start + len(url)
		if url == "" {
			continue
		}
		segment := text[last:start]

		if alreadyLinked(text, start) {
			out.WriteString(segment)
			out.WriteString(url)
			last = end
			continue
		}

		kept, title := splitTitle(segment)
		if title == "" {
			title = url
			kept = segment
		}
		out.WriteString(kept)
		out.WriteString("[")
		out.WriteString(title)
		out.WriteString("](")
		out.WriteString(url)
		out.WriteString(")")
		last = end
	}
	out.WriteString(text[last:])
	return out.String()
}

// alreadyLinked reports whether the URL starting at pos is part of an
// existing [title](url) construct, as either the target or the title.
func alreadyLinked(text string, pos int) bool {
	if strings.HasSuffix(text[:pos], "](") {
		return true
	}
	return pos > 0 && text[pos-1] == '['
}

// splitTitle scans segment backwards to the nearest sentence boundary and
// returns the text to keep plus the inferred title. An empty title means no
// usable preceding text was found.
func splitTitle(segment string) (kept, title string) {
	idx := strings.LastIndexAny(segment, ".!?\n")
	kept = ""
	candidate := segment
	if idx >= 0 {
		kept = segment[:idx+1]
		candidate = segment[idx+1:]
	}

	candidate = strings.TrimSpace(candidate)
	candidate = strings.TrimRight(candidate, ":-– ")
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return segment, ""
	}
	if kept != "" && !strings.HasSuffix(kept, "\n") {
		kept += " "
	}
	return kept, candidate
}
