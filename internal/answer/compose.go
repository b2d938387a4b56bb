package answer

import "strings"

// Disclaimer is appended to every answer body that does not already carry
// one.
const Disclaimer = "Disclaimer: Always consult your healthcare provider before making any changes to your medication or treatment plan."

// NoSourcesPlaceholder renders instead of an empty sources section:
// absence must be visible, not silent.
const NoSourcesPlaceholder = "No specific sources provided."

// Compose merges the finished answer body with the disclaimer and the
// extracted references into the final document. sourcesText is the raw
// (hyperlink-formatted) sources section appended to the body for display,
// matching how answers are presented to the user.
func Compose(query, body, sourcesText string, sources []SourceEntry, citations []Citation, inline []InlineRef, followups []string) Document {
	body = strings.TrimSpace(body)

	// Appended exactly once; bodies that already mention a disclaimer keep
	// theirs.
	if !strings.Contains(strings.ToLower(body), "disclaimer") {
		if body != "" {
			body += "\n\n"
		}
		body += Disclaimer
	}

	sourcesText = strings.TrimSpace(sourcesText)
	if sourcesText == "" && len(sources) == 0 && len(citations) == 0 {
		sourcesText = NoSourcesPlaceholder
	}
	if sourcesText != "" {
		body += "\n\nSources:\n" + sourcesText
	}

	if followups == nil {
		followups = []string{}
	}
	return Document{
		Category:  Categorize(query),
		Body:      body,
		Sources:   sources,
		Citations: citations,
		Inline:    inline,
		Followups: followups,
	}
}
