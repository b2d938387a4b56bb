package answer

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	// minQuestionLen rejects extraction noise: a real question is longer
	// than this.
	minQuestionLen = 10
	maxFollowups   = 4
)

var numberedLineRe = regexp.MustCompile(`^\s*\d+[.)]\s*(.+)$`)

// ExtractFollowups parses numbered question lines from a related/follow-up
// section, keeping only entries that end in "?" and exceed the minimum
// length, capped at four, in original order.
func ExtractFollowups(sectionText string) []string {
	questions, ok := parseNumberedQuestions(sectionText)
	if !ok {
		return nil
	}
	return filterQuestions(questions)
}

// ParseFollowupResponse parses the free-text reply of the follow-up
// question call. The payload format varies between deployments, so parsing
// strategies are tried in fixed order: JSON array, numbered lines, plain
// lines. The first strategy that yields anything wins.
func ParseFollowupResponse(raw string) []string {
	raw = stripCodeBlock(raw)

	if questions, ok := parseJSONQuestions(raw); ok {
		return filterQuestions(questions)
	}
	if questions, ok := parseNumberedQuestions(raw); ok {
		return filterQuestions(questions)
	}
	return filterQuestions(strings.Split(raw, "\n"))
}

func parseJSONQuestions(raw string) ([]string, bool) {
	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, false
	}
	return questions, true
}

func parseNumberedQuestions(raw string) ([]string, bool) {
	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		if m := numberedLineRe.FindStringSubmatch(line); m != nil {
			questions = append(questions, m[1])
		}
	}
	return questions, len(questions) > 0
}

func filterQuestions(candidates []string) []string {
	var out []string
	for _, q := range candidates {
		q = strings.TrimSpace(q)
		if len(q) <= minQuestionLen || !strings.HasSuffix(q, "?") {
			continue
		}
		out = append(out, q)
		if len(out) == maxFollowups {
			break
		}
	}
	return out
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}
