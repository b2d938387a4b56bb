package answer

import "strings"

type category struct {
	name     string
	keywords []string
}

// Categories overlap in keywords, so order is a fixed priority: the first
// category with any substring match wins.
var categories = []category{
	{"dosage", []string{"dose", "dosage", "how to take", "when to take", "injection", "administration"}},
	{"side_effects", []string{"side effect", "adverse", "reaction", "problem", "issues", "symptoms"}},
	{"benefits", []string{"benefit", "advantage", "help", "work", "effect", "weight", "glucose"}},
	{"storage", []string{"store", "storage", "keep", "refrigerate", "temperature"}},
	{"lifestyle", []string{"diet", "exercise", "lifestyle", "food", "alcohol", "eating"}},
	{"interactions", []string{"interaction", "drug", "medication", "combine", "mixing"}},
	{"cost", []string{"cost", "price", "insurance", "coverage", "afford"}},
}

// Categorize assigns a coarse display category to a query. Never returns
// an empty string; queries matching nothing are "general".
func Categorize(query string) string {
	q := strings.ToLower(query)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(q, kw) {
				return c.name
			}
		}
	}
	return "general"
}
