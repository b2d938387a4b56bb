package answer

// SourceEntry is a numbered reference tied to explicit [Source N] markers
// in the answer body.
type SourceEntry struct {
	Number         int    `json:"number"`
	Details        string `json:"details"`
	ReferenceCount int    `json:"reference_count"`
}

// Citation is a structured academic reference parsed from a [Citation n]
// block. Only Title and URL are expected in practice; the extractor never
// invents values for missing fields.
type Citation struct {
	Number    int      `json:"number,omitempty"`
	Title     string   `json:"title,omitempty"`
	URL       string   `json:"url,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Year      string   `json:"year,omitempty"`
	Authors   []string `json:"authors,omitempty"`
	DOI       string   `json:"doi,omitempty"`
}

// InlineRef ties an inline [N] citation marker in the answer body to its
// reference text. Unresolved markers are listed rather than dropped:
// silently losing a citation marker is worse than showing an absent one.
type InlineRef struct {
	Number   int    `json:"number"`
	Text     string `json:"text,omitempty"`
	Resolved bool   `json:"resolved"`
}

// Document is the fully assembled, display-ready result of one query.
type Document struct {
	Category  string        `json:"category"`
	Body      string        `json:"body"`
	Sources   []SourceEntry `json:"sources"`
	Citations []Citation    `json:"citations"`
	Inline    []InlineRef   `json:"inline,omitempty"`
	Followups []string      `json:"followups"`
}
