package answer

import (
	"regexp"
	"strconv"
	"strings"
)

var citationHeaderRe = regexp.MustCompile(`^\s*\[Citation\s+(\d+)\]`)

// ExtractCitations parses a "Citations:" section as a sequence of blocks,
// each introduced by a [Citation n] line and populated by key: value lines.
// A block is finalized when the next header is seen or input ends. Missing
// fields are left unset.
func ExtractCitations(sectionText string) []Citation {
	var citations []Citation
	var current *Citation

	flush := func() {
		if current != nil {
			citations = append(citations, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(sectionText, "\n") {
		if m := citationHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			n, _ := strconv.Atoi(m[1])
			current = &Citation{Number: n}
			continue
		}
		if current == nil {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			current.Title = value
		case "url":
			current.URL = value
		case "publisher":
			current.Publisher = value
		case "year":
			current.Year = value
		case "doi":
			current.DOI = value
		case "authors":
			current.Authors = splitAuthors(value)
		}
	}
	flush()
	return citations
}

func splitAuthors(value string) []string {
	var authors []string
	for _, a := range strings.Split(value, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}
