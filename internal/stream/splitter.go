package stream

import "strings"

// Section names a trailing region of the response.
type Section string

const (
	// SectionAnswer is the initial region, before any marker.
	SectionAnswer Section = ""

	SectionSources   Section = "sources"
	SectionCitations Section = "citations"
	SectionRelated   Section = "related_questions"
)

type marker struct {
	text    string
	section Section
}

// Markers are matched case-sensitively, first occurrence wins. Two marker
// strings feed the same section: services label follow-up suggestions both
// ways.
var markers = []marker{
	{"Sources:", SectionSources},
	{"Citations:", SectionCitations},
	{"Related Questions:", SectionRelated},
	{"Follow-up Questions:", SectionRelated},
}

// lookback is the longest marker length minus one: the most text a marker
// spanning two fragments can leave behind in the earlier fragment.
var lookback = func() int {
	max := 0
	for _, m := range markers {
		if len(m.text) > max {
			max = len(m.text)
		}
	}
	return max - 1
}()

// Splitter routes streamed fragments to the answer buffer until a section
// marker appears, then to that section's buffer. Sections are strictly
// sequential: once a marker is seen, nothing more reaches the answer
// buffer. A tail of up to lookback bytes is held between fragments so a
// marker split across a fragment boundary is still detected.
type Splitter struct {
	answer   strings.Builder
	sections map[Section]*strings.Builder
	order    []Section
	active   Section
	pending  string
	closed   bool
}

func NewSplitter() *Splitter {
	return &Splitter{
		sections: make(map[Section]*strings.Builder),
	}
}

// Feed routes one fragment. At most one section transition happens per
// call: text before the first marker goes to the previously active buffer,
// the remainder continues in the new section as plain text.
func (s *Splitter) Feed(fragment string) {
	if s.closed || fragment == "" && s.pending == "" {
		return
	}
	work := s.pending + fragment
	s.pending = ""

	idx, m := findMarker(work)
	if idx < 0 {
		s.hold(work)
		return
	}

	s.commit(work[:idx])
	s.activate(m.section)
	s.hold(work[idx+len(m.text):])
}

// Close flushes the held-back tail. Further Feed calls are ignored.
func (s *Splitter) Close() {
	if s.closed {
		return
	}
	s.commit(s.pending)
	s.pending = ""
	s.closed = true
}

// Answer returns the answer text committed so far. Until Close, up to
// lookback bytes may still be held back, so partial views lag the stream
// slightly but never show text that later turns out to be a marker.
func (s *Splitter) Answer() string {
	return s.answer.String()
}

// SectionText returns the accumulated text of a section. The second result
// is false when the section's marker was never seen.
func (s *Splitter) SectionText(name Section) (string, bool) {
	b, ok := s.sections[name]
	if !ok {
		return "", false
	}
	return b.String(), true
}

// SectionOrder lists the sections in the order their markers appeared.
func (s *Splitter) SectionOrder() []Section {
	out := make([]Section, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Splitter) activate(name Section) {
	s.active = name
	if _, ok := s.sections[name]; !ok {
		s.sections[name] = &strings.Builder{}
		s.order = append(s.order, name)
	}
}

// hold commits all but the last lookback bytes and keeps the rest pending,
// so a marker straddling the next fragment boundary can still match.
func (s *Splitter) hold(text string) {
	if len(text) > lookback {
		s.commit(text[:len(text)-lookback])
		text = text[len(text)-lookback:]
	}
	s.pending = text
}

func (s *Splitter) commit(text string) {
	if text == "" {
		return
	}
	if s.active == SectionAnswer {
		s.answer.WriteString(text)
		return
	}
	s.sections[s.active].WriteString(text)
}

func findMarker(text string) (int, marker) {
	best := -1
	var found marker
	for _, m := range markers {
		if i := strings.Index(text, m.text); i >= 0 && (best < 0 || i < best) {
			best = i
			found = m
		}
	}
	return best, found
}
