package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"glpassist/internal/pplx"
)

// fakeGenerator serves a canned SSE stream and a canned follow-up reply.
type fakeGenerator struct {
	fragments   []string
	followupRaw string
	followupErr error

	streamCalls   int
	completeCalls int
}

func (f *fakeGenerator) Stream(ctx context.Context, messages []pplx.Message, temperature float64, maxTokens int) (io.ReadCloser, error) {
	f.streamCalls++
	var sb strings.Builder
	for _, frag := range f.fragments {
		sb.WriteString("data: ")
		sb.WriteString(sseChunk(frag))
		sb.WriteString("\n")
	}
	sb.WriteString("data: [DONE]\n")
	return io.NopCloser(strings.NewReader(sb.String())), nil
}

func (f *fakeGenerator) Complete(ctx context.Context, messages []pplx.Message, temperature float64, maxTokens int) (string, error) {
	f.completeCalls++
	return f.followupRaw, f.followupErr
}

func sseChunk(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"delta": map[string]string{"content": content}, "finish_reason": nil},
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func newTestPipeline(gen Generator, history *History) *Pipeline {
	return New(gen, history, slog.New(slog.NewTextHandler(io.Discard, nil)), DefaultOptions())
}

func TestAnswer_EmptyQueryNoNetworkCall(t *testing.T) {
	gen := &fakeGenerator{}
	p := newTestPipeline(gen, nil)

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := p.Answer(context.Background(), q, nil); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}
	if gen.streamCalls != 0 || gen.completeCalls != 0 {
		t.Fatalf("expected no network calls, got stream=%d complete=%d", gen.streamCalls, gen.completeCalls)
	}
}

func TestAnswer_EndToEnd(t *testing.T) {
	gen := &fakeGenerator{
		fragments: []string{
			"Semaglutide helps with glucose control [Source 1]. ",
			"It also supports weight loss [Source 1]. Sources:",
			" 1. CDC factsheet (2023): https://cdc.gov/glp1",
		},
		followupRaw: "1. What are common side effects?\n2. How should I store Ozempic?",
	}
	p := newTestPipeline(gen, nil)

	doc, err := p.Answer(context.Background(), "does semaglutide help with weight?", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Category != "benefits" {
		t.Errorf("expected category benefits, got %q", doc.Category)
	}
	if strings.Contains(doc.Body, "CDC factsheet (2023): https://cdc.gov") {
		t.Errorf("sources text leaked unformatted into body: %q", doc.Body)
	}
	if !strings.Contains(doc.Body, "Disclaimer:") {
		t.Errorf("expected disclaimer in body: %q", doc.Body)
	}
	if !strings.Contains(doc.Body, "[CDC factsheet (2023)](https://cdc.gov/glp1)") {
		t.Errorf("expected hyperlinked source in body: %q", doc.Body)
	}

	if len(doc.Sources) != 1 {
		t.Fatalf("expected one source entry, got %v", doc.Sources)
	}
	if doc.Sources[0].ReferenceCount != 2 {
		t.Errorf("expected reference_count 2, got %d", doc.Sources[0].ReferenceCount)
	}

	want := []string{"What are common side effects?", "How should I store Ozempic?"}
	if len(doc.Followups) != 2 || doc.Followups[0] != want[0] || doc.Followups[1] != want[1] {
		t.Errorf("unexpected followups: %v", doc.Followups)
	}
	if gen.completeCalls != 1 {
		t.Errorf("expected one follow-up call, got %d", gen.completeCalls)
	}
}

func TestAnswer_PartialsDelivered(t *testing.T) {
	gen := &fakeGenerator{
		fragments:   []string{"The answer grows ", "over multiple fragments ", "until done."},
		followupRaw: "[]",
	}
	p := newTestPipeline(gen, nil)

	var partials []string
	_, err := p.Answer(context.Background(), "storage question", func(s string) {
		partials = append(partials, s)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(partials) != 3 {
		t.Fatalf("expected 3 partial updates, got %d", len(partials))
	}
	for i := 1; i < len(partials); i++ {
		if !strings.HasPrefix(partials[i], partials[i-1]) {
			t.Errorf("partial %d does not extend partial %d: %q vs %q", i, i-1, partials[i], partials[i-1])
		}
	}
}

func TestAnswer_EmptyStreamYieldsEmptyAnswer(t *testing.T) {
	gen := &fakeGenerator{followupRaw: "[]"}
	p := newTestPipeline(gen, nil)

	doc, err := p.Answer(context.Background(), "storage question", nil)
	if err != nil {
		t.Fatalf("expected empty answer, not error: %v", err)
	}
	if doc.Category == "" {
		t.Error("category must never be unset")
	}
	if !strings.Contains(doc.Body, "No specific sources provided.") {
		t.Errorf("expected placeholder sources section: %q", doc.Body)
	}
}

func TestAnswer_FollowupFailureDegrades(t *testing.T) {
	gen := &fakeGenerator{
		fragments:   []string{"Some answer text here."},
		followupErr: errors.New("boom"),
	}
	p := newTestPipeline(gen, nil)

	doc, err := p.Answer(context.Background(), "a question", nil)
	if err != nil {
		t.Fatalf("follow-up failure must not fail the answer: %v", err)
	}
	if len(doc.Followups) != 0 {
		t.Errorf("expected empty followups, got %v", doc.Followups)
	}
}

func TestAnswer_RelatedSectionSkipsSecondCall(t *testing.T) {
	gen := &fakeGenerator{
		fragments: []string{
			"Body text. Related Questions:",
			" 1. What are common side effects?\n2. How should I store Ozempic?",
		},
	}
	p := newTestPipeline(gen, nil)

	doc, err := p.Answer(context.Background(), "a question", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.completeCalls != 0 {
		t.Errorf("expected no secondary call when stream carried questions, got %d", gen.completeCalls)
	}
	if len(doc.Followups) != 2 {
		t.Errorf("unexpected followups: %v", doc.Followups)
	}
}

func TestAnswer_TransportErrorSurfaced(t *testing.T) {
	gen := &failingGenerator{}
	p := newTestPipeline(gen, nil)

	_, err := p.Answer(context.Background(), "a question", nil)
	var te *pplx.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

type failingGenerator struct{}

func (f *failingGenerator) Stream(ctx context.Context, messages []pplx.Message, temperature float64, maxTokens int) (io.ReadCloser, error) {
	return nil, &pplx.TransportError{StatusCode: 503, Message: "unavailable"}
}

func (f *failingGenerator) Complete(ctx context.Context, messages []pplx.Message, temperature float64, maxTokens int) (string, error) {
	return "", nil
}

func TestAnswer_RecordsHistory(t *testing.T) {
	gen := &fakeGenerator{
		fragments:   []string{"How to store it: keep refrigerated."},
		followupRaw: "[]",
	}
	h := NewHistory(10, 0)
	p := newTestPipeline(gen, h)

	if _, err := p.Answer(context.Background(), "how do I store ozempic?", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := h.Recent(5)
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	if entries[0].Category != "storage" {
		t.Errorf("unexpected category: %q", entries[0].Category)
	}
	if entries[0].Preview == "" {
		t.Error("expected non-empty preview")
	}
}
