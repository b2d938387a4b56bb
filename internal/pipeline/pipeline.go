package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"glpassist/internal/answer"
	"glpassist/internal/pplx"
	"glpassist/internal/stream"
)

// ErrEmptyQuery is returned for empty or whitespace-only queries, before
// any network call is made.
var ErrEmptyQuery = errors.New("query must not be empty")

// Generator is the subset of the generation-service client the pipeline
// uses.
type Generator interface {
	Stream(ctx context.Context, messages []pplx.Message, temperature float64, maxTokens int) (io.ReadCloser, error)
	Complete(ctx context.Context, messages []pplx.Message, temperature float64, maxTokens int) (string, error)
}

// Options tune the generation calls.
type Options struct {
	Temperature         float64
	MaxTokens           int
	FollowupTemperature float64
	FollowupMaxTokens   int
}

func DefaultOptions() Options {
	return Options{
		Temperature:         0.1,
		MaxTokens:           1500,
		FollowupTemperature: 0.7,
		FollowupMaxTokens:   300,
	}
}

// Pipeline answers one query at a time: stream, split, extract, compose.
// It holds no per-query state between calls; history is the only shared
// structure and is append-only.
type Pipeline struct {
	gen     Generator
	history *History
	log     *slog.Logger
	opts    Options
}

func New(gen Generator, history *History, log *slog.Logger, opts Options) *Pipeline {
	if opts.MaxTokens <= 0 {
		opts = DefaultOptions()
	}
	return &Pipeline{
		gen:     gen,
		history: history,
		log:     log,
		opts:    opts,
	}
}

// Answer processes one query start to finish. onPartial, when non-nil, is
// invoked after every fragment with the answer text assembled so far;
// partial text already delivered is never rolled back. The follow-up call
// starts only after the main stream has fully terminated.
func (p *Pipeline) Answer(ctx context.Context, query string, onPartial func(string)) (answer.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return answer.Document{}, ErrEmptyQuery
	}
	log := p.log.With("category", answer.Categorize(query))

	body, err := p.gen.Stream(ctx, pplx.QueryMessages(query), p.opts.Temperature, p.opts.MaxTokens)
	if err != nil {
		return answer.Document{}, fmt.Errorf("main call: %w", err)
	}
	defer body.Close()

	splitter := stream.NewSplitter()
	decoder := stream.NewDecoder(body)
	fragments := 0
	for {
		frag, err := decoder.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// No retry: the query aborts, partial text already shown stays.
			return answer.Document{}, err
		}
		fragments++
		splitter.Feed(frag.Text)
		if onPartial != nil {
			onPartial(splitter.Answer())
		}
	}
	splitter.Close()
	log.Info("stream complete", "fragments", fragments)

	doc := p.assemble(ctx, query, splitter)
	if p.history != nil {
		p.history.Add(query, doc)
	}
	return doc, nil
}

// assemble runs the post-stream extraction and composition steps.
func (p *Pipeline) assemble(ctx context.Context, query string, splitter *stream.Splitter) answer.Document {
	rawBody := strings.TrimSpace(splitter.Answer())

	sourcesText, _ := splitter.SectionText(stream.SectionSources)
	citationsText, _ := splitter.SectionText(stream.SectionCitations)

	sources := answer.ExtractSources(sourcesText, rawBody)
	citations := answer.ExtractCitations(citationsText)

	refs := make(map[int]string, len(citations))
	for _, c := range citations {
		if c.Number > 0 && c.Title != "" {
			refs[c.Number] = c.Title
		}
	}
	body, inline := answer.RewriteInlineCitations(rawBody, refs)

	followups := p.followups(ctx, query, rawBody, splitter)

	sourcesText = answer.FormatHyperlinks(strings.TrimSpace(sourcesText))
	return answer.Compose(query, body, sourcesText, sources, citations, inline, followups)
}

// followups prefers questions the main stream already delivered; otherwise
// it makes the secondary call. Failures degrade to an empty list and never
// block the main answer.
func (p *Pipeline) followups(ctx context.Context, query, rawBody string, splitter *stream.Splitter) []string {
	if text, ok := splitter.SectionText(stream.SectionRelated); ok {
		if qs := answer.ExtractFollowups(text); len(qs) > 0 {
			return qs
		}
	}

	raw, err := p.gen.Complete(ctx, pplx.FollowupMessages(query, rawBody), p.opts.FollowupTemperature, p.opts.FollowupMaxTokens)
	if err != nil {
		p.log.Warn("follow-up generation failed", "error", err)
		return nil
	}
	return answer.ParseFollowupResponse(raw)
}
