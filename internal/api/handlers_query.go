package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"glpassist/internal/answer"
	"glpassist/internal/pipeline"
	"glpassist/internal/pplx"
	"glpassist/internal/render"
)

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Category  string               `json:"category"`
	Body      string               `json:"body"`
	BodyHTML  string               `json:"body_html,omitempty"`
	Sources   []answer.SourceEntry `json:"sources"`
	Citations []answer.Citation    `json:"citations"`
	Inline    []answer.InlineRef   `json:"inline,omitempty"`
	Followups []string             `json:"followups"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	doc, err := s.pipeline.Answer(r.Context(), req.Query, nil)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.toResponse(doc))
}

// handleQueryStream answers a query over SSE: answer deltas as they
// arrive, then the assembled document, then a done sentinel.
func (s *Server) handleQueryStream(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Validate before committing to an event stream, so validation errors
	// still reach the client as plain JSON.
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, "please enter a question", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sent := ""
	doc, err := s.pipeline.Answer(r.Context(), req.Query, func(partial string) {
		if len(partial) <= len(sent) {
			return
		}
		delta := partial[len(sent):]
		sent = partial
		writeSSE(w, "", map[string]string{"delta": delta})
		flusher.Flush()
	})
	if err != nil {
		writeSSE(w, "error", map[string]string{"error": userMessage(err)})
		flusher.Flush()
		return
	}

	writeSSE(w, "document", s.toResponse(doc))
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	entries := s.history.Recent(limit)
	if entries == nil {
		entries = []pipeline.Entry{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"history": entries})
}

func (s *Server) toResponse(doc answer.Document) queryResponse {
	resp := queryResponse{
		Category:  doc.Category,
		Body:      doc.Body,
		Sources:   doc.Sources,
		Citations: doc.Citations,
		Inline:    doc.Inline,
		Followups: doc.Followups,
	}
	if resp.Sources == nil {
		resp.Sources = []answer.SourceEntry{}
	}
	if resp.Citations == nil {
		resp.Citations = []answer.Citation{}
	}

	html, err := render.MarkdownToHTML(doc.Body)
	if err != nil {
		s.log.Warn("render html failed", "error", err)
	} else {
		resp.BodyHTML = html
	}
	return resp
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (queryRequest, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return queryRequest{}, false
	}
	return req, true
}

func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	var te *pplx.TransportError
	switch {
	case errors.Is(err, pipeline.ErrEmptyQuery):
		jsonError(w, "please enter a question", http.StatusBadRequest)
	case errors.As(err, &te):
		s.log.Error("generation service failed", "status", te.StatusCode)
		jsonError(w, "the information service is unavailable, please try again", http.StatusBadGateway)
	default:
		s.log.Error("query failed", "error", err)
		jsonError(w, "could not generate a response at this time, please try again", http.StatusBadGateway)
	}
}

// userMessage maps internal errors to the short, non-technical messages
// shown to users.
func userMessage(err error) string {
	if errors.Is(err, pipeline.ErrEmptyQuery) {
		return "please enter a question"
	}
	return "could not generate a response at this time, please try again"
}

func writeSSE(w http.ResponseWriter, event string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if event != "" {
		fmt.Fprintf(w, "event: %s\n", event)
	}
	fmt.Fprintf(w, "data: %s\n\n", b)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
