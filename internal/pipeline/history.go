package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"glpassist/internal/answer"
	"glpassist/internal/render"
)

const previewLen = 160

// Entry is one answered query retained for history listings.
type Entry struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Category  string    `json:"category"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

// History is a thread-safe, append-only list of answered queries with TTL
// and size eviction. Entries are never mutated after creation.
type History struct {
	mu      sync.Mutex
	entries []Entry
	max     int
	ttl     time.Duration
}

func NewHistory(max int, ttl time.Duration) *History {
	if max <= 0 {
		max = 100
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &History{max: max, ttl: ttl}
}

// Add records an answered query and returns the stored entry.
func (h *History) Add(query string, doc answer.Document) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		Query:     query,
		Category:  doc.Category,
		Preview:   render.Preview(doc.Body, previewLen),
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	return e
}

// Recent returns up to n entries, newest first.
func (h *History) Recent(n int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n <= 0 || n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(h.entries) - 1; i >= len(h.entries)-n; i-- {
		out = append(out, h.entries[i])
	}
	return out
}

// Cleanup removes expired entries.
func (h *History) Cleanup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := time.Now().Add(-h.ttl)
	writeIdx := 0
	for _, e := range h.entries {
		if !e.CreatedAt.Before(cutoff) {
			h.entries[writeIdx] = e
			writeIdx++
		}
	}
	h.entries = h.entries[:writeIdx]
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
