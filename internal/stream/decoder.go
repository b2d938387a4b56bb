package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Fragment is one incremental piece of generated text.
type Fragment struct {
	Text  string
	Index int
}

const doneSentinel = "[DONE]"

type chunkPayload struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// Decoder turns a raw SSE body from the generation service into a sequence
// of content fragments. Keep-alive comments and non-data lines are skipped,
// and a single malformed data line does not abort the stream: upstream
// services are known to interleave junk.
type Decoder struct {
	scanner *bufio.Scanner
	index   int
	done    bool
}

func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Decoder{scanner: sc}
}

// Next returns the next content fragment. io.EOF signals end of stream;
// a stream with zero fragments before EOF is valid and means an empty
// answer.
func (d *Decoder) Next() (Fragment, error) {
	if d.done {
		return Fragment{}, io.EOF
	}

	for d.scanner.Scan() {
		line := strings.TrimSpace(d.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == doneSentinel {
			d.done = true
			return Fragment{}, io.EOF
		}

		var chunk chunkPayload
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		choice := chunk.Choices[0]
		if choice.FinishReason != nil && *choice.FinishReason != "" {
			// Terminal reason code: stop even if more lines follow.
			d.done = true
			if choice.Delta.Content == "" {
				return Fragment{}, io.EOF
			}
			return d.emit(choice.Delta.Content), nil
		}
		if choice.Delta.Content == "" {
			continue
		}
		return d.emit(choice.Delta.Content), nil
	}

	if err := d.scanner.Err(); err != nil {
		return Fragment{}, fmt.Errorf("read stream: %w", err)
	}
	d.done = true
	return Fragment{}, io.EOF
}

func (d *Decoder) emit(text string) Fragment {
	f := Fragment{Text: text, Index: d.index}
	d.index++
	return f
}
