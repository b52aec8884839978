// Package token provides the second chunking stage: token-bounded
// resegmentation under a fixed whitespace tokenizer.
package token

import (
	"context"
)

// DefaultBudget is the default maximum token count per chunk.
const DefaultBudget = 256

// Splitter resegments text so no output exceeds the token budget.
// It implements the ChunkStage interface.
//
// A segment within budget passes through unchanged. A segment over
// budget is cut into consecutive token-aligned sub-segments of exactly
// the budget (the last may be shorter), always with zero overlap -
// independent of any overlap the character stage applied. Sub-segments
// are slices of the original text between token boundaries, so
// interior whitespace survives; only whitespace at the cut points is
// dropped.
type Splitter struct {
	budget int
}

// Option configures the token splitter.
type Option func(*Splitter)

// WithBudget sets the maximum token count per segment.
func WithBudget(budget int) Option {
	return func(s *Splitter) {
		if budget > 0 {
			s.budget = budget
		}
	}
}

// New creates a token splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		budget: DefaultBudget,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the stage name.
func (s *Splitter) Name() string {
	return "token"
}

// Budget returns the configured token ceiling.
func (s *Splitter) Budget() int {
	return s.budget
}

// Split resegments every input segment within the token budget.
// Order is preserved; sub-segments of one input stay contiguous.
func (s *Splitter) Split(_ context.Context, segments []string) ([]string, error) {
	var out []string
	for _, segment := range segments {
		out = append(out, s.resegment(segment)...)
	}
	return out, nil
}

// resegment cuts one segment into token-aligned pieces of at most
// budget tokens each.
func (s *Splitter) resegment(segment string) []string {
	spans := Tokenize(segment)
	if len(spans) == 0 {
		return nil
	}
	if len(spans) <= s.budget {
		return []string{segment}
	}

	out := make([]string, 0, (len(spans)/s.budget)+1)
	for start := 0; start < len(spans); start += s.budget {
		end := start + s.budget
		if end > len(spans) {
			end = len(spans)
		}
		out = append(out, segment[spans[start].Start:spans[end-1].End])
	}
	return out
}
