// Package character provides the first chunking stage: a recursive
// character splitter bounded by a character budget.
package character

import (
	"context"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default character budget per segment.
const DefaultChunkSize = 1000

// DefaultOverlap is the default overlap between segments in characters.
const DefaultOverlap = 0

// DefaultSeparators returns the separator cascade, coarsest to finest.
// The empty string means "split anywhere".
func DefaultSeparators() []string {
	return []string{"\n\n", "\n", ". ", " ", ""}
}

// Splitter splits text on a separator cascade so that every output
// segment fits the character budget. It implements the ChunkStage
// interface.
//
// Splitting walks the separators coarsest first: pieces that still
// exceed the budget are re-split with the finer separators, and when
// the cascade is exhausted the piece is force-split at raw character
// boundaries. Adjacent pieces are merged greedily while their combined
// length stays within the budget, so the stage never emits smaller
// segments than necessary. Separator characters stay attached to the
// piece that follows them, which keeps the output concatenation
// faithful to the input.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the character splitter.
type Option func(*Splitter)

// WithChunkSize sets the character budget per segment.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets how many trailing characters of a segment are
// prefixed to its successor.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator cascade. Order runs coarsest
// to finest; an empty string means "split anywhere".
func WithSeparators(separators []string) Option {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// New creates a character splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultOverlap,
		separators: DefaultSeparators(),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed the budget
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Name returns the stage name.
func (s *Splitter) Name() string {
	return "character"
}

// ChunkSize returns the configured character budget.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Split splits every input segment within the character budget.
// Order is preserved and sub-segments stay contiguous.
func (s *Splitter) Split(_ context.Context, segments []string) ([]string, error) {
	var out []string
	for _, segment := range segments {
		pieces := s.splitText(segment, s.separators)
		if s.overlap > 0 {
			pieces = s.applyOverlap(pieces)
		}
		out = append(out, pieces...)
	}
	return out, nil
}

// splitText runs the recursive separator cascade over one text.
func (s *Splitter) splitText(text string, separators []string) []string {
	sep, remaining := chooseSeparator(text, separators)
	if sep == "" {
		return s.forceSplit(text)
	}

	splits := splitKeepSeparator(text, sep)

	var out []string
	var within []string

	for _, piece := range splits {
		if utf8.RuneCountInString(piece) <= s.chunkSize {
			within = append(within, piece)
			continue
		}
		// Flush the fitting run before handling the oversized piece.
		if len(within) > 0 {
			out = append(out, s.merge(within)...)
			within = nil
		}
		if len(remaining) == 0 {
			out = append(out, s.forceSplit(piece)...)
		} else {
			out = append(out, s.splitText(piece, remaining)...)
		}
	}

	if len(within) > 0 {
		out = append(out, s.merge(within)...)
	}
	return out
}

// chooseSeparator picks the first separator that occurs in the text.
// The empty separator always matches. Returns the choice plus the
// finer separators left for recursion.
func chooseSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// splitKeepSeparator splits on sep, prefixing sep to each piece after
// the first so no characters are lost.
func splitKeepSeparator(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	if parts[0] != "" {
		out = append(out, parts[0])
	}
	for _, part := range parts[1:] {
		out = append(out, sep+part)
	}
	return out
}

// merge greedily joins adjacent pieces while the combined length stays
// within the budget. Joined pieces are trimmed; pieces that trim to
// nothing are dropped.
func (s *Splitter) merge(pieces []string) []string {
	var out []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		joined := strings.TrimSpace(strings.Join(current, ""))
		if joined != "" {
			out = append(out, joined)
		}
		current = current[:0]
		currentLen = 0
	}

	for _, piece := range pieces {
		pieceLen := utf8.RuneCountInString(piece)
		if currentLen+pieceLen > s.chunkSize && currentLen > 0 {
			flush()
		}
		current = append(current, piece)
		currentLen += pieceLen
	}
	flush()

	return out
}

// forceSplit cuts the text at raw character boundaries every chunkSize
// runes. Last resort when no separator can reduce a piece.
func (s *Splitter) forceSplit(text string) []string {
	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	out := make([]string, 0, (len(runes)/s.chunkSize)+1)
	for start := 0; start < len(runes); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// applyOverlap prefixes every piece after the first with the trailing
// overlap characters of its unprefixed predecessor.
func (s *Splitter) applyOverlap(pieces []string) []string {
	if len(pieces) < 2 {
		return pieces
	}

	out := make([]string, len(pieces))
	out[0] = pieces[0]
	for i := 1; i < len(pieces); i++ {
		prev := []rune(pieces[i-1])
		start := len(prev) - s.overlap
		if start < 0 {
			start = 0
		}
		out[i] = string(prev[start:]) + pieces[i]
	}
	return out
}
