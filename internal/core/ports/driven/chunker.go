package driven

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// ChunkStage transforms a sequence of text segments into another.
// Stages are composed into a pipeline: the character-budget splitter
// feeds the token-budget resegmenter.
type ChunkStage interface {
	// Name returns the unique stage name.
	Name() string

	// Split transforms the ordered segments. Order is preserved;
	// sub-segments of one input segment stay contiguous.
	Split(ctx context.Context, segments []string) ([]string, error)
}

// Chunker turns document text into the retrievable corpus.
//
// Contract: chunk ids are assigned from zero in output order; every
// chunk's token length is within the configured token budget and its
// text is non-empty and non-whitespace-only; concatenating the chunk
// texts (minus injected overlap) reproduces the input text modulo
// whitespace normalisation at chunk boundaries. Empty input yields an
// empty corpus, not an error. Chunking identical text with identical
// configuration yields an identical corpus.
type Chunker interface {
	// Chunk splits the document text into the final corpus.
	Chunk(ctx context.Context, text string) (domain.Corpus, error)
}
