package driven

import "context"

// EmbeddingService maps text to fixed-dimension vectors.
//
// The service is an external collaborator the core treats as a pure
// function: one vector per input text, same order, deterministic for
// identical text and model configuration, fixed dimensionality across
// all calls in a session. Failures are atomic - implementations wrap
// domain.ErrEmbedding and never return a partial or misaligned batch.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small and friends)
//   - Ollama (local models such as nomic-embed-text)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one
	// collaborator round-trip where the provider supports it. The
	// result preserves input order. An empty input yields an empty
	// result without a call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to an ingest.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
