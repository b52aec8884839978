package driven

import "context"

// GenerationService produces an answer to a question from retrieved
// chunk texts. This is an optional external collaborator - when nil,
// the ask surface is disabled and retrieval still works.
//
// The core's only obligation to this port is the ordered context
// sequence; how the answer is generated is entirely the provider's
// concern.
//
// Implementations may include:
//   - OpenAI (chat completions)
//   - Anthropic (messages)
//   - Ollama (local models)
type GenerationService interface {
	// Answer generates a response to the question grounded on the
	// retrieved contexts, which arrive in ascending-distance order.
	Answer(ctx context.Context, question string, contexts []string) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
