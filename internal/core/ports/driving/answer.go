package driving

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// AnswerService retrieves context for a question and delegates answer
// generation to the configured collaborator.
type AnswerService interface {
	// Ask retrieves the topK nearest chunks and asks the generation
	// service for an answer grounded on them. Fails with an error
	// wrapping domain.ErrGenerationUnavailable when no generation
	// service is configured.
	Ask(ctx context.Context, question string, topK int) (*domain.Answer, error)
}
