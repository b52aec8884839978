package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/logger"
)

// Ensure Answerer implements the interface.
var _ driving.AnswerService = (*Answerer)(nil)

// Answerer retrieves context for a question and delegates answer
// generation to the configured collaborator.
type Answerer struct {
	retriever *Retriever
	generator driven.GenerationService
}

// NewAnswerer creates an answer service. The generator may be nil;
// Ask then fails with domain.ErrGenerationUnavailable while retrieval
// surfaces keep working.
func NewAnswerer(retriever *Retriever, generator driven.GenerationService) *Answerer {
	return &Answerer{
		retriever: retriever,
		generator: generator,
	}
}

// Ask retrieves the topK nearest chunks and asks the generation
// service for an answer grounded on them.
func (s *Answerer) Ask(ctx context.Context, question string, topK int) (*domain.Answer, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("%w: no generation provider configured", domain.ErrGenerationUnavailable)
	}

	result, err := s.retriever.RetrieveHits(ctx, question, topK)
	if err != nil {
		return nil, err
	}
	logger.Debug("Asking %s with %d context chunks", s.generator.ModelName(), result.Len())

	text, err := s.generator.Answer(ctx, question, result.Texts())
	if err != nil {
		return nil, err
	}

	return &domain.Answer{
		Text:    text,
		Sources: result.Hits,
		Model:   s.generator.ModelName(),
	}, nil
}
