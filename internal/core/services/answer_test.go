package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

func TestAnswerer_Ask(t *testing.T) {
	generator := &mockGenerationService{answer: "Grounded answer."}
	answerer := NewAnswerer(newActiveRetriever(t), generator)

	answer, err := answerer.Ask(context.Background(), "probe", 2)
	require.NoError(t, err)

	assert.Equal(t, "Grounded answer.", answer.Text)
	assert.Equal(t, "mock-llm", answer.Model)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, 0, answer.Sources[0].ChunkID)
	assert.Equal(t, 2, answer.Sources[1].ChunkID)

	assert.Equal(t, "probe", generator.gotQuestion)
	assert.Equal(t, []string{"alpha", "gamma"}, generator.gotContexts)
}

func TestAnswerer_Ask_NoGenerator(t *testing.T) {
	answerer := NewAnswerer(newActiveRetriever(t), nil)

	_, err := answerer.Ask(context.Background(), "probe", 2)
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}

func TestAnswerer_Ask_NoActiveSession(t *testing.T) {
	retriever := NewRetriever(NewIndexer(newTestEmbedder()), NewWorkspace())
	answerer := NewAnswerer(retriever, &mockGenerationService{answer: "unused"})

	_, err := answerer.Ask(context.Background(), "probe", 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnswerer_Ask_GenerationError(t *testing.T) {
	generator := &mockGenerationService{answerErr: domain.ErrGeneration}
	answerer := NewAnswerer(newActiveRetriever(t), generator)

	_, err := answerer.Ask(context.Background(), "probe", 2)
	assert.ErrorIs(t, err, domain.ErrGeneration)
}
