// Package chunking provides the two-stage corpus construction pipeline:
// a character-budget splitter followed by a token-budget resegmenter.
package chunking

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docquery/internal/chunking/character"
	"github.com/custodia-labs/docquery/internal/chunking/token"
	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driven.Chunker = (*Pipeline)(nil)

// Pipeline chains chunk stages and materialises their final segments
// into the corpus. Stages run in the order provided.
type Pipeline struct {
	stages []driven.ChunkStage
}

// NewPipeline creates a pipeline with the given stages.
func NewPipeline(stages ...driven.ChunkStage) *Pipeline {
	return &Pipeline{
		stages: stages,
	}
}

// FromSettings builds the standard two-stage pipeline: character
// splitter then token resegmenter, configured from settings. Zero
// values fall back to the stage defaults.
func FromSettings(settings domain.ChunkingSettings) *Pipeline {
	return NewPipeline(
		character.New(
			character.WithChunkSize(settings.ChunkSize),
			character.WithOverlap(settings.ChunkOverlap),
		),
		token.New(
			token.WithBudget(settings.TokenBudget),
		),
	)
}

// Add appends a stage to the pipeline.
func (p *Pipeline) Add(stage driven.ChunkStage) {
	p.stages = append(p.stages, stage)
}

// Len returns the number of stages in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Chunk runs the text through all stages and assigns chunk ids in
// output order. Empty or whitespace-only input yields an empty corpus.
func (p *Pipeline) Chunk(ctx context.Context, text string) (domain.Corpus, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Corpus{}, nil
	}

	segments := []string{text}
	for _, stage := range p.stages {
		var err error
		segments, err = stage.Split(ctx, segments)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		logger.Debug("chunking stage %s produced %d segments", stage.Name(), len(segments))
	}

	corpus := make(domain.Corpus, 0, len(segments))
	for _, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		corpus = append(corpus, domain.Chunk{
			ID:       len(corpus),
			Text:     segment,
			CharLen:  utf8.RuneCountInString(segment),
			TokenLen: token.Count(segment),
		})
	}
	return corpus, nil
}
