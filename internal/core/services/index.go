package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/logger"
)

// Indexer joins the embedding collaborator to a vector store. Add
// embeds a corpus and appends it in one batch; Query embeds a question
// and scans for its nearest chunks.
type Indexer struct {
	embedder driven.EmbeddingService
}

// NewIndexer creates an indexer over the given embedding service.
// The embedder may be nil; operations then fail with
// domain.ErrEmbeddingUnavailable.
func NewIndexer(embedder driven.EmbeddingService) *Indexer {
	return &Indexer{embedder: embedder}
}

// Add embeds every chunk text and appends the resulting entries to the
// store. The append is all-or-nothing: a failed batch leaves the store
// exactly as it was.
func (s *Indexer) Add(ctx context.Context, store driven.VectorStore, corpus domain.Corpus) error {
	if s.embedder == nil {
		return fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}
	if len(corpus) == 0 {
		return nil
	}

	logger.Debug("Embedding %d chunks with %s", len(corpus), s.embedder.ModelName())
	vectors, err := s.embedder.EmbedBatch(ctx, corpus.Texts())
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndex, err)
	}
	if len(vectors) != len(corpus) {
		return fmt.Errorf("%w: %w: embedded %d of %d chunks",
			domain.ErrIndex, domain.ErrEmbedding, len(vectors), len(corpus))
	}

	entries := make([]driven.VectorEntry, len(corpus))
	for i, chunk := range corpus {
		entries[i] = driven.VectorEntry{
			ID:     chunk.ID,
			Text:   chunk.Text,
			Vector: vectors[i],
		}
	}

	if err := store.Append(ctx, entries); err != nil {
		return err
	}
	logger.Debug("Index now holds %d entries (%d dimensions)", store.Len(), store.Dimensions())
	return nil
}

// Query embeds the query text and returns the topK nearest chunks,
// ascending by distance. An empty store or a blank query yields an
// empty result without an embedding call.
func (s *Indexer) Query(ctx context.Context, store driven.VectorStore, query string, topK int) (domain.QueryResult, error) {
	if topK <= 0 {
		return domain.QueryResult{}, fmt.Errorf("%w: %w: top_k must be positive, got %d",
			domain.ErrIndex, domain.ErrInvalidInput, topK)
	}
	if s.embedder == nil {
		return domain.QueryResult{}, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	query = strings.TrimSpace(query)
	if query == "" || store.Len() == 0 {
		return domain.QueryResult{}, nil
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return domain.QueryResult{}, err
	}

	hits, err := store.Scan(ctx, vector, topK)
	if err != nil {
		return domain.QueryResult{}, err
	}

	logger.Debug("Query matched %d of %d entries", len(hits), store.Len())
	return domain.QueryResult{Hits: hits}, nil
}
