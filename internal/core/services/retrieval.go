package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// Retriever answers nearest-neighbour queries against the active
// session's index.
type Retriever struct {
	indexer   *Indexer
	workspace *Workspace
}

// NewRetriever creates a retrieval service.
func NewRetriever(indexer *Indexer, workspace *Workspace) *Retriever {
	return &Retriever{
		indexer:   indexer,
		workspace: workspace,
	}
}

// Retrieve returns the texts of the topK chunks nearest to the query,
// ascending by distance.
func (s *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	result, err := s.RetrieveHits(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	return result.Texts(), nil
}

// RetrieveHits returns the topK nearest chunks with ids and distances.
func (s *Retriever) RetrieveHits(ctx context.Context, query string, topK int) (domain.QueryResult, error) {
	store, ok := s.workspace.Index()
	if !ok {
		return domain.QueryResult{}, fmt.Errorf("%w: no active session, ingest a document first", domain.ErrNotFound)
	}

	logger.Debug("Retrieving top %d for query (%d chars)", topK, len(query))
	return s.indexer.Query(ctx, store, query, topK)
}
