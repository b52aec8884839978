package driving

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// RetrievalService answers nearest-neighbour queries against the
// active session's index.
type RetrievalService interface {
	// Retrieve returns the texts of the topK chunks nearest to the
	// query, ascending by distance. This is the sequence the external
	// generation collaborator consumes. An ingested-but-empty session
	// yields an empty slice; topK <= 0 is a caller contract violation.
	Retrieve(ctx context.Context, query string, topK int) ([]string, error)

	// RetrieveHits is Retrieve with ids and distances, for surfaces
	// that display provenance.
	RetrieveHits(ctx context.Context, query string, topK int) (domain.QueryResult, error)
}
