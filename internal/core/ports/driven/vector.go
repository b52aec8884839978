package driven

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// VectorEntry is one (id, text, vector) triple held by a store.
type VectorEntry struct {
	// ID is the chunk id. Entries are appended with contiguous ids
	// continuing the store's insertion sequence.
	ID int

	// Text is the chunk content.
	Text string

	// Vector is the embedding. Owned by the store once appended;
	// never mutated afterwards.
	Vector []float32
}

// IndexFactory creates an empty vector store with the given metric.
// Ingest and session load build one fresh index per session through
// this, keeping the core free of adapter imports.
type IndexFactory func(metric domain.Metric) VectorStore

// VectorStore holds embedded chunks and scans them by distance.
//
// Stores grow only by append; ids are never reused and no deletion is
// supported. The distance metric is fixed at construction. Append is
// all-or-nothing: on any validation failure no entry is committed.
// Scans are read-only and may run concurrently with each other.
type VectorStore interface {
	// Append stores the entries in order. It fails, committing
	// nothing, when an entry's dimension disagrees with the store's,
	// or when ids do not continue the insertion sequence.
	Append(ctx context.Context, entries []VectorEntry) error

	// Scan returns the k entries nearest to the query vector,
	// ascending by distance, ties broken by lower id. An empty store
	// returns an empty result, not an error.
	Scan(ctx context.Context, query []float32, k int) ([]domain.Hit, error)

	// Entries returns a snapshot of all stored entries in insertion
	// order. Used for session persistence.
	Entries() []VectorEntry

	// Len returns the number of stored entries.
	Len() int

	// Dimensions returns the vector size, or 0 before the first append.
	Dimensions() int

	// Metric returns the distance metric fixed at construction.
	Metric() domain.Metric
}
