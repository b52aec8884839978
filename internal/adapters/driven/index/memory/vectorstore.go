// Package memory provides an in-memory vector store scanned linearly.
//
// The store is the working index of a session: chunks are appended
// once during ingestion and scanned on every query. No approximate
// structures are used; every scan visits every entry, which is exact
// and fast enough at document scale.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an append-only in-memory vector store with a fixed
// distance metric.
type VectorStore struct {
	mu      sync.RWMutex
	entries []driven.VectorEntry
	dims    int
	metric  domain.Metric
}

// NewVectorStore creates a store using the given metric. An invalid
// metric falls back to the default.
func NewVectorStore(metric domain.Metric) *VectorStore {
	if !metric.IsValid() {
		metric = domain.DefaultMetric
	}
	return &VectorStore{
		metric: metric,
	}
}

// Append stores the entries in order. Validation runs over the whole
// batch before anything is committed, so a failed append leaves the
// store unchanged.
func (s *VectorStore) Append(ctx context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndex, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dims := s.dims
	next := len(s.entries)
	for i, entry := range entries {
		if len(entry.Vector) == 0 {
			return fmt.Errorf("%w: entry %d has an empty vector", domain.ErrIndex, entry.ID)
		}
		if dims == 0 {
			// First vector fixes the store dimension.
			dims = len(entry.Vector)
		}
		if len(entry.Vector) != dims {
			return fmt.Errorf("%w: entry %d has %d dimensions, store has %d",
				domain.ErrIndex, entry.ID, len(entry.Vector), dims)
		}
		if entry.ID != next+i {
			return fmt.Errorf("%w: entry id %d does not continue sequence at %d",
				domain.ErrIndex, entry.ID, next+i)
		}
	}

	s.dims = dims
	s.entries = append(s.entries, entries...)
	return nil
}

// Scan returns the k nearest entries to the query vector, ascending by
// distance, ties broken by lower id.
func (s *VectorStore) Scan(ctx context.Context, query []float32, k int) ([]domain.Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndex, err)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: %w: k must be positive, got %d", domain.ErrIndex, domain.ErrInvalidInput, k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return []domain.Hit{}, nil
	}
	if len(query) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d",
			domain.ErrIndex, len(query), s.dims)
	}

	hits := make([]domain.Hit, 0, len(s.entries))
	for _, entry := range s.entries {
		var dist float64
		switch s.metric {
		case domain.MetricCosine:
			dist = cosineDistance(query, entry.Vector)
		default:
			dist = euclideanDistance(query, entry.Vector)
		}
		hits = append(hits, domain.Hit{
			ChunkID:  entry.ID,
			Text:     entry.Text,
			Distance: dist,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Entries returns the stored entries in insertion order. The slice is
// a copy; the vectors are shared and must not be mutated.
func (s *VectorStore) Entries() []driven.VectorEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]driven.VectorEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of stored entries.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Dimensions returns the vector size fixed by the first append, or 0
// for an empty store.
func (s *VectorStore) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dims
}

// Metric returns the distance metric fixed at construction.
func (s *VectorStore) Metric() domain.Metric {
	return s.metric
}

// euclideanDistance is the L2 distance between two vectors.
// Accumulation runs in float64 to limit rounding drift.
func euclideanDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// cosineDistance is 1 minus the cosine similarity. A zero vector on
// either side yields the maximum distance of 1.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
