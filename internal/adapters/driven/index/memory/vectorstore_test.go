package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
)

func TestNewVectorStore(t *testing.T) {
	t.Run("valid metric", func(t *testing.T) {
		store := NewVectorStore(domain.MetricCosine)
		assert.Equal(t, domain.MetricCosine, store.Metric())
	})

	t.Run("invalid metric falls back to default", func(t *testing.T) {
		store := NewVectorStore(domain.Metric("manhattan"))
		assert.Equal(t, domain.DefaultMetric, store.Metric())
	})

	t.Run("empty store", func(t *testing.T) {
		store := NewVectorStore(domain.MetricEuclidean)
		assert.Equal(t, 0, store.Len())
		assert.Equal(t, 0, store.Dimensions())
	})
}

func TestVectorStore_Append_FixesDimensions(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)

	err := store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "first", Vector: []float32{1, 0}},
		{ID: 1, Text: "second", Vector: []float32{0, 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 2, store.Dimensions())
}

func TestVectorStore_Append_EmptyBatch(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)

	err := store.Append(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestVectorStore_Append_AllOrNothing(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)

	// The second entry's dimension disagrees; nothing may be committed.
	err := store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "first", Vector: []float32{1, 0}},
		{ID: 1, Text: "second", Vector: []float32{1, 2, 3}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndex)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, store.Dimensions())
}

func TestVectorStore_Append_DimensionMismatch(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)

	err := store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "first", Vector: []float32{1, 0}},
	})
	require.NoError(t, err)

	err = store.Append(context.Background(), []driven.VectorEntry{
		{ID: 1, Text: "second", Vector: []float32{1, 2, 3}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndex)
	assert.Equal(t, 1, store.Len())
}

func TestVectorStore_Append_NonContiguousIDs(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)

	err := store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "first", Vector: []float32{1, 0}},
		{ID: 2, Text: "third", Vector: []float32{0, 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndex)
	assert.Equal(t, 0, store.Len())
}

func TestVectorStore_Append_ContinuesSequence(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)

	err := store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "a", Vector: []float32{1, 0}},
		{ID: 1, Text: "b", Vector: []float32{0, 1}},
	})
	require.NoError(t, err)

	err = store.Append(context.Background(), []driven.VectorEntry{
		{ID: 2, Text: "c", Vector: []float32{1, 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	// A gap in the sequence is rejected.
	err = store.Append(context.Background(), []driven.VectorEntry{
		{ID: 5, Text: "f", Vector: []float32{2, 2}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndex)
	assert.Equal(t, 3, store.Len())
}

func TestVectorStore_Append_EmptyVector(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)

	err := store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "first", Vector: nil},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndex)
}

func TestVectorStore_Scan_EmptyStore(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)

	hits, err := store.Scan(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorStore_Scan_Euclidean(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)
	require.NoError(t, store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "origin", Vector: []float32{0, 0}},
		{ID: 1, Text: "far", Vector: []float32{3, 4}},
		{ID: 2, Text: "near", Vector: []float32{1, 0}},
	}))

	hits, err := store.Scan(context.Background(), []float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 0, hits[0].ChunkID)
	assert.Equal(t, 0.0, hits[0].Distance)
	assert.Equal(t, 2, hits[1].ChunkID)
	assert.Equal(t, 1.0, hits[1].Distance)
	assert.Equal(t, 1, hits[2].ChunkID)
	assert.Equal(t, 5.0, hits[2].Distance)
	assert.Equal(t, "origin", hits[0].Text)
}

func TestVectorStore_Scan_Cosine(t *testing.T) {
	store := NewVectorStore(domain.MetricCosine)
	require.NoError(t, store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "aligned", Vector: []float32{1, 0}},
		{ID: 1, Text: "orthogonal", Vector: []float32{0, 1}},
		{ID: 2, Text: "diagonal", Vector: []float32{1, 1}},
	}))

	// Cosine ignores magnitude, so a scaled query ranks identically.
	hits, err := store.Scan(context.Background(), []float32{10, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 0, hits[0].ChunkID)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-9)
	assert.Equal(t, 2, hits[1].ChunkID)
	assert.InDelta(t, 0.2929, hits[1].Distance, 1e-4)
	assert.Equal(t, 1, hits[2].ChunkID)
	assert.InDelta(t, 1.0, hits[2].Distance, 1e-9)
}

func TestVectorStore_Scan_TiesBrokenByLowerID(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)
	require.NoError(t, store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "a", Vector: []float32{0, 1}},
		{ID: 1, Text: "b", Vector: []float32{1, 0}},
		{ID: 2, Text: "c", Vector: []float32{0, 1}},
	}))

	hits, err := store.Scan(context.Background(), []float32{0, 1}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, []int{0, 2, 1}, []int{hits[0].ChunkID, hits[1].ChunkID, hits[2].ChunkID})
}

func TestVectorStore_Scan_KClamped(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)
	require.NoError(t, store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "a", Vector: []float32{1, 0}},
		{ID: 1, Text: "b", Vector: []float32{0, 1}},
	}))

	hits, err := store.Scan(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestVectorStore_Scan_InvalidK(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)

	_, err := store.Scan(context.Background(), []float32{1, 0}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndex)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_Scan_QueryDimensionMismatch(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)
	require.NoError(t, store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "a", Vector: []float32{1, 0}},
	}))

	_, err := store.Scan(context.Background(), []float32{1, 0, 0}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndex)
}

func TestVectorStore_Entries_Snapshot(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)
	require.NoError(t, store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "a", Vector: []float32{1, 0}},
	}))

	snapshot := store.Entries()
	require.Len(t, snapshot, 1)

	snapshot[0].Text = "mutated"
	assert.Equal(t, "a", store.Entries()[0].Text)
}

func TestVectorStore_Scan_Concurrent(t *testing.T) {
	store := NewVectorStore(domain.MetricEuclidean)
	require.NoError(t, store.Append(context.Background(), []driven.VectorEntry{
		{ID: 0, Text: "a", Vector: []float32{1, 0}},
		{ID: 1, Text: "b", Vector: []float32{0, 1}},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := store.Scan(context.Background(), []float32{1, 0}, 2)
			assert.NoError(t, err)
			assert.Len(t, hits, 2)
		}()
	}
	wg.Wait()
}
