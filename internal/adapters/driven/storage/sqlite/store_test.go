package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSnapshot(id string, createdAt time.Time) *domain.SessionSnapshot {
	return &domain.SessionSnapshot{
		Session: domain.Session{
			ID:             id,
			DocumentID:     "doc-1",
			URI:            "/tmp/report.pdf",
			Title:          "Quarterly Report",
			Pages:          3,
			Metric:         domain.MetricEuclidean,
			Dimensions:     2,
			EmbeddingModel: "text-embedding-3-small",
			CreatedAt:      createdAt,
		},
		Chunks: domain.Corpus{
			{ID: 0, Text: "first chunk", CharLen: 11, TokenLen: 2},
			{ID: 1, Text: "second chunk", CharLen: 12, TokenLen: 2},
		},
		Vectors: [][]float32{
			{0.1, 0.2},
			{0.3, 0.4},
		},
	}
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Contains(t, store.Path(), dir)
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestStore_SaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	snapshot := testSnapshot("sess-1", created)
	require.NoError(t, store.Save(ctx, snapshot))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, snapshot.Session.ID, loaded.Session.ID)
	assert.Equal(t, snapshot.Session.DocumentID, loaded.Session.DocumentID)
	assert.Equal(t, snapshot.Session.URI, loaded.Session.URI)
	assert.Equal(t, snapshot.Session.Title, loaded.Session.Title)
	assert.Equal(t, snapshot.Session.Pages, loaded.Session.Pages)
	assert.Equal(t, domain.MetricEuclidean, loaded.Session.Metric)
	assert.Equal(t, 2, loaded.Session.Dimensions)
	assert.Equal(t, snapshot.Session.EmbeddingModel, loaded.Session.EmbeddingModel)
	assert.True(t, created.Equal(loaded.Session.CreatedAt))

	require.Len(t, loaded.Chunks, 2)
	assert.Equal(t, snapshot.Chunks, loaded.Chunks)
	assert.Equal(t, snapshot.Vectors, loaded.Vectors)
}

func TestStore_Save_DuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snapshot := testSnapshot("sess-1", time.Now().UTC())
	require.NoError(t, store.Save(ctx, snapshot))

	err := store.Save(ctx, snapshot)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestStore_Save_RequiresSessionID(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), &domain.SessionSnapshot{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Save_VectorCountMismatch(t *testing.T) {
	store := newTestStore(t)

	snapshot := testSnapshot("sess-1", time.Now().UTC())
	snapshot.Vectors = snapshot.Vectors[:1]

	err := store.Save(context.Background(), snapshot)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Save_DimensionMismatch(t *testing.T) {
	store := newTestStore(t)

	snapshot := testSnapshot("sess-1", time.Now().UTC())
	snapshot.Vectors[1] = []float32{1, 2, 3}

	err := store.Save(context.Background(), snapshot)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Load_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Latest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := testSnapshot("sess-old", time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC))
	newer := testSnapshot("sess-new", time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-new", latest.Session.ID)
	assert.Len(t, latest.Chunks, 2)
}

func TestStore_Latest_Empty(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Latest(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_List_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := testSnapshot("sess-1", time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC))
	second := testSnapshot("sess-2", time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "sess-2", sessions[0].ID)
	assert.Equal(t, "sess-1", sessions[1].ID)
}

func TestStore_List_Empty(t *testing.T) {
	store := newTestStore(t)

	sessions, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot("sess-1", time.Now().UTC())))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Delete_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, testSnapshot("sess-1", time.Now().UTC())))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Chunks, 2)
}

func TestFloat32SliceRoundTrip(t *testing.T) {
	t.Run("values survive", func(t *testing.T) {
		in := []float32{0, 1, -1, 0.5, 3.14159}
		out := bytesToFloat32Slice(float32SliceToBytes(in))
		assert.Equal(t, in, out)
	})

	t.Run("empty is nil", func(t *testing.T) {
		assert.Nil(t, float32SliceToBytes(nil))
		assert.Nil(t, bytesToFloat32Slice(nil))
	})
}
