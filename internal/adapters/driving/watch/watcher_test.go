package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// recordingIngest records every ingested path.
type recordingIngest struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingIngest) IngestFile(_ context.Context, path string) (*domain.IngestReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return &domain.IngestReport{Title: filepath.Base(path), Chunks: 1}, nil
}

func (r *recordingIngest) IngestBytes(_ context.Context, name string, _ []byte) (*domain.IngestReport, error) {
	return r.IngestFile(context.Background(), name)
}

func (r *recordingIngest) ingested() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

func TestWatcher_ShouldIngest(t *testing.T) {
	w := New(&recordingIngest{})

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"pdf accepted", "/docs/report.pdf", true},
		{"txt accepted", "/docs/notes.txt", true},
		{"markdown accepted", "/docs/readme.MD", true},
		{"dotfile skipped", "/docs/.hidden.pdf", false},
		{"unsupported extension skipped", "/docs/image.png", false},
		{"no extension skipped", "/docs/Makefile", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.shouldIngest(tt.path))
		})
	}
}

func TestWatcher_CustomExtensions(t *testing.T) {
	w := New(&recordingIngest{}, WithExtensions([]string{".log"}))

	assert.True(t, w.shouldIngest("/docs/build.log"))
	assert.False(t, w.shouldIngest("/docs/report.pdf"))
}

func TestWatcher_IngestsSettledFile(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{}
	w := New(ingest, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, dir)
	}()

	// Let the watcher arm before writing.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("page one"), 0o600))

	require.Eventually(t, func() bool {
		return len(ingest.ingested()) == 1
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, path, ingest.ingested()[0])

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_DebouncesWriteBursts(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{}
	w := New(ingest, WithDebounce(150*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(ctx, dir) //nolint:errcheck
	time.Sleep(100 * time.Millisecond)

	// Several rapid writes to the same file collapse into one ingest.
	path := filepath.Join(dir, "doc.md")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return len(ingest.ingested()) >= 1
	}, 2*time.Second, 20*time.Millisecond)

	// Wait past another debounce window; no further ingest may appear.
	time.Sleep(300 * time.Millisecond)
	assert.Len(t, ingest.ingested(), 1)
}

func TestWatcher_SkipsUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{}
	w := New(ingest, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(ctx, dir) //nolint:errcheck
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("png"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0o600))

	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, ingest.ingested())
}
