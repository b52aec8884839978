package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor runs the ingest pipeline: extract, chunk, embed, index.
// A successful ingest replaces the active session; a failed one leaves
// the previous session untouched.
type Ingestor struct {
	extractors driven.ExtractorRegistry
	chunker    driven.Chunker
	indexer    *Indexer
	workspace  *Workspace
	newIndex   driven.IndexFactory
	metric     domain.Metric
	sessions   driven.SessionStore
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithPersistence makes every successful ingest persist its session
// to the given store.
func WithPersistence(store driven.SessionStore) IngestorOption {
	return func(s *Ingestor) {
		s.sessions = store
	}
}

// NewIngestor creates an ingest service.
func NewIngestor(
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	indexer *Indexer,
	workspace *Workspace,
	newIndex driven.IndexFactory,
	metric domain.Metric,
	opts ...IngestorOption,
) *Ingestor {
	if !metric.IsValid() {
		metric = domain.DefaultMetric
	}

	s := &Ingestor{
		extractors: extractors,
		chunker:    chunker,
		indexer:    indexer,
		workspace:  workspace,
		newIndex:   newIndex,
		metric:     metric,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestFile ingests a document from the filesystem.
func (s *Ingestor) IngestFile(ctx context.Context, path string) (*domain.IngestReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s.IngestBytes(ctx, path, data)
}

// IngestBytes ingests an in-memory document. The name drives format
// detection and becomes the session URI.
func (s *Ingestor) IngestBytes(ctx context.Context, name string, data []byte) (*domain.IngestReport, error) {
	start := time.Now()
	logger.Section("Document Ingest")
	logger.Debug("Source: %s (%d bytes)", name, len(data))

	raw := &domain.RawDocument{
		URI:     name,
		Content: data,
	}

	doc, err := s.extractors.Extract(ctx, raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("Extracted %q: %d pages", doc.Title, doc.PageCount())

	corpus, err := s.chunker.Chunk(ctx, doc.Text())
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", name, err)
	}
	logger.Debug("Chunked into %d chunks, %d tokens", len(corpus), corpus.TotalTokens())

	store := s.newIndex(s.metric)
	if err := s.indexer.Add(ctx, store, corpus); err != nil {
		return nil, err
	}

	session := domain.Session{
		ID:             domain.NewSessionID(),
		DocumentID:     doc.ID,
		URI:            doc.URI,
		Title:          doc.Title,
		Pages:          doc.PageCount(),
		Metric:         s.metric,
		Dimensions:     store.Dimensions(),
		EmbeddingModel: s.indexer.embedder.ModelName(),
		CreatedAt:      time.Now().UTC(),
	}

	// Persist before activating so a failed save leaves the previous
	// session untouched.
	saved := false
	if s.sessions != nil {
		if err := s.sessions.Save(ctx, snapshotOf(session, store, corpus)); err != nil {
			return nil, fmt.Errorf("persisting session: %w", err)
		}
		saved = true
		logger.Debug("Session persisted")
	}

	s.workspace.Replace(session, store)
	logger.Info("Session %s active: %q, %d chunks", session.ID, session.Title, len(corpus))

	return &domain.IngestReport{
		SessionID:  session.ID,
		DocumentID: doc.ID,
		Title:      doc.Title,
		Pages:      doc.PageCount(),
		Chunks:     len(corpus),
		Tokens:     corpus.TotalTokens(),
		Saved:      saved,
		Elapsed:    time.Since(start),
	}, nil
}

// snapshotOf assembles the persistable state of a freshly built session.
func snapshotOf(session domain.Session, store driven.VectorStore, corpus domain.Corpus) *domain.SessionSnapshot {
	entries := store.Entries()
	vectors := make([][]float32, len(entries))
	for i, entry := range entries {
		vectors[i] = entry.Vector
	}
	return &domain.SessionSnapshot{
		Session: session,
		Chunks:  corpus,
		Vectors: vectors,
	}
}
