package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/logger"
)

// Ensure Sessions implements the interface.
var _ driving.SessionService = (*Sessions)(nil)

// Sessions manages persisted sessions and the active one.
type Sessions struct {
	store     driven.SessionStore
	workspace *Workspace
	newIndex  driven.IndexFactory
}

// NewSessions creates a session service. The store may be nil;
// persistence operations then fail with domain.ErrNotFound.
func NewSessions(store driven.SessionStore, workspace *Workspace, newIndex driven.IndexFactory) *Sessions {
	return &Sessions{
		store:     store,
		workspace: workspace,
		newIndex:  newIndex,
	}
}

// Current returns the active session's metadata.
func (s *Sessions) Current(ctx context.Context) (*domain.Session, error) {
	session, ok := s.workspace.Session()
	if !ok {
		return nil, fmt.Errorf("%w: no active session", domain.ErrNotFound)
	}
	return &session, nil
}

// Load rehydrates a persisted session into the active in-memory index
// without re-embedding. An empty id loads the latest snapshot.
func (s *Sessions) Load(ctx context.Context, id string) (*domain.Session, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: session persistence is not available", domain.ErrNotFound)
	}

	var snapshot *domain.SessionSnapshot
	var err error
	if id == "" {
		snapshot, err = s.store.Latest(ctx)
	} else {
		snapshot, err = s.store.Load(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	index := s.newIndex(snapshot.Session.Metric)
	entries := make([]driven.VectorEntry, len(snapshot.Chunks))
	for i, chunk := range snapshot.Chunks {
		entries[i] = driven.VectorEntry{
			ID:     chunk.ID,
			Text:   chunk.Text,
			Vector: snapshot.Vectors[i],
		}
	}
	if err := index.Append(ctx, entries); err != nil {
		return nil, fmt.Errorf("rebuilding index for session %s: %w", snapshot.Session.ID, err)
	}

	s.workspace.Replace(snapshot.Session, index)
	logger.Info("Session %s loaded: %q, %d chunks", snapshot.Session.ID, snapshot.Session.Title, len(snapshot.Chunks))

	session := snapshot.Session
	return &session, nil
}

// List returns all persisted sessions, newest first.
func (s *Sessions) List(ctx context.Context) ([]domain.Session, error) {
	if s.store == nil {
		return []domain.Session{}, nil
	}
	return s.store.List(ctx)
}

// Delete removes a persisted session. The active session is
// unaffected even when it was loaded from the deleted snapshot.
func (s *Sessions) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return fmt.Errorf("%w: session persistence is not available", domain.ErrNotFound)
	}
	return s.store.Delete(ctx, id)
}
