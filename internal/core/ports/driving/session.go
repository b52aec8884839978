package driving

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// SessionService manages persisted sessions and the active one.
type SessionService interface {
	// Current returns the active session's metadata, or an error
	// wrapping domain.ErrNotFound when nothing has been ingested or
	// loaded yet.
	Current(ctx context.Context) (*domain.Session, error)

	// Load rehydrates a persisted session into the active in-memory
	// index without re-embedding. An empty id loads the latest.
	Load(ctx context.Context, id string) (*domain.Session, error)

	// List returns all persisted sessions, newest first.
	List(ctx context.Context) ([]domain.Session, error)

	// Delete removes a persisted session. The active session is
	// unaffected even if it was loaded from the deleted snapshot.
	Delete(ctx context.Context, id string) error
}
