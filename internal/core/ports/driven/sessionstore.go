package driven

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// SessionStore persists session snapshots across processes.
//
// Persistence is an external concern: the core pipeline never requires
// it, and a loaded snapshot rehydrates an in-memory index without
// re-embedding (ids, insertion order and metric are preserved).
type SessionStore interface {
	// Save persists a snapshot. Fails with an error wrapping
	// domain.ErrAlreadyExists when the session id is taken.
	Save(ctx context.Context, snapshot *domain.SessionSnapshot) error

	// Load retrieves a snapshot by session id. Fails with an error
	// wrapping domain.ErrNotFound when the id is unknown.
	Load(ctx context.Context, id string) (*domain.SessionSnapshot, error)

	// Latest retrieves the most recently created snapshot. Fails with
	// an error wrapping domain.ErrNotFound when the store is empty.
	Latest(ctx context.Context) (*domain.SessionSnapshot, error)

	// List returns all session metadata, newest first.
	List(ctx context.Context) ([]domain.Session, error)

	// Delete removes a session and its chunks.
	Delete(ctx context.Context, id string) error

	// Close releases the underlying storage.
	Close() error
}
