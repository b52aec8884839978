package services

import (
	"sync"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
)

// Workspace holds the active session: its metadata and its index. One
// document is active at a time; a successful ingest or session load
// replaces the whole workspace in one step, so readers never observe
// a half-switched session.
type Workspace struct {
	mu      sync.RWMutex
	session domain.Session
	index   driven.VectorStore
	active  bool
}

// NewWorkspace creates an empty workspace. Nothing is active until the
// first Replace.
func NewWorkspace() *Workspace {
	return &Workspace{}
}

// Replace installs a new active session.
func (w *Workspace) Replace(session domain.Session, index driven.VectorStore) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.session = session
	w.index = index
	w.active = true
}

// Session returns the active session's metadata.
func (w *Workspace) Session() (domain.Session, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.session, w.active
}

// Index returns the active session's vector store.
func (w *Workspace) Index() (driven.VectorStore, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.active {
		return nil, false
	}
	return w.index, true
}
