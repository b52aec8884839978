// Package sqlite provides a SQLite-based implementation of the session
// store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. A snapshot is
// stored as one session row plus one chunk row per corpus entry, with
// embeddings serialised as little-endian float32 blobs. Loading a
// snapshot rehydrates an in-memory index without re-embedding.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory. Each migration is a pair of .up.sql and
// .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.docquery/data/sessions.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
