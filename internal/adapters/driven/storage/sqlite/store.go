package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docquery/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SessionStore = (*Store)(nil)

// Store is a SQLite-backed session store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docquery/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docquery", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sessions.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Foreign keys drive the session -> chunks cascade on delete
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Save persists a session snapshot. The session row and all chunk rows
// are written in one transaction.
func (s *Store) Save(ctx context.Context, snapshot *domain.SessionSnapshot) error {
	if snapshot == nil || snapshot.Session.ID == "" {
		return fmt.Errorf("%w: snapshot requires a session id", domain.ErrInvalidInput)
	}
	if len(snapshot.Vectors) != len(snapshot.Chunks) {
		return fmt.Errorf("%w: %d chunks but %d vectors",
			domain.ErrInvalidInput, len(snapshot.Chunks), len(snapshot.Vectors))
	}
	for i, vec := range snapshot.Vectors {
		if len(vec) != snapshot.Session.Dimensions {
			return fmt.Errorf("%w: vector %d has %d dimensions, session has %d",
				domain.ErrInvalidInput, i, len(vec), snapshot.Session.Dimensions)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var one int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM sessions WHERE id = ?", snapshot.Session.ID).Scan(&one)
	switch {
	case err == nil:
		return fmt.Errorf("%w: session %s", domain.ErrAlreadyExists, snapshot.Session.ID)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("checking session: %w", err)
	}

	sess := snapshot.Session
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, document_id, uri, title, pages, metric, dimensions, embedding_model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sess.ID, sess.DocumentID, sess.URI, sess.Title, sess.Pages,
		string(sess.Metric), sess.Dimensions, sess.EmbeddingModel, sess.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (session_id, chunk_id, content, char_len, token_len, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range snapshot.Chunks {
		embeddingBlob := float32SliceToBytes(snapshot.Vectors[i])
		if _, err := stmt.ExecContext(ctx, sess.ID, chunk.ID, chunk.Text,
			chunk.CharLen, chunk.TokenLen, embeddingBlob); err != nil {
			return fmt.Errorf("saving chunk %d: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Load retrieves a session snapshot by id. Chunks come back in
// insertion order so the index can be rebuilt as it was.
func (s *Store) Load(ctx context.Context, id string) (*domain.SessionSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, uri, title, pages, metric, dimensions, embedding_model, created_at
		FROM sessions WHERE id = ?
	`, id)

	var snapshot domain.SessionSnapshot
	var metric string
	if err := row.Scan(&snapshot.Session.ID, &snapshot.Session.DocumentID,
		&snapshot.Session.URI, &snapshot.Session.Title, &snapshot.Session.Pages,
		&metric, &snapshot.Session.Dimensions, &snapshot.Session.EmbeddingModel,
		&snapshot.Session.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	snapshot.Session.Metric = domain.Metric(metric)

	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, content, char_len, token_len, embedding
		FROM chunks WHERE session_id = ?
		ORDER BY chunk_id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Text, &chunk.CharLen,
			&chunk.TokenLen, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		snapshot.Chunks = append(snapshot.Chunks, chunk)
		snapshot.Vectors = append(snapshot.Vectors, bytesToFloat32Slice(embeddingBlob))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return &snapshot, nil
}

// Latest retrieves the most recently created session snapshot.
func (s *Store) Latest(ctx context.Context) (*domain.SessionSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id FROM sessions ORDER BY created_at DESC, id DESC LIMIT 1
	`)

	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no sessions saved", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning latest session id: %w", err)
	}

	return s.Load(ctx, id)
}

// List returns all session metadata, newest first. Chunks are not
// loaded.
func (s *Store) List(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, uri, title, pages, metric, dimensions, embedding_model, created_at
		FROM sessions ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sess domain.Session
		var metric string
		if err := rows.Scan(&sess.ID, &sess.DocumentID, &sess.URI, &sess.Title,
			&sess.Pages, &metric, &sess.Dimensions, &sess.EmbeddingModel,
			&sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sess.Metric = domain.Metric(metric)
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// Delete removes a session and its chunks.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
