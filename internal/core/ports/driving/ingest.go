package driving

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// IngestService runs the ingest pipeline: extract, chunk, embed,
// index. A successful ingest replaces the active session.
type IngestService interface {
	// IngestFile ingests a document from the filesystem.
	IngestFile(ctx context.Context, path string) (*domain.IngestReport, error)

	// IngestBytes ingests an in-memory document, e.g. an HTTP upload.
	// The name determines format detection and becomes the URI.
	IngestBytes(ctx context.Context, name string, data []byte) (*domain.IngestReport, error)
}
