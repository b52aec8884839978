package driven

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// Extractor parses one document format into ordered page texts.
//
// Contract: every page text is trimmed of leading/trailing whitespace;
// pages that trim to empty are dropped without placeholder entries, and
// the retained pages preserve source order. Extraction has no side
// effects beyond reading the input. An input that cannot be parsed at
// all, or that contains zero pages, fails with an error wrapping
// domain.ErrExtraction.
type Extractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Priority determines selection order when multiple extractors
	// claim a MIME type. Higher wins.
	Priority() int

	// Extract parses the raw bytes into a Document.
	Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}

// ExtractorRegistry dispatches a raw document to the best extractor.
type ExtractorRegistry interface {
	// Extract parses the raw document with the highest-priority
	// extractor claiming its MIME type. Fails with an error wrapping
	// domain.ErrUnsupportedType when no extractor claims it.
	Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// SupportedMIMETypes returns all MIME types that can be extracted.
	SupportedMIMETypes() []string
}
