package plaintext

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents. Form feed characters are
// treated as page breaks; a document without them is a single page.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/yaml",
		"text/toml",
		"text/x-go",
		"text/x-python",
		"text/x-shellscript",
		"application/json",
		"application/xml",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// Extract converts raw text bytes into a paginated document. Pages
// keep their 1-based source position; pages that trim to empty are
// dropped without a placeholder.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	pages := paginate(string(raw.Content))
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s contains no text", domain.ErrExtraction, raw.URI)
	}

	title := extractTitleFromMetadataOrURI(raw)

	doc := &domain.Document{
		ID:        domain.NewDocumentID(),
		URI:       raw.URI,
		Title:     title,
		Pages:     pages,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType

	return doc, nil
}

// paginate splits the content on form feeds and drops blank pages.
func paginate(content string) []domain.Page {
	var pages []domain.Page
	for i, text := range strings.Split(content, "\f") {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, domain.Page{
			Number: i + 1,
			Text:   text,
		})
	}
	return pages
}

// extractTitleFromMetadataOrURI checks metadata for a title first, then
// falls back to the URI.
func extractTitleFromMetadataOrURI(raw *domain.RawDocument) string {
	if raw.Metadata != nil {
		if title, ok := raw.Metadata["title"].(string); ok && title != "" {
			return title
		}
	}
	return extractTitle(raw.URI)
}

// extractTitle extracts a human-readable title from a URI.
func extractTitle(uri string) string {
	filename := filepath.Base(uri)

	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
