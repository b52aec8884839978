package extractors

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the highest-priority extractor
// claiming their MIME type.
type Registry struct {
	extractors []driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an extractor to the registry.
func (r *Registry) Register(extractor driven.Extractor) {
	r.extractors = append(r.extractors, extractor)
}

// Extract parses the raw document with the best matching extractor.
// A missing MIME type is detected from the URI and content first.
func (r *Registry) Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	mimeType := raw.MIMEType
	if mimeType == "" {
		mimeType = DetectMIMEType(raw.URI, raw.Content)
		raw.MIMEType = mimeType
	}

	extractor := r.selectExtractor(mimeType)
	if extractor == nil {
		return nil, fmt.Errorf("%w: no extractor for %s", domain.ErrUnsupportedType, mimeType)
	}

	logger.Debug("extracting %s as %s", raw.URI, mimeType)
	return extractor.Extract(ctx, raw)
}

// SupportedMIMETypes returns all MIME types that can be extracted,
// sorted and deduplicated.
func (r *Registry) SupportedMIMETypes() []string {
	seen := make(map[string]struct{})
	for _, extractor := range r.extractors {
		for _, mimeType := range extractor.SupportedMIMETypes() {
			seen[mimeType] = struct{}{}
		}
	}

	types := make([]string, 0, len(seen))
	for mimeType := range seen {
		types = append(types, mimeType)
	}
	sort.Strings(types)
	return types
}

// selectExtractor returns the highest-priority extractor claiming the
// MIME type, or nil when none does.
func (r *Registry) selectExtractor(mimeType string) driven.Extractor {
	var best driven.Extractor
	for _, extractor := range r.extractors {
		if !claims(extractor, mimeType) {
			continue
		}
		if best == nil || extractor.Priority() > best.Priority() {
			best = extractor
		}
	}
	return best
}

func claims(extractor driven.Extractor, mimeType string) bool {
	for _, supported := range extractor.SupportedMIMETypes() {
		if supported == mimeType {
			return true
		}
	}
	return false
}

// extMIMETypes maps file extensions to MIME types for common types not
// in Go's registry.
var extMIMETypes = map[string]string{
	".pdf":      "application/pdf",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".log":      "text/plain",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".csv":      "text/csv",
}

// DetectMIMEType determines the MIME type from magic bytes and the
// file extension.
func DetectMIMEType(uri string, content []byte) string {
	if bytes.HasPrefix(content, []byte("%PDF-")) {
		return "application/pdf"
	}

	ext := strings.ToLower(filepath.Ext(uri))
	if ext == "" {
		return "text/plain"
	}

	// Check our custom mappings first (avoids Go's mime returning
	// video/mp2t for .ts and friends).
	if t, ok := extMIMETypes[ext]; ok {
		return t
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType != "" {
		// Strip charset and other parameters.
		if idx := strings.Index(mimeType, ";"); idx != -1 {
			mimeType = strings.TrimSpace(mimeType[:idx])
		}
		return mimeType
	}

	return "text/plain"
}
