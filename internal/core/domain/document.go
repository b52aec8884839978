package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawDocument represents opaque bytes handed to the extraction layer.
// It is the input of the pipeline before any parsing has happened.
type RawDocument struct {
	// URI is the original location (file path, upload name, etc).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-specific key-value pairs.
	Metadata map[string]any
}

// Page holds the extracted text of a single source page.
// Pages whose text trims to empty are dropped during extraction and
// never appear on a Document; the retained pages keep source order.
type Page struct {
	// Number is the 1-based position in the source document.
	Number int

	// Text is the trimmed page text. Never empty on a retained page.
	Text string
}

// Document is an extracted paginated document. It is immutable once
// produced by an extractor.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location.
	URI string

	// Title is the human-readable title.
	Title string

	// Pages are the retained (non-empty) pages in source order.
	Pages []Page

	// Metadata contains extractor-specific key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was extracted.
	CreatedAt time.Time
}

// NewDocumentID returns a fresh document identifier.
func NewDocumentID() string {
	return uuid.New().String()
}

// Text returns the full document text: page texts joined by a blank
// line. This is the input the chunking pipeline consumes.
func (d *Document) Text() string {
	if len(d.Pages) == 0 {
		return ""
	}
	texts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}

// PageCount returns the number of retained pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}
