// Package pdf extracts page text from PDF documents using pdfcpu.
// Text is recovered from each page's content stream by interpreting
// the text-showing operators, which covers digitally-authored PDFs;
// scanned documents without a text layer yield no pages.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
)

// maxTitleLen caps titles taken from page content.
const maxTitleLen = 200

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf", "application/x-pdf"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific
}

// Extract parses the PDF and returns one page per source page that
// carries text. Pages keep their source number; pages without text are
// dropped without a placeholder.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(raw.Content), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: read pdf %s: %w", domain.ErrExtraction, raw.URI, err)
	}

	var pages []domain.Page
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		text := extractPageText(pdfCtx, pageNr)
		if text == "" {
			continue
		}
		pages = append(pages, domain.Page{
			Number: pageNr,
			Text:   text,
		})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s contains no extractable text", domain.ErrExtraction, raw.URI)
	}

	doc := &domain.Document{
		ID:        domain.NewDocumentID(),
		URI:       raw.URI,
		Title:     extractPDFTitle(pages[0].Text, raw.URI),
		Pages:     pages,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "pdf"
	doc.Metadata["source_pages"] = pdfCtx.PageCount

	return doc, nil
}

// extractPageText extracts text from a single PDF page via its content
// stream. Failures yield an empty string so the page is dropped rather
// than failing the whole document.
func extractPageText(pdfCtx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return extractTextFromStream(data)
}

// extractPDFTitle takes the first line of the first page, falling back
// to the filename.
func extractPDFTitle(firstPage, uri string) string {
	for _, line := range strings.Split(firstPage, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxTitleLen {
			line = string(runes[:maxTitleLen])
		}
		return line
	}

	filename := filepath.Base(uri)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// extractTextFromStream parses PDF content stream operators for text.
// Tj, TJ and ' show text; Td, TD and T* move the text cursor and are
// mapped to a space or line break.
func extractTextFromStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}

		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					sb.WriteByte('\n')
					sb.WriteString(text)
				}
			}

		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}

		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return cleanText(sb.String())
}

// decodePDFString handles basic PDF escape sequences, including octal
// escapes like \040.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\':
			sb.WriteByte('\\')
		case '(':
			sb.WriteByte('(')
		case ')':
			sb.WriteByte(')')
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
					i++
					val = val*8 + int(raw[i]-'0')
					if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
						i++
						val = val*8 + int(raw[i]-'0')
					}
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// cleanText normalises whitespace in extracted text. Line breaks
// survive as single newlines so paragraph structure reaches the
// chunker; other whitespace runs collapse to one space. Non-printable
// runes are dropped.
func cleanText(text string) string {
	var sb strings.Builder
	pendingBreak := false
	pendingSpace := false

	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			pendingBreak = true
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsPrint(r):
			if sb.Len() > 0 {
				if pendingBreak {
					sb.WriteByte('\n')
				} else if pendingSpace {
					sb.WriteByte(' ')
				}
			}
			pendingBreak = false
			pendingSpace = false
			sb.WriteRune(r)
		}
	}

	return strings.TrimSpace(sb.String())
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
