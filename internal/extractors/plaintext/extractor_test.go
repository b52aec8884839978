package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestSupportedMIMETypes(t *testing.T) {
	extractor := New()
	mimeTypes := extractor.SupportedMIMETypes()

	require.NotEmpty(t, mimeTypes)
	assert.Contains(t, mimeTypes, "text/plain")
	assert.Contains(t, mimeTypes, "text/csv")
}

func TestPriority(t *testing.T) {
	extractor := New()
	assert.Equal(t, 5, extractor.Priority())
}

func TestExtract_SinglePage(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	raw := &domain.RawDocument{
		URI:      "/path/to/field_notes.txt",
		MIMEType: "text/plain",
		Content:  []byte("  Observations from the northern site.  "),
	}

	doc, err := extractor.Extract(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, raw.URI, doc.URI)
	assert.Equal(t, "field notes", doc.Title)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, "Observations from the northern site.", doc.Pages[0].Text)
	assert.Equal(t, "text/plain", doc.Metadata["mime_type"])
}

func TestExtract_FormFeedPages(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	raw := &domain.RawDocument{
		URI:      "/path/to/report.txt",
		MIMEType: "text/plain",
		Content:  []byte("page one text\fpage two text\fpage three text"),
	}

	doc, err := extractor.Extract(ctx, raw)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 3)

	for i, page := range doc.Pages {
		assert.Equal(t, i+1, page.Number)
	}
	assert.Equal(t, "page one text", doc.Pages[0].Text)
	assert.Equal(t, "page three text", doc.Pages[2].Text)
}

func TestExtract_BlankPageDropped(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	raw := &domain.RawDocument{
		URI:      "/path/to/gaps.txt",
		MIMEType: "text/plain",
		Content:  []byte("first page\f   \n\t  \fthird page"),
	}

	doc, err := extractor.Extract(ctx, raw)
	require.NoError(t, err)

	// The blank middle page is dropped without a placeholder; the
	// survivors keep their source numbers.
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, "first page", doc.Pages[0].Text)
	assert.Equal(t, 3, doc.Pages[1].Number)
	assert.Equal(t, "third page", doc.Pages[1].Text)
}

func TestExtract_NilDocument(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	doc, err := extractor.Extract(ctx, nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, doc)
}

func TestExtract_EmptyContent(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	for _, content := range [][]byte{nil, []byte(""), []byte("   \n\f\t  ")} {
		raw := &domain.RawDocument{
			URI:      "/path/to/empty.txt",
			MIMEType: "text/plain",
			Content:  content,
		}

		doc, err := extractor.Extract(ctx, raw)
		assert.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrExtraction)
		assert.Nil(t, doc)
	}
}

func TestExtract_TitleFromMetadata(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	raw := &domain.RawDocument{
		URI:      "/tmp/upload-83f2",
		MIMEType: "text/plain",
		Content:  []byte("uploaded body"),
		Metadata: map[string]any{"title": "Quarterly Survey"},
	}

	doc, err := extractor.Extract(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Survey", doc.Title)
	assert.Equal(t, "Quarterly Survey", doc.Metadata["title"])
}
