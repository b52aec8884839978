package extractors

import (
	"github.com/custodia-labs/docquery/internal/extractors/markdown"
	"github.com/custodia-labs/docquery/internal/extractors/pdf"
	"github.com/custodia-labs/docquery/internal/extractors/plaintext"
)

// NewDefaultRegistry creates a registry with all built-in extractors
// registered. Call this during application initialisation.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(markdown.New())
	r.Register(plaintext.New())
	return r
}
