// Package extractors selects a text extractor for a given file.
package extractors

import (
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
	"github.com/paralog-labs/paralog-cli/internal/extractors/markdown"
	"github.com/paralog-labs/paralog-cli/internal/extractors/plaintext"
)

// Registry holds the available extractors and picks one per file.
type Registry struct {
	extractors []driven.TextExtractor
}

// NewRegistry creates a registry with the default extractors.
func NewRegistry() *Registry {
	return &Registry{
		extractors: []driven.TextExtractor{
			markdown.New(),
			plaintext.New(),
		},
	}
}

// Register adds an extractor. Later registrations take precedence for
// filenames more than one extractor claims.
func (r *Registry) Register(e driven.TextExtractor) {
	r.extractors = append([]driven.TextExtractor{e}, r.extractors...)
}

// Pick returns the first extractor that handles the filename, or nil when
// the file type is unsupported.
func (r *Registry) Pick(filename string) driven.TextExtractor {
	for _, e := range r.extractors {
		if e.CanExtract(filename) {
			return e
		}
	}
	return nil
}
