// Package driving provides interfaces exposed to external actors (primary/inbound ports).
package driving

import (
	"context"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

// IngestRequest carries one raw document into the pipeline.
type IngestRequest struct {
	// Filename selects the text extractor and seeds the title guess.
	Filename string

	// Raw is the document content.
	Raw []byte

	// Title overrides the extractor's title guess when non-empty.
	Title string
}

// IngestResult is the outcome of a successful ingest operation.
type IngestResult struct {
	// Paper is the newly persisted record. Nil when ingestion failed.
	Paper *domain.PaperRecord

	// Trace records every pipeline stage of this call.
	Trace domain.Trace
}

// IngestService runs the ingestion pipeline: extraction, chunking, structural
// abstraction, embedding, and storage.
type IngestService interface {
	// Ingest processes one document end to end. Any stage failure aborts the
	// whole operation and no record is persisted. The returned result is
	// non-nil even on failure so callers can inspect the partial trace.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
}

// ExplainResult is the outcome of an analogy explanation.
type ExplainResult struct {
	Explanation domain.Explanation
	Trace       domain.Trace
}

// AnalogyService answers retrieval and explanation queries over the corpus.
type AnalogyService interface {
	// FindAnalogies returns papers structurally similar to the given paper,
	// ranked by descending similarity. An empty corpus yields an empty list.
	FindAnalogies(ctx context.Context, paperID string, opts domain.RetrievalOptions) ([]domain.AnalogyMatch, error)

	// Explain generates a natural-language explanation of the structural
	// analogy between two stored papers.
	Explain(ctx context.Context, sourceID, targetID string) (*ExplainResult, error)

	// ListPapers returns corpus summaries, optionally filtered by domain.
	ListPapers(ctx context.Context, domainFilter string) ([]domain.PaperSummary, error)

	// GetPaper retrieves one record by ID.
	GetPaper(ctx context.Context, id string) (*domain.PaperRecord, error)

	// DeletePaper removes a record and its chunks. Explicit corpus
	// management, never triggered by the pipeline itself.
	DeletePaper(ctx context.Context, id string) error
}
