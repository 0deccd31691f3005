package driven

import (
	"context"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

// PaperStore persists paper records and their chunks.
//
// The store holds the one true persistence invariant of the pipeline: every
// readable PaperRecord has ProcessedAt set and a non-nil embedding. Insert is
// atomic per record; no reader ever observes a record mid-construction.
// AllEmbeddings is an abstraction boundary — an index-backed implementation
// may replace the exact scan without changing the retriever's contract.
type PaperStore interface {
	// Insert atomically persists a paper and its chunks. Either both are
	// stored or neither is.
	Insert(ctx context.Context, paper *domain.PaperRecord, chunks []domain.ChunkRecord) error

	// Get retrieves a paper by ID. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.PaperRecord, error)

	// GetChunks retrieves a paper's chunks in index order.
	GetChunks(ctx context.Context, paperID string) ([]domain.ChunkRecord, error)

	// List returns paper summaries, optionally filtered by exact domain.
	List(ctx context.Context, domainFilter string) ([]domain.PaperSummary, error)

	// AllEmbeddings returns the corpus-scan view of stored embeddings.
	AllEmbeddings(ctx context.Context) ([]domain.EmbeddingRef, error)

	// Delete removes a paper and cascade-deletes its chunks.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
