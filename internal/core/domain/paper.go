package domain

import "time"

// SourceUpload is the default provenance tag for directly uploaded documents.
const SourceUpload = "upload"

// PaperRecord is the persisted form of an ingested document.
// Records are immutable snapshots once ProcessedAt is set; a readable record
// always carries a non-nil embedding.
type PaperRecord struct {
	// ID is the unique identifier for the paper.
	ID string

	// Title is the human-readable title, guessed from the text when the
	// caller supplies none.
	Title string

	// Domain is the academic field the schema extraction assigned.
	Domain string

	// Source is the provenance tag (default "upload").
	Source string

	// Schema is the validated structural schema.
	Schema StructuralSchema

	// Embedding is the structural embedding vector. Its length is constant
	// across the corpus.
	Embedding []float32

	// UploadedAt is when ingestion started.
	UploadedAt time.Time

	// ProcessedAt is set once the embedding is persisted.
	ProcessedAt time.Time
}

// PaperSummary is the listing view of a paper, without schema or embedding.
type PaperSummary struct {
	ID          string
	Title       string
	Domain      string
	Source      string
	UploadedAt  time.Time
	ProcessedAt time.Time
}

// Summary returns the listing view of the record.
func (p *PaperRecord) Summary() PaperSummary {
	return PaperSummary{
		ID:          p.ID,
		Title:       p.Title,
		Domain:      p.Domain,
		Source:      p.Source,
		UploadedAt:  p.UploadedAt,
		ProcessedAt: p.ProcessedAt,
	}
}

// ChunkRecord is one text window of a paper's extracted text.
// Chunks back-reference their paper and are cascade-deleted with it.
type ChunkRecord struct {
	// PaperID links to the owning PaperRecord.
	PaperID string

	// Index is the zero-based position defining reconstruction order.
	Index int

	// Text is the chunk content.
	Text string
}

// EmbeddingRef is the corpus-scan view of a stored embedding.
// UploadedAt rides along for deterministic tie-breaking during ranking.
type EmbeddingRef struct {
	PaperID    string
	Domain     string
	Embedding  []float32
	UploadedAt time.Time
}
