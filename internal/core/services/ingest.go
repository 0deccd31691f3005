package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paralog-labs/paralog-cli/internal/chunker"
	"github.com/paralog-labs/paralog-cli/internal/core/domain"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driving"
	"github.com/paralog-labs/paralog-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// ExtractorPicker selects a text extractor for a filename.
// Implemented by the extractors registry.
type ExtractorPicker interface {
	Pick(filename string) driven.TextExtractor
}

// IngestService runs the five-stage ingestion pipeline: text extraction,
// chunking, structural abstraction, embedding, and atomic storage. It owns no
// state beyond the in-flight trace and is safe for concurrent use.
type IngestService struct {
	extractors ExtractorPicker
	chunker    *chunker.Chunker
	schema     *SchemaExtractor
	embedder   *SchemaEmbedder
	store      driven.PaperStore
}

// NewIngestService creates an ingest service.
func NewIngestService(
	extractors ExtractorPicker,
	textChunker *chunker.Chunker,
	schema *SchemaExtractor,
	embedder *SchemaEmbedder,
	store driven.PaperStore,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		chunker:    textChunker,
		schema:     schema,
		embedder:   embedder,
		store:      store,
	}
}

// Ingest processes one document end to end. Any stage failure aborts the
// whole operation and no partial record is persisted. The result is non-nil
// even on failure so callers can inspect the trace of completed stages.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	logger.Section("Ingest")
	result := &driving.IngestResult{}
	uploadedAt := time.Now().UTC()

	// Stage A: text extraction and chunking
	start := time.Now()
	extractor := s.extractors.Pick(req.Filename)
	if extractor == nil {
		return result, fmt.Errorf("%w: no extractor for %q", domain.ErrExtraction, req.Filename)
	}

	titleGuess, text, err := extractor.Extract(req.Raw)
	if err != nil {
		return result, fmt.Errorf("extract %q: %w", req.Filename, err)
	}

	title := req.Title
	if title == "" {
		title = titleGuess
	}
	if title == "" {
		title = "Untitled"
	}

	chunks, err := s.chunker.Chunk(text)
	if err != nil {
		return result, fmt.Errorf("chunk %q: %w", req.Filename, err)
	}
	logger.Step("A", "extracted %d chars into %d chunks", len(text), len(chunks))

	result.Trace.Append(domain.TraceEntry{
		Step:          domain.StepIngestion,
		InputSummary:  fmt.Sprintf("file=%s bytes=%d", req.Filename, len(req.Raw)),
		OutputSummary: fmt.Sprintf("chunks=%d text_length=%d", len(chunks), len(text)),
		Latency:       time.Since(start),
	})

	// Stage B: structural abstraction
	schema, err := s.schema.Extract(ctx, title, chunks, &result.Trace)
	if err != nil {
		return result, err
	}

	// Stage C: embedding
	vector, err := s.embedder.Embed(ctx, schema, &result.Trace)
	if err != nil {
		return result, err
	}

	// Stage C continued: atomic storage
	paper := &domain.PaperRecord{
		ID:          uuid.New().String(),
		Title:       title,
		Domain:      schema.Domain,
		Source:      domain.SourceUpload,
		Schema:      *schema,
		Embedding:   vector,
		UploadedAt:  uploadedAt,
		ProcessedAt: time.Now().UTC(),
	}

	chunkRecords := make([]domain.ChunkRecord, len(chunks))
	for i, text := range chunks {
		chunkRecords[i] = domain.ChunkRecord{
			PaperID: paper.ID,
			Index:   i,
			Text:    text,
		}
	}

	if err := s.store.Insert(ctx, paper, chunkRecords); err != nil {
		return result, fmt.Errorf("persist paper: %w", err)
	}
	logger.Info("Ingested paper %s (%s, domain=%s)", paper.ID, paper.Title, paper.Domain)

	result.Paper = paper
	return result, nil
}
