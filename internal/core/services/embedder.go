package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
	"github.com/paralog-labs/paralog-cli/internal/logger"
)

// SchemaEmbedder turns a structural schema into an embedding vector.
//
// Only the four structural fields feed the embedding; entities, domain, and
// summaries are deliberately excluded so similarity stays structural rather
// than topical.
type SchemaEmbedder struct {
	embedding driven.EmbeddingService
}

// NewSchemaEmbedder creates a schema embedder.
func NewSchemaEmbedder(embedding driven.EmbeddingService) *SchemaEmbedder {
	return &SchemaEmbedder{embedding: embedding}
}

// EmbeddingText builds the exact text blob sent to the embedding model.
// The construction is deterministic and shared between ingest and query time
// so embeddings stay comparable across the corpus.
func EmbeddingText(schema *domain.StructuralSchema) string {
	return fmt.Sprintf(
		"Optimization Goal: %s\nConstraints: %s\nState Variables: %s\nFailure Modes: %s",
		schema.OptimizationGoal,
		strings.Join(schema.Constraints, ", "),
		strings.Join(schema.StateVariables, ", "),
		strings.Join(schema.FailureModes, ", "),
	)
}

// structurallyEmpty reports whether all four structural fields are empty.
func structurallyEmpty(schema *domain.StructuralSchema) bool {
	return schema.OptimizationGoal == "" &&
		len(schema.Constraints) == 0 &&
		len(schema.StateVariables) == 0 &&
		len(schema.FailureModes) == 0
}

// Embed generates the structural embedding for a schema and records one
// TraceEntry with the measured latency.
func (e *SchemaEmbedder) Embed(
	ctx context.Context, schema *domain.StructuralSchema, trace *domain.Trace,
) ([]float32, error) {
	if e.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if structurallyEmpty(schema) {
		return nil, fmt.Errorf("%w: schema has no structural content", domain.ErrEmbedding)
	}

	text := EmbeddingText(schema)
	logger.Step("C", "embedding %d chars via %s", len(text), e.embedding.ModelName())

	start := time.Now()
	vector, err := e.embedding.Embed(ctx, text)
	latency := time.Since(start)

	entry := domain.TraceEntry{
		Step:            domain.StepEmbedding,
		PromptVersionID: e.embedding.ModelName(),
		InputSummary:    domain.Summarise(text),
		Latency:         latency,
	}
	if err != nil {
		entry.OutputSummary = "gateway error: " + err.Error()
		trace.Append(entry)
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	entry.OutputSummary = fmt.Sprintf("dimension=%d", len(vector))
	trace.Append(entry)

	return vector, nil
}
