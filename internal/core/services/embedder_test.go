package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

func structuralSchema() *domain.StructuralSchema {
	return &domain.StructuralSchema{
		SystemName:       "Auction Market",
		Domain:           "economics",
		Entities:         []string{"bidders", "auctioneer"},
		StateVariables:   []string{"price", "demand"},
		OptimizationGoal: "allocate scarce resources to highest-value users",
		Constraints:      []string{"fixed supply"},
		FailureModes:     []string{"price collapse under coordinated exit"},
	}
}

func TestEmbeddingText(t *testing.T) {
	t.Run("uses only the four structural fields", func(t *testing.T) {
		schema := structuralSchema()
		schema.PlainLanguageSummary = "A summary that must not leak into the embedding."

		text := EmbeddingText(schema)

		assert.Contains(t, text, "Optimization Goal: allocate scarce resources to highest-value users")
		assert.Contains(t, text, "Constraints: fixed supply")
		assert.Contains(t, text, "State Variables: price, demand")
		assert.Contains(t, text, "Failure Modes: price collapse under coordinated exit")
		assert.NotContains(t, text, "economics")
		assert.NotContains(t, text, "bidders")
		assert.NotContains(t, text, "summary")
	})

	t.Run("is deterministic", func(t *testing.T) {
		schema := structuralSchema()
		assert.Equal(t, EmbeddingText(schema), EmbeddingText(schema))
	})
}

func TestSchemaEmbedder_Embed(t *testing.T) {
	t.Run("returns vector and records trace entry", func(t *testing.T) {
		embedding := &mockEmbedding{vector: []float32{0.1, 0.2, 0.3}}
		embedder := NewSchemaEmbedder(embedding)

		var trace domain.Trace
		vector, err := embedder.Embed(context.Background(), structuralSchema(), &trace)

		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
		require.Len(t, trace.Entries, 1)
		assert.Equal(t, domain.StepEmbedding, trace.Entries[0].Step)
		assert.Equal(t, "mock-embed", trace.Entries[0].PromptVersionID)
		assert.Contains(t, trace.Entries[0].OutputSummary, "dimension=3")
	})

	t.Run("identical schemas produce identical embedding input", func(t *testing.T) {
		embedding := &mockEmbedding{vector: []float32{1}}
		embedder := NewSchemaEmbedder(embedding)

		var trace domain.Trace
		_, err := embedder.Embed(context.Background(), structuralSchema(), &trace)
		require.NoError(t, err)
		_, err = embedder.Embed(context.Background(), structuralSchema(), &trace)
		require.NoError(t, err)

		require.Len(t, embedding.inputs, 2)
		assert.Equal(t, embedding.inputs[0], embedding.inputs[1])
	})

	t.Run("rejects structurally empty schema", func(t *testing.T) {
		embedding := &mockEmbedding{vector: []float32{1}}
		embedder := NewSchemaEmbedder(embedding)

		empty := &domain.StructuralSchema{
			SystemName:           "Named but hollow",
			Domain:               "physics",
			PlainLanguageSummary: "All descriptive, no structure.",
		}

		var trace domain.Trace
		_, err := embedder.Embed(context.Background(), empty, &trace)

		assert.ErrorIs(t, err, domain.ErrEmbedding)
		assert.Empty(t, embedding.inputs, "no gateway call for empty structure")
	})

	t.Run("wraps gateway failure", func(t *testing.T) {
		embedding := &mockEmbedding{embedErr: errors.New("timeout")}
		embedder := NewSchemaEmbedder(embedding)

		var trace domain.Trace
		_, err := embedder.Embed(context.Background(), structuralSchema(), &trace)

		assert.ErrorIs(t, err, domain.ErrEmbedding)
		require.Len(t, trace.Entries, 1)
		assert.Contains(t, trace.Entries[0].OutputSummary, "gateway error")
	})

	t.Run("fails without an embedding service", func(t *testing.T) {
		embedder := NewSchemaEmbedder(nil)

		var trace domain.Trace
		_, err := embedder.Embed(context.Background(), structuralSchema(), &trace)

		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}
