package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paralog-labs/paralog-cli/internal/adapters/driven/storage/memory"
	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

// storedPaper inserts a minimal record and returns it.
func storedPaper(t *testing.T, store *memory.PaperStore, id, dom string, embedding []float32, uploadedAt time.Time) *domain.PaperRecord {
	t.Helper()
	paper := &domain.PaperRecord{
		ID:     id,
		Title:  "Paper " + id,
		Domain: dom,
		Source: domain.SourceUpload,
		Schema: domain.StructuralSchema{
			SystemName:       "System " + id,
			Domain:           dom,
			OptimizationGoal: "goal",
		},
		Embedding:   embedding,
		UploadedAt:  uploadedAt,
		ProcessedAt: uploadedAt,
	}
	require.NoError(t, store.Insert(context.Background(), paper, nil))
	return paper
}

func TestRetriever_FindSimilar(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("ranks by descending similarity", func(t *testing.T) {
		store := memory.NewPaperStore()
		query := storedPaper(t, store, "query", "biology", []float32{1, 0, 0}, t0)
		storedPaper(t, store, "close", "economics", []float32{0.9, 0.1, 0}, t0.Add(time.Hour))
		storedPaper(t, store, "far", "physics", []float32{0, 0, 1}, t0.Add(2*time.Hour))
		storedPaper(t, store, "mid", "sociology", []float32{0.5, 0.5, 0}, t0.Add(3*time.Hour))

		retriever := NewRetriever(store)
		matches, err := retriever.FindSimilar(context.Background(), query, domain.RetrievalOptions{TopK: 5})

		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, "close", matches[0].Paper.ID)
		assert.Equal(t, "mid", matches[1].Paper.ID)
		assert.Equal(t, "far", matches[2].Paper.ID)
		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
		}
	})

	t.Run("excludes the query paper itself", func(t *testing.T) {
		store := memory.NewPaperStore()
		query := storedPaper(t, store, "query", "biology", []float32{1, 0}, t0)
		storedPaper(t, store, "other", "physics", []float32{1, 0}, t0)

		retriever := NewRetriever(store)
		matches, err := retriever.FindSimilar(context.Background(), query, domain.RetrievalOptions{TopK: 10})

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "other", matches[0].Paper.ID)
	})

	t.Run("excludes domain case-insensitively", func(t *testing.T) {
		store := memory.NewPaperStore()
		query := storedPaper(t, store, "query", "biology", []float32{1, 0}, t0)
		storedPaper(t, store, "bio-upper", "Biology", []float32{1, 0}, t0)
		storedPaper(t, store, "econ", "economics", []float32{0.8, 0.2}, t0)

		retriever := NewRetriever(store)
		matches, err := retriever.FindSimilar(context.Background(), query, domain.RetrievalOptions{
			TopK:          10,
			ExcludeDomain: "biology",
		})

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "econ", matches[0].Paper.ID)
	})

	t.Run("breaks score ties by earlier upload", func(t *testing.T) {
		store := memory.NewPaperStore()
		query := storedPaper(t, store, "query", "biology", []float32{1, 0}, t0)
		storedPaper(t, store, "later", "physics", []float32{1, 0}, t0.Add(2*time.Hour))
		storedPaper(t, store, "earlier", "economics", []float32{1, 0}, t0.Add(time.Hour))

		retriever := NewRetriever(store)
		matches, err := retriever.FindSimilar(context.Background(), query, domain.RetrievalOptions{TopK: 2})

		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "earlier", matches[0].Paper.ID)
		assert.Equal(t, "later", matches[1].Paper.ID)
	})

	t.Run("truncates to top-k", func(t *testing.T) {
		store := memory.NewPaperStore()
		query := storedPaper(t, store, "query", "biology", []float32{1, 0}, t0)
		storedPaper(t, store, "a", "physics", []float32{1, 0}, t0.Add(1*time.Hour))
		storedPaper(t, store, "b", "economics", []float32{0.9, 0.1}, t0.Add(2*time.Hour))
		storedPaper(t, store, "c", "sociology", []float32{0.8, 0.2}, t0.Add(3*time.Hour))

		retriever := NewRetriever(store)
		matches, err := retriever.FindSimilar(context.Background(), query, domain.RetrievalOptions{TopK: 2})

		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("returns empty list for non-positive top-k", func(t *testing.T) {
		store := memory.NewPaperStore()
		query := storedPaper(t, store, "query", "biology", []float32{1, 0}, t0)
		storedPaper(t, store, "other", "physics", []float32{1, 0}, t0)

		retriever := NewRetriever(store)

		matches, err := retriever.FindSimilar(context.Background(), query, domain.RetrievalOptions{TopK: 0})
		require.NoError(t, err)
		assert.Empty(t, matches)

		matches, err = retriever.FindSimilar(context.Background(), query, domain.RetrievalOptions{TopK: -3})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("returns empty list on empty corpus", func(t *testing.T) {
		store := memory.NewPaperStore()
		query := &domain.PaperRecord{ID: "query", Embedding: []float32{1, 0}}

		retriever := NewRetriever(store)
		matches, err := retriever.FindSimilar(context.Background(), query, domain.RetrievalOptions{TopK: 5})

		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("fails on dimension mismatch", func(t *testing.T) {
		store := memory.NewPaperStore()
		storedPaper(t, store, "stored", "physics", []float32{1, 0, 0}, t0)
		query := &domain.PaperRecord{ID: "query", Domain: "biology", Embedding: []float32{1, 0}}

		retriever := NewRetriever(store)
		_, err := retriever.FindSimilar(context.Background(), query, domain.RetrievalOptions{TopK: 5})

		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score one", func(t *testing.T) {
		assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	})

	t.Run("orthogonal vectors score zero", func(t *testing.T) {
		assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("opposite vectors score minus one", func(t *testing.T) {
		assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	})

	t.Run("zero vector scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	})
}
