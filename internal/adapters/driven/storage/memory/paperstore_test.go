package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

func testPaper(id, dom string, embedding []float32) *domain.PaperRecord {
	now := time.Now().UTC()
	return &domain.PaperRecord{
		ID:     id,
		Title:  "Paper " + id,
		Domain: dom,
		Source: domain.SourceUpload,
		Schema: domain.StructuralSchema{
			Domain:           dom,
			SystemName:       "System " + id,
			OptimizationGoal: "minimise loss",
		},
		Embedding:   embedding,
		UploadedAt:  now,
		ProcessedAt: now,
	}
}

func TestPaperStore_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("stores paper and chunks", func(t *testing.T) {
		store := NewPaperStore()

		paper := testPaper("p1", "biology", []float32{0.1, 0.2, 0.3})
		chunks := []domain.ChunkRecord{
			{PaperID: "p1", Index: 0, Text: "first window"},
			{PaperID: "p1", Index: 1, Text: "second window"},
		}
		require.NoError(t, store.Insert(ctx, paper, chunks))

		got, err := store.Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Paper p1", got.Title)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, got.Embedding)

		gotChunks, err := store.GetChunks(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, gotChunks, 2)
		assert.Equal(t, "first window", gotChunks[0].Text)
	})

	t.Run("rejects nil paper", func(t *testing.T) {
		store := NewPaperStore()

		err := store.Insert(ctx, nil, nil)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("rejects missing embedding", func(t *testing.T) {
		store := NewPaperStore()

		err := store.Insert(ctx, testPaper("p1", "biology", nil), nil)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("rejects mismatched dimension", func(t *testing.T) {
		store := NewPaperStore()
		require.NoError(t, store.Insert(ctx, testPaper("p1", "biology", []float32{1, 0, 0}), nil))

		err := store.Insert(ctx, testPaper("p2", "economics", []float32{1, 0}), nil)
		assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
		assert.Contains(t, err.Error(), "corpus dimension is 3")
	})

	t.Run("insert copies the embedding", func(t *testing.T) {
		store := NewPaperStore()

		embedding := []float32{1, 2, 3}
		require.NoError(t, store.Insert(ctx, testPaper("p1", "biology", embedding), nil))
		embedding[0] = 99

		got, err := store.Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, float32(1), got.Embedding[0])
	})
}

func TestPaperStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		store := NewPaperStore()

		_, err := store.Get(ctx, "missing")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("returns a copy", func(t *testing.T) {
		store := NewPaperStore()
		require.NoError(t, store.Insert(ctx, testPaper("p1", "biology", []float32{1, 0}), nil))

		first, err := store.Get(ctx, "p1")
		require.NoError(t, err)
		first.Embedding[0] = 42
		first.Title = "mutated"

		second, err := store.Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, float32(1), second.Embedding[0])
		assert.Equal(t, "Paper p1", second.Title)
	})
}

func TestPaperStore_GetChunks(t *testing.T) {
	ctx := context.Background()
	store := NewPaperStore()

	chunks := []domain.ChunkRecord{
		{PaperID: "p1", Index: 2, Text: "third"},
		{PaperID: "p1", Index: 0, Text: "first"},
		{PaperID: "p1", Index: 1, Text: "second"},
	}
	require.NoError(t, store.Insert(ctx, testPaper("p1", "biology", []float32{1}), chunks))

	got, err := store.GetChunks(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
	assert.Equal(t, "third", got[2].Text)
}

func TestPaperStore_List(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns empty slice", func(t *testing.T) {
		store := NewPaperStore()

		summaries, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.NotNil(t, summaries)
		assert.Empty(t, summaries)
	})

	t.Run("orders by upload time", func(t *testing.T) {
		store := NewPaperStore()

		older := testPaper("p1", "biology", []float32{1})
		older.UploadedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := testPaper("p2", "economics", []float32{1})
		newer.UploadedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

		require.NoError(t, store.Insert(ctx, newer, nil))
		require.NoError(t, store.Insert(ctx, older, nil))

		summaries, err := store.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "p1", summaries[0].ID)
		assert.Equal(t, "p2", summaries[1].ID)
	})

	t.Run("filters by domain", func(t *testing.T) {
		store := NewPaperStore()
		require.NoError(t, store.Insert(ctx, testPaper("p1", "biology", []float32{1}), nil))
		require.NoError(t, store.Insert(ctx, testPaper("p2", "economics", []float32{1}), nil))

		summaries, err := store.List(ctx, "economics")
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "p2", summaries[0].ID)
	})
}

func TestPaperStore_AllEmbeddings(t *testing.T) {
	ctx := context.Background()
	store := NewPaperStore()

	require.NoError(t, store.Insert(ctx, testPaper("p1", "biology", []float32{1, 0}), nil))
	require.NoError(t, store.Insert(ctx, testPaper("p2", "economics", []float32{0, 1}), nil))

	refs, err := store.AllEmbeddings(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 2)

	byID := map[string]domain.EmbeddingRef{}
	for _, ref := range refs {
		byID[ref.PaperID] = ref
	}
	assert.Equal(t, "biology", byID["p1"].Domain)
	assert.Equal(t, []float32{0, 1}, byID["p2"].Embedding)
}

func TestPaperStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes paper and chunks", func(t *testing.T) {
		store := NewPaperStore()
		chunks := []domain.ChunkRecord{{PaperID: "p1", Index: 0, Text: "window"}}
		require.NoError(t, store.Insert(ctx, testPaper("p1", "biology", []float32{1}), chunks))

		require.NoError(t, store.Delete(ctx, "p1"))

		_, err := store.Get(ctx, "p1")
		assert.True(t, errors.Is(err, domain.ErrNotFound))

		got, err := store.GetChunks(ctx, "p1")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := NewPaperStore()
		err := store.Delete(ctx, "missing")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}
