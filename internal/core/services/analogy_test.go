package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paralog-labs/paralog-cli/internal/adapters/driven/storage/memory"
	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

func TestAnalogyService_FindAnalogies(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("cross-domain discovery excludes the query domain", func(t *testing.T) {
		store := memory.NewPaperStore()
		query := storedPaper(t, store, "bio", "biology", []float32{1, 0}, t0)
		storedPaper(t, store, "bio2", "biology", []float32{1, 0}, t0)
		storedPaper(t, store, "econ", "economics", []float32{0.9, 0.1}, t0)

		svc := NewAnalogyService(store, NewRetriever(store), nil, nil)
		matches, err := svc.FindAnalogies(context.Background(), query.ID, domain.RetrievalOptions{
			TopK:          domain.DefaultTopK,
			ExcludeDomain: query.Domain,
		})

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "econ", matches[0].Paper.ID)
	})

	t.Run("fails for unknown paper", func(t *testing.T) {
		store := memory.NewPaperStore()
		svc := NewAnalogyService(store, NewRetriever(store), nil, nil)

		_, err := svc.FindAnalogies(context.Background(), "missing", domain.RetrievalOptions{TopK: 5})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAnalogyService_Explain(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	setup := func(t *testing.T, gateway *mockGateway) (*AnalogyService, *domain.PaperRecord, *domain.PaperRecord) {
		t.Helper()
		store := memory.NewPaperStore()
		source := storedPaper(t, store, "src", "biology", []float32{1, 0}, t0)
		target := storedPaper(t, store, "dst", "economics", []float32{0.9, 0.1}, t0)
		return NewAnalogyService(store, NewRetriever(store), gateway, nil), source, target
	}

	t.Run("returns explanation with trace", func(t *testing.T) {
		gateway := &mockGateway{responses: []string{"Both systems balance coupled feedback loops."}}
		svc, source, target := setup(t, gateway)

		result, err := svc.Explain(context.Background(), source.ID, target.ID)

		require.NoError(t, err)
		assert.Equal(t, "Both systems balance coupled feedback loops.", result.Explanation.Text)
		require.Len(t, result.Trace.Entries, 1)
		assert.Equal(t, domain.StepExplanation, result.Trace.Entries[0].Step)

		// The prompt carries both schemas' structural fields.
		require.Len(t, gateway.requests, 1)
		assert.Contains(t, gateway.requests[0].Prompt, "(biology)")
		assert.Contains(t, gateway.requests[0].Prompt, "(economics)")
	})

	t.Run("returns trace alongside gateway failure", func(t *testing.T) {
		gateway := &mockGateway{errs: []error{errors.New("rate limited")}}
		svc, source, target := setup(t, gateway)

		result, err := svc.Explain(context.Background(), source.ID, target.ID)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrExplanation)
		require.NotNil(t, result)
		require.Len(t, result.Trace.Entries, 1)
		assert.Contains(t, result.Trace.Entries[0].OutputSummary, "gateway error")
	})

	t.Run("fails without an LLM gateway", func(t *testing.T) {
		store := memory.NewPaperStore()
		source := storedPaper(t, store, "src", "biology", []float32{1}, t0)
		svc := NewAnalogyService(store, NewRetriever(store), nil, nil)

		_, err := svc.Explain(context.Background(), source.ID, source.ID)

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("fails for unknown source paper", func(t *testing.T) {
		gateway := &mockGateway{responses: []string{"text"}}
		svc, _, target := setup(t, gateway)

		_, err := svc.Explain(context.Background(), "missing", target.ID)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAnalogyService_Papers(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("lists with domain filter", func(t *testing.T) {
		store := memory.NewPaperStore()
		storedPaper(t, store, "a", "biology", []float32{1}, t0)
		storedPaper(t, store, "b", "economics", []float32{1}, t0.Add(time.Hour))

		svc := NewAnalogyService(store, NewRetriever(store), nil, nil)

		all, err := svc.ListPapers(context.Background(), "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		bio, err := svc.ListPapers(context.Background(), "biology")
		require.NoError(t, err)
		require.Len(t, bio, 1)
		assert.Equal(t, "a", bio[0].ID)
	})

	t.Run("deletes a paper", func(t *testing.T) {
		store := memory.NewPaperStore()
		paper := storedPaper(t, store, "a", "biology", []float32{1}, t0)

		svc := NewAnalogyService(store, NewRetriever(store), nil, nil)
		require.NoError(t, svc.DeletePaper(context.Background(), paper.ID))

		_, err := svc.GetPaper(context.Background(), paper.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
