package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
	"github.com/paralog-labs/paralog-cli/internal/logger"
)

// Retriever ranks the corpus by structural similarity to a query paper.
// It performs an exact cosine scan over PaperStore.AllEmbeddings; swapping in
// an index-backed store does not change this contract.
type Retriever struct {
	store driven.PaperStore
}

// NewRetriever creates a similarity retriever over the given store.
func NewRetriever(store driven.PaperStore) *Retriever {
	return &Retriever{store: store}
}

// scoredRef is an intermediate ranking entry before hydration.
type scoredRef struct {
	ref   domain.EmbeddingRef
	score float64
}

// FindSimilar returns the top-k candidates ranked by cosine similarity to the
// query record's embedding, excluding the query itself and (optionally) all
// candidates in ExcludeDomain. Ordering ties break toward the earlier
// UploadedAt so results are deterministic.
//
// A stored embedding whose length differs from the query's fails the whole
// call with domain.ErrDimensionMismatch; corpus corruption is never skipped.
func (r *Retriever) FindSimilar(
	ctx context.Context, query *domain.PaperRecord, opts domain.RetrievalOptions,
) ([]domain.AnalogyMatch, error) {
	if opts.TopK <= 0 {
		return []domain.AnalogyMatch{}, nil
	}

	refs, err := r.store.AllEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	logger.Step("D", "scanning %d stored embeddings (top_k=%d, exclude=%q)",
		len(refs), opts.TopK, opts.ExcludeDomain)

	scored := make([]scoredRef, 0, len(refs))
	for _, ref := range refs {
		if len(ref.Embedding) != len(query.Embedding) {
			return nil, fmt.Errorf("%w: paper %s has dimension %d, query has %d",
				domain.ErrDimensionMismatch, ref.PaperID, len(ref.Embedding), len(query.Embedding))
		}
		if ref.PaperID == query.ID {
			continue
		}
		if opts.ExcludeDomain != "" && strings.EqualFold(ref.Domain, opts.ExcludeDomain) {
			continue
		}
		scored = append(scored, scoredRef{
			ref:   ref,
			score: cosineSimilarity(query.Embedding, ref.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].ref.UploadedAt.Before(scored[j].ref.UploadedAt)
	})

	if len(scored) > opts.TopK {
		scored = scored[:opts.TopK]
	}

	matches := make([]domain.AnalogyMatch, 0, len(scored))
	for _, s := range scored {
		paper, err := r.store.Get(ctx, s.ref.PaperID)
		if err != nil {
			return nil, fmt.Errorf("load match %s: %w", s.ref.PaperID, err)
		}
		matches = append(matches, domain.AnalogyMatch{Paper: paper, Score: s.score})
	}

	return matches, nil
}

// cosineSimilarity computes dot(a,b) / (||a|| * ||b||).
// Zero-norm vectors score 0 rather than dividing by zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
