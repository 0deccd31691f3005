// Package memory provides in-memory store implementations for testing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
)

var _ driven.PaperStore = (*PaperStore)(nil)

// PaperStore is an in-memory implementation of driven.PaperStore.
// Safe for concurrent use.
type PaperStore struct {
	mu     sync.RWMutex
	papers map[string]*domain.PaperRecord
	chunks map[string][]domain.ChunkRecord
}

// NewPaperStore creates a new in-memory paper store.
func NewPaperStore() *PaperStore {
	return &PaperStore{
		papers: make(map[string]*domain.PaperRecord),
		chunks: make(map[string][]domain.ChunkRecord),
	}
}

// Insert stores a paper and its chunks.
func (s *PaperStore) Insert(_ context.Context, paper *domain.PaperRecord, chunks []domain.ChunkRecord) error {
	if paper == nil {
		return fmt.Errorf("%w: nil paper", domain.ErrInvalidInput)
	}
	if len(paper.Embedding) == 0 {
		return fmt.Errorf("%w: paper has no embedding", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.papers {
		if len(existing.Embedding) != len(paper.Embedding) {
			return fmt.Errorf("%w: corpus dimension is %d, record has %d",
				domain.ErrDimensionMismatch, len(existing.Embedding), len(paper.Embedding))
		}
		break
	}

	stored := *paper
	stored.Embedding = append([]float32(nil), paper.Embedding...)
	s.papers[paper.ID] = &stored
	s.chunks[paper.ID] = append([]domain.ChunkRecord(nil), chunks...)
	return nil
}

// Get retrieves a paper by ID.
func (s *PaperStore) Get(_ context.Context, id string) (*domain.PaperRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paper, ok := s.papers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	copied := *paper
	copied.Embedding = append([]float32(nil), paper.Embedding...)
	return &copied, nil
}

// GetChunks retrieves a paper's chunks in index order.
func (s *PaperStore) GetChunks(_ context.Context, paperID string) ([]domain.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := append([]domain.ChunkRecord(nil), s.chunks[paperID]...)
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})
	return chunks, nil
}

// List returns paper summaries, optionally filtered by exact domain.
func (s *PaperStore) List(_ context.Context, domainFilter string) ([]domain.PaperSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := []domain.PaperSummary{}
	for _, paper := range s.papers {
		if domainFilter != "" && paper.Domain != domainFilter {
			continue
		}
		summaries = append(summaries, paper.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UploadedAt.Before(summaries[j].UploadedAt)
	})
	return summaries, nil
}

// AllEmbeddings returns the corpus-scan view of stored embeddings.
func (s *PaperStore) AllEmbeddings(_ context.Context) ([]domain.EmbeddingRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make([]domain.EmbeddingRef, 0, len(s.papers))
	for _, paper := range s.papers {
		refs = append(refs, domain.EmbeddingRef{
			PaperID:    paper.ID,
			Domain:     paper.Domain,
			Embedding:  append([]float32(nil), paper.Embedding...),
			UploadedAt: paper.UploadedAt,
		})
	}
	return refs, nil
}

// Delete removes a paper and its chunks.
func (s *PaperStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.papers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.papers, id)
	delete(s.chunks, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *PaperStore) Close() error {
	return nil
}
