package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driving"
	"github.com/paralog-labs/paralog-cli/internal/logger"
)

// explanationMaxTokens bounds the explanation completion.
const explanationMaxTokens = 800

// explanationTemperature allows more natural prose than schema extraction.
const explanationTemperature = 0.7

// Ensure AnalogyService implements the interface.
var _ driving.AnalogyService = (*AnalogyService)(nil)

// AnalogyService answers retrieval and explanation queries over the corpus.
type AnalogyService struct {
	store     driven.PaperStore
	retriever *Retriever
	llm       driven.LLMGateway
	prompts   driven.PromptStore
}

// NewAnalogyService creates an analogy service. The llm parameter is optional
// (nil disables Explain but leaves retrieval working).
func NewAnalogyService(
	store driven.PaperStore,
	retriever *Retriever,
	llm driven.LLMGateway,
	prompts driven.PromptStore,
) *AnalogyService {
	return &AnalogyService{
		store:     store,
		retriever: retriever,
		llm:       llm,
		prompts:   prompts,
	}
}

// FindAnalogies loads the query paper and returns structurally similar papers
// ranked by descending similarity.
func (s *AnalogyService) FindAnalogies(
	ctx context.Context, paperID string, opts domain.RetrievalOptions,
) ([]domain.AnalogyMatch, error) {
	logger.Section("Find Analogies")

	paper, err := s.store.Get(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("load query paper %s: %w", paperID, err)
	}

	matches, err := s.retriever.FindSimilar(ctx, paper, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("Found %d matches for %s", len(matches), paperID)
	return matches, nil
}

// Explain generates a natural-language explanation of the structural analogy
// between two stored papers. The output is free text; no schema is enforced.
func (s *AnalogyService) Explain(ctx context.Context, sourceID, targetID string) (*driving.ExplainResult, error) {
	logger.Section("Explain Analogy")
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	source, err := s.store.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("load source paper %s: %w", sourceID, err)
	}
	target, err := s.store.Get(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("load target paper %s: %w", targetID, err)
	}

	system := s.loadPrompt(driven.PromptExplanationSystem, defaultExplanationSystemPrompt)
	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptExplanation, defaultExplanationPrompt),
		describeSystem(&source.Schema), describeSystem(&target.Schema))

	result := &driving.ExplainResult{}
	completion, err := s.llm.Complete(ctx, driven.CompletionRequest{
		System:      system,
		Prompt:      prompt,
		MaxTokens:   explanationMaxTokens,
		Temperature: explanationTemperature,
	})
	if err != nil {
		result.Trace.Append(domain.TraceEntry{
			Step:            domain.StepExplanation,
			PromptVersionID: driven.PromptExplanation,
			InputSummary:    domain.Summarise(prompt),
			OutputSummary:   "gateway error: " + err.Error(),
		})
		return result, fmt.Errorf("%w: %v", domain.ErrExplanation, err)
	}

	result.Trace.Append(domain.TraceEntry{
		Step:            domain.StepExplanation,
		PromptVersionID: driven.PromptExplanation,
		InputSummary:    domain.Summarise(prompt),
		OutputSummary:   domain.Summarise(completion.Text),
		Latency:         completion.Latency,
	})
	result.Explanation = domain.Explanation{
		Text:    completion.Text,
		Latency: completion.Latency,
	}
	return result, nil
}

// ListPapers returns corpus summaries, optionally filtered by domain.
func (s *AnalogyService) ListPapers(ctx context.Context, domainFilter string) ([]domain.PaperSummary, error) {
	return s.store.List(ctx, domainFilter)
}

// GetPaper retrieves one record by ID.
func (s *AnalogyService) GetPaper(ctx context.Context, id string) (*domain.PaperRecord, error) {
	return s.store.Get(ctx, id)
}

// DeletePaper removes a record and its chunks.
func (s *AnalogyService) DeletePaper(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// describeSystem renders a schema's structural fields for the explanation
// prompt. Entities and summaries stay out so the explanation anchors on
// structure, not topic.
func describeSystem(schema *domain.StructuralSchema) string {
	return fmt.Sprintf(
		"(%s)\n- System: %s\n- Optimization Goal: %s\n- Constraints: %s\n- State Variables: %s\n- Failure Modes: %s",
		schema.Domain,
		schema.SystemName,
		schema.OptimizationGoal,
		strings.Join(schema.Constraints, ", "),
		strings.Join(schema.StateVariables, ", "),
		strings.Join(schema.FailureModes, ", "),
	)
}

// loadPrompt loads a prompt from the store, falling back to the default.
func (s *AnalogyService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
