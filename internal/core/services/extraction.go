package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
	"github.com/paralog-labs/paralog-cli/internal/logger"
)

// DefaultExtractionBudget is the character budget for text sent to the model.
const DefaultExtractionBudget = 10000

// tailReserveDivisor controls how much of the budget is kept for trailing
// chunks. Conclusions and limitations live at the end of a paper and matter
// for failure modes, so a quarter of the budget is reserved for them.
const tailReserveDivisor = 4

// extractionMaxTokens bounds the schema completion.
const extractionMaxTokens = 1500

// extractionTemperature keeps schema output consistent across runs.
const extractionTemperature = 0.2

// SchemaExtractor maps chunked document text to exactly one validated
// StructuralSchema through a single gateway call, with one corrective retry
// on validation failure.
type SchemaExtractor struct {
	llm     driven.LLMGateway
	prompts driven.PromptStore
	budget  int
}

// ExtractorOption configures the schema extractor.
type ExtractorOption func(*SchemaExtractor)

// WithBudget sets the character budget for model input.
func WithBudget(budget int) ExtractorOption {
	return func(e *SchemaExtractor) {
		if budget > 0 {
			e.budget = budget
		}
	}
}

// NewSchemaExtractor creates a schema extractor.
func NewSchemaExtractor(llm driven.LLMGateway, prompts driven.PromptStore, opts ...ExtractorOption) *SchemaExtractor {
	e := &SchemaExtractor{
		llm:     llm,
		prompts: prompts,
		budget:  DefaultExtractionBudget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract produces a validated schema from the document chunks.
// One TraceEntry is appended per gateway attempt, so a malformed-then-valid
// sequence is visible as two structural_abstraction entries.
func (e *SchemaExtractor) Extract(
	ctx context.Context, title string, chunks []string, trace *domain.Trace,
) (*domain.StructuralSchema, error) {
	if e.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	text := e.selectText(chunks)
	logger.Step("B", "structural abstraction over %d chars", len(text))

	system := e.loadPrompt(driven.PromptAbstractionSystem, defaultAbstractionSystemPrompt)
	prompt := fmt.Sprintf(e.loadPrompt(driven.PromptAbstraction, defaultAbstractionPrompt), title, text)

	schema, parseErr := e.attempt(ctx, driven.PromptAbstraction, system, prompt, text, trace)
	if parseErr == nil {
		return schema, nil
	}
	if errors.Is(parseErr, domain.ErrSchemaExtraction) {
		// Gateway failure, not model output: the corrective retry cannot help
		return nil, parseErr
	}

	logger.Warn("Schema validation failed, retrying with corrective prompt: %v", parseErr)
	retryPrompt := fmt.Sprintf(
		e.loadPrompt(driven.PromptAbstractionRetry, defaultAbstractionRetryPrompt),
		parseErr.Error(), title, text)

	schema, retryErr := e.attempt(ctx, driven.PromptAbstractionRetry, system, retryPrompt, text, trace)
	if retryErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaExtraction, retryErr)
	}
	return schema, nil
}

// attempt runs one gateway call and validates the output into a schema.
func (e *SchemaExtractor) attempt(
	ctx context.Context, promptVersion, system, prompt, input string, trace *domain.Trace,
) (*domain.StructuralSchema, error) {
	completion, err := e.llm.Complete(ctx, driven.CompletionRequest{
		System:      system,
		Prompt:      prompt,
		MaxTokens:   extractionMaxTokens,
		Temperature: extractionTemperature,
	})
	if err != nil {
		trace.Append(domain.TraceEntry{
			Step:            domain.StepAbstraction,
			PromptVersionID: promptVersion,
			InputSummary:    domain.Summarise(input),
			OutputSummary:   "gateway error: " + err.Error(),
		})
		return nil, fmt.Errorf("%w: gateway: %v", domain.ErrSchemaExtraction, err)
	}

	schema, parseErr := domain.ParseSchema([]byte(stripCodeFences(completion.Text)))

	entry := domain.TraceEntry{
		Step:            domain.StepAbstraction,
		PromptVersionID: promptVersion,
		InputSummary:    domain.Summarise(input),
		Latency:         completion.Latency,
	}
	if parseErr != nil {
		entry.OutputSummary = "validation error: " + parseErr.Error()
		trace.Append(entry)
		return nil, parseErr
	}
	entry.OutputSummary = fmt.Sprintf("system=%s domain=%s", schema.SystemName, schema.Domain)
	trace.Append(entry)

	return schema, nil
}

// selectText concatenates chunks up to the budget. When the document does not
// fit, leading chunks fill most of the budget and trailing chunks fill the
// reserved tail, since title/abstract and conclusion/limitations carry the
// structural signal.
func (e *SchemaExtractor) selectText(chunks []string) string {
	total := 0
	for _, c := range chunks {
		total += len(c) + 2
	}
	if total <= e.budget {
		return strings.Join(chunks, "\n\n")
	}

	reserve := e.budget / tailReserveDivisor
	headBudget := e.budget - reserve

	var head []string
	used := 0
	lastHead := -1
	for i, c := range chunks {
		if used+len(c)+2 > headBudget {
			break
		}
		head = append(head, c)
		used += len(c) + 2
		lastHead = i
	}

	var tail []string
	used = 0
	for i := len(chunks) - 1; i > lastHead; i-- {
		c := chunks[i]
		if used+len(c)+2 > reserve {
			break
		}
		tail = append([]string{c}, tail...)
		used += len(c) + 2
	}

	if len(head) == 0 && len(chunks) > 0 {
		// A single oversized chunk still yields input
		return chunks[0][:e.budget]
	}

	parts := head
	if len(tail) > 0 {
		parts = append(parts, "[...]")
		parts = append(parts, tail...)
	}
	return strings.Join(parts, "\n\n")
}

// loadPrompt loads a prompt from the store, falling back to the default.
func (e *SchemaExtractor) loadPrompt(name, fallback string) string {
	if e.prompts == nil {
		return fallback
	}
	prompt, err := e.prompts.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// stripCodeFences removes markdown code fences models wrap JSON in.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
