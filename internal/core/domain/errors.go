package domain

import "errors"

// Domain errors represent pipeline failures.
// These are distinct from infrastructure errors and carry a stable kind tag
// (see Kind) so callers can report them without string matching.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates the extracted document text was empty or
	// whitespace-only. This is terminal for an ingest operation.
	ErrEmptyInput = errors.New("empty input")

	// ErrExtraction indicates text extraction from the raw document failed
	// (non-text or corrupted input).
	ErrExtraction = errors.New("text extraction failed")

	// ErrSchemaExtraction indicates the model output could not be validated
	// into a structural schema after the corrective retry.
	ErrSchemaExtraction = errors.New("schema extraction failed")

	// ErrEmbedding indicates embedding generation failed, either because the
	// schema's structural fields were all empty or the gateway errored.
	ErrEmbedding = errors.New("embedding failed")

	// ErrDimensionMismatch indicates a stored embedding's length differs from
	// the query embedding's length. This signals corpus corruption and is
	// never skipped silently.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrExplanation indicates analogy explanation generation failed.
	ErrExplanation = errors.New("explanation failed")

	// ErrLLMUnavailable indicates no language model gateway is configured.
	ErrLLMUnavailable = errors.New("LLM gateway unavailable")

	// ErrEmbeddingUnavailable indicates no embedding service is configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// Kind returns the stable kind tag for a pipeline error, or "internal" for
// anything outside the taxonomy. Tags are part of the operation contract and
// must not change between releases.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrExtraction):
		return "extraction_failed"
	case errors.Is(err, ErrSchemaExtraction):
		return "schema_extraction_failed"
	case errors.Is(err, ErrEmbedding):
		return "embedding_failed"
	case errors.Is(err, ErrDimensionMismatch):
		return "dimension_mismatch"
	case errors.Is(err, ErrExplanation):
		return "explanation_failed"
	case errors.Is(err, ErrLLMUnavailable):
		return "llm_unavailable"
	case errors.Is(err, ErrEmbeddingUnavailable):
		return "embedding_unavailable"
	default:
		return "internal"
	}
}
