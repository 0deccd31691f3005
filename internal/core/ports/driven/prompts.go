package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Implementations should fall back to an embedded default when a
	// user-edited file is missing or unreadable.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names. The name doubles as the prompt_version_id recorded
// in traces, so bump the suffix whenever a template changes meaning.
const (
	// PromptAbstractionSystem instructs the model to emit strictly the
	// nine-field schema JSON, free of domain jargon. No placeholders.
	PromptAbstractionSystem = "structural_abstraction_system@v1"

	// PromptAbstraction carries the document into the extraction call.
	// Placeholders: %s (title), %s (document text).
	PromptAbstraction = "structural_abstraction@v1"

	// PromptAbstractionRetry demands corrected JSON after a validation
	// failure. Placeholders: %s (parse error), %s (title), %s (text).
	PromptAbstractionRetry = "structural_abstraction_retry@v1"

	// PromptExplanationSystem frames the analogy explanation task.
	// No placeholders.
	PromptExplanationSystem = "analogy_explanation_system@v1"

	// PromptExplanation presents both schemas' structural fields.
	// Placeholders: two %s blocks (source system, target system).
	PromptExplanation = "analogy_explanation@v1"
)
