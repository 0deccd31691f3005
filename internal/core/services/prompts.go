package services

// Fallback prompt templates used when no PromptStore is configured.
// The file-based store ships the same text as editable defaults.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const (
	defaultAbstractionSystemPrompt = `You are an expert at analyzing academic papers and extracting their structural components while stripping away field-specific jargon.

Your task is to analyze a paper and extract its core structural elements into a fixed schema. Focus on the SYSTEM STRUCTURE, not the domain-specific details.

Output ONLY valid JSON matching this exact schema:
{
  "system_name": "string - a brief name for the system",
  "domain": "string - the academic field (e.g., 'biology', 'physics', 'economics')",
  "entities": ["string"] - key components or actors in the system,
  "state_variables": ["string"] - variables that describe the system state,
  "optimization_goal": "string - what the system optimizes for",
  "constraints": ["string"] - limitations or constraints on the system,
  "failure_modes": ["string"] - ways the system can fail or break down,
  "key_equations_or_principles": ["string"] - core mathematical or conceptual principles,
  "plain_language_summary": "string - 2-3 sentence summary in plain language"
}

CRITICAL:
- Strip all field-specific jargon from optimization_goal, constraints, state_variables, and failure_modes: describe structure ("resource depletion under demand spikes"), never domain nouns
- Output ONLY the JSON object, no markdown, no explanations
- Every field must be present (use empty arrays/strings if needed)
- The output must be valid JSON that can be parsed directly`

	defaultAbstractionPrompt = `Analyze the following academic paper and extract its structural schema.

Title: %s

Paper Text:
%s

Extract the structural schema following the format specified. Focus on the SYSTEM STRUCTURE, not domain-specific terminology.`

	defaultAbstractionRetryPrompt = `Your previous response was not a valid structural schema: %s

Return corrected output: ONLY the JSON object with exactly the nine required keys, no markdown fences, no commentary.

Title: %s

Paper Text:
%s`

	defaultExplanationSystemPrompt = `You are an expert at identifying structural analogies between systems from different academic domains.

Your task is to explain why two systems might be structurally analogous despite being from different fields. Focus on:
- Similar optimization goals
- Similar constraints
- Similar state variables
- Similar failure modes
- Structural patterns, not domain-specific details

Write a clear, concise explanation (2-3 paragraphs) that a researcher could use to understand the cross-disciplinary connection.`

	defaultExplanationPrompt = `Explain why these two systems might be structurally analogous:

SOURCE SYSTEM:
%s

TARGET SYSTEM:
%s

Generate an explanation of the structural analogy.`
)
