package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
// Keys carry the prompt version tag recorded in pipeline traces; filenames
// drop it.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAbstractionSystem: `You are an expert at analyzing academic papers and extracting their structural components while stripping away field-specific jargon.

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
- The output must be valid JSON that can be parsed directly`,

	driven.PromptAbstraction: `Analyze the following academic paper and extract its structural schema.

Title: %s

Paper Text:
%s

Extract the structural schema following the format specified. Focus on the SYSTEM STRUCTURE, not domain-specific terminology.`,

	driven.PromptAbstractionRetry: `Your previous response was not a valid structural schema: %s

Return corrected output: ONLY the JSON object with exactly the nine required keys, no markdown fences, no commentary.

Title: %s

Paper Text:
%s`,

	driven.PromptExplanationSystem: `You are an expert at identifying structural analogies between systems from different academic domains.

Your task is to explain why two systems might be structurally analogous despite being from different fields. Focus on:
- Similar optimization goals
- Similar constraints
- Similar state variables
- Similar failure modes
- Structural patterns, not domain-specific details

Write a clear, concise explanation (2-3 paragraphs) that a researcher could use to understand the cross-disciplinary connection.`,

	driven.PromptExplanation: `Explain why these two systems might be structurally analogous:

SOURCE SYSTEM:
%s

TARGET SYSTEM:
%s

Generate an explanation of the structural analogy.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.paralog/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".paralog", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// fileName maps a versioned prompt name to its on-disk file.
// "structural_abstraction@v1" becomes "structural_abstraction.txt".
func fileName(name string) string {
	base, _, _ := strings.Cut(name, "@")
	return base + ".txt"
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, fileName(name))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, fileName(name))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Paralog Prompts

This directory contains customisable prompts used by Paralog's LLM pipeline.

## Files

- ` + "`structural_abstraction_system.txt`" + ` - System prompt enforcing the nine-field schema contract
- ` + "`structural_abstraction.txt`" + ` - Extracts a structural schema from paper text
- ` + "`structural_abstraction_retry.txt`" + ` - Corrective prompt after invalid schema output
- ` + "`analogy_explanation_system.txt`" + ` - System prompt for cross-domain explanations
- ` + "`analogy_explanation.txt`" + ` - Explains a structural analogy between two systems

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command.

## Format Placeholders

Some prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (e.g., the title or paper text)

Ensure customised prompts maintain placeholders in the correct positions.
`
	return os.WriteFile(path, []byte(content), 0600)
}
