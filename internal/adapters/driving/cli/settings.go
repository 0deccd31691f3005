package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

var (
	setProvider string
	setModel    string
	setBaseURL  string
	setAPIKey   string
	setDims     int
	setDSN      string
	setSize     int
	setOverlap  int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, storage, and chunking options.

Settings persist in ~/.paralog/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider",
	Long: `Configure the LLM provider used for schema extraction and analogy
explanations. Supported providers: openai, anthropic, ollama.`,
	RunE: runSettingsLLM,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long: `Configure the provider used to embed structural schemas.
Supported providers: openai, ollama.`,
	RunE: runSettingsEmbedding,
}

var settingsStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Configure the paper store",
	Long: `Select the storage backend via DSN.

  (empty)          SQLite under ~/.paralog/data
  /path/to/db      SQLite at that path
  postgres://...   PostgreSQL with pgvector
  memory           in-memory (nothing persists)`,
	RunE: runSettingsStorage,
}

var settingsChunkingCmd = &cobra.Command{
	Use:   "chunking",
	Short: "Configure text chunking",
	RunE:  runSettingsChunking,
}

func init() {
	settingsLLMCmd.Flags().StringVar(&setProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	settingsLLMCmd.Flags().StringVar(&setModel, "model", "", "model name")
	settingsLLMCmd.Flags().StringVar(&setBaseURL, "base-url", "", "API base URL")
	settingsLLMCmd.Flags().StringVar(&setAPIKey, "api-key", "", "API key")

	settingsEmbeddingCmd.Flags().StringVar(&setProvider, "provider", "", "embedding provider (openai, ollama)")
	settingsEmbeddingCmd.Flags().StringVar(&setModel, "model", "", "model name")
	settingsEmbeddingCmd.Flags().StringVar(&setBaseURL, "base-url", "", "API base URL")
	settingsEmbeddingCmd.Flags().StringVar(&setAPIKey, "api-key", "", "API key")
	settingsEmbeddingCmd.Flags().IntVar(&setDims, "dimensions", 0, "embedding vector size")

	settingsStorageCmd.Flags().StringVar(&setDSN, "dsn", "", "storage DSN")

	settingsChunkingCmd.Flags().IntVar(&setSize, "size", 0, "chunk size in characters")
	settingsChunkingCmd.Flags().IntVar(&setOverlap, "overlap", 0, "overlap between chunks in characters")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	settingsCmd.AddCommand(settingsChunkingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", orDefault(settings.LLM.Model))
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	printAPIKey(cmd, settings.LLM.Provider, settings.LLM.APIKey)
	printStatus(cmd, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", orDefault(settings.Embedding.Model))
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	printAPIKey(cmd, settings.Embedding.Provider, settings.Embedding.APIKey)
	if settings.Embedding.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	}
	printStatus(cmd, settings.Embedding.IsConfigured())
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  DSN: %s\n", orDefault(settings.Storage.DSN))
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d\n", settings.Chunking.Overlap)

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	return updateSettings(func(settings *domain.AppSettings) error {
		if setProvider != "" {
			provider := domain.AIProvider(strings.ToLower(setProvider))
			if !provider.IsValid() {
				return fmt.Errorf("unknown provider %q", setProvider)
			}
			settings.LLM.Provider = provider
		}
		if setModel != "" {
			settings.LLM.Model = setModel
		}
		if setBaseURL != "" {
			settings.LLM.BaseURL = setBaseURL
		}
		if setAPIKey != "" {
			settings.LLM.APIKey = setAPIKey
		}
		return nil
	}, cmd)
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	return updateSettings(func(settings *domain.AppSettings) error {
		if setProvider != "" {
			provider := domain.AIProvider(strings.ToLower(setProvider))
			if !provider.IsValid() || provider == domain.AIProviderAnthropic {
				return fmt.Errorf("unsupported embedding provider %q", setProvider)
			}
			settings.Embedding.Provider = provider
		}
		if setModel != "" {
			settings.Embedding.Model = setModel
		}
		if setBaseURL != "" {
			settings.Embedding.BaseURL = setBaseURL
		}
		if setAPIKey != "" {
			settings.Embedding.APIKey = setAPIKey
		}
		if setDims > 0 {
			settings.Embedding.Dimensions = setDims
		}
		return nil
	}, cmd)
}

func runSettingsStorage(cmd *cobra.Command, _ []string) error {
	return updateSettings(func(settings *domain.AppSettings) error {
		settings.Storage.DSN = setDSN
		return nil
	}, cmd)
}

func runSettingsChunking(cmd *cobra.Command, _ []string) error {
	return updateSettings(func(settings *domain.AppSettings) error {
		if setSize > 0 {
			settings.Chunking.Size = setSize
		}
		if setOverlap >= 0 && setOverlap < settings.Chunking.Size {
			settings.Chunking.Overlap = setOverlap
		}
		return nil
	}, cmd)
}

// updateSettings loads, mutates, and persists settings.
func updateSettings(mutate func(*domain.AppSettings) error, cmd *cobra.Command) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if err := mutate(settings); err != nil {
		return err
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Settings saved.")
	return nil
}

func printAPIKey(cmd *cobra.Command, provider domain.AIProvider, key string) {
	if !provider.RequiresAPIKey() {
		return
	}
	if key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
}

func printStatus(cmd *cobra.Command, configured bool) {
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func orDefault(value string) string {
	if value == "" {
		return "(default)"
	}
	return value
}

// maskAPIKey shows only the first and last few characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
