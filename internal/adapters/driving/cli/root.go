// Package cli implements the paralog command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paralog-labs/paralog-cli/internal/adapters/driven/ai"
	"github.com/paralog-labs/paralog-cli/internal/adapters/driven/config/file"
	"github.com/paralog-labs/paralog-cli/internal/adapters/driven/storage"
	"github.com/paralog-labs/paralog-cli/internal/chunker"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driving"
	"github.com/paralog-labs/paralog-cli/internal/core/services"
	"github.com/paralog-labs/paralog-cli/internal/extractors"
	"github.com/paralog-labs/paralog-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired in initServices, shared by all commands.
var (
	settingsService *services.SettingsService
	ingestService   driving.IngestService
	analogyService  driving.AnalogyService

	paperStore   driven.PaperStore
	llmGateway   driven.LLMGateway
	embeddingSvc driven.EmbeddingService

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "paralog",
	Short: "Cross-domain research analogy discovery",
	Long: `Paralog ingests research papers, abstracts each one into a structural
schema with an LLM, and finds papers from other fields that share the same
underlying structure.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeServices()
		os.Exit(1)
	}
}

// commandsWithoutAI skips gateway construction for commands that never reach
// the LLM or the embedding provider.
var commandsWithoutAI = map[string]bool{
	"version":    true,
	"settings":   true,
	"help":       true,
	"completion": true,
}

// initServices wires adapters into services based on saved settings.
// AI providers are optional at this stage; commands that need them report
// the configuration error when invoked.
func initServices(cmd *cobra.Command) error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService = services.NewSettingsService(configStore)

	for c := cmd; c != nil; c = c.Parent() {
		if commandsWithoutAI[c.Name()] {
			return nil
		}
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	// Optional: nil gateway degrades the pipeline, it does not break startup.
	llmGateway, err = ai.CreateAndValidateLLMGateway(&settings.LLM)
	if err != nil {
		logger.Warn("LLM gateway unavailable: %v", err)
	}
	embeddingSvc, err = ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("Embedding service unavailable: %v", err)
	}

	dimensions := settings.Embedding.Dimensions
	if dimensions == 0 && embeddingSvc != nil {
		dimensions = embeddingSvc.Dimensions()
	}

	paperStore, err = storage.NewPaperStore(cmd.Context(), settings.Storage.DSN, dimensions)
	if err != nil {
		return fmt.Errorf("opening paper store: %w", err)
	}

	textChunker := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)

	extractor := services.NewSchemaExtractor(llmGateway, promptStore)
	embedder := services.NewSchemaEmbedder(embeddingSvc)
	retriever := services.NewRetriever(paperStore)

	ingestService = services.NewIngestService(
		extractors.NewRegistry(), textChunker, extractor, embedder, paperStore)
	analogyService = services.NewAnalogyService(paperStore, retriever, llmGateway, promptStore)

	return nil
}

// closeServices releases adapter resources.
func closeServices() {
	if paperStore != nil {
		paperStore.Close()
		paperStore = nil
	}
	if llmGateway != nil {
		llmGateway.Close()
		llmGateway = nil
	}
	if embeddingSvc != nil {
		embeddingSvc.Close()
		embeddingSvc = nil
	}
}
