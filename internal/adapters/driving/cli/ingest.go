package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paralog-labs/paralog-cli/internal/core/ports/driving"
)

var ingestTitle string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a research paper into the corpus",
	Long: `Reads a document, extracts its structural schema with the configured LLM,
embeds the schema, and stores the result. Supported formats: plain text and
Markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "override the guessed paper title")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := ingestService.Ingest(cmd.Context(), driving.IngestRequest{
		Filename: filepath.Base(path),
		Raw:      raw,
		Title:    ingestTitle,
	})
	if err != nil {
		printTrace(cmd, result.Trace)
		return fmt.Errorf("ingest failed: %w", err)
	}

	paper := result.Paper
	cmd.Printf("Ingested %q\n", paper.Title)
	cmd.Printf("  ID:     %s\n", paper.ID)
	cmd.Printf("  Domain: %s\n", paper.Domain)
	cmd.Printf("  System: %s\n", paper.Schema.SystemName)
	printTrace(cmd, result.Trace)
	return nil
}
