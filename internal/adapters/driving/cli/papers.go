package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

var (
	papersDomain string
	papersJSON   bool
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Manage the paper corpus",
	RunE:  runPapersList,
}

var papersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored papers",
	RunE:  runPapersList,
}

var papersShowCmd = &cobra.Command{
	Use:   "show [paper-id]",
	Short: "Show a paper's structural schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersShow,
}

var papersDeleteCmd = &cobra.Command{
	Use:   "delete [paper-id]",
	Short: "Delete a paper and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersDelete,
}

func init() {
	papersListCmd.Flags().StringVarP(&papersDomain, "domain", "d", "", "filter by domain")
	papersListCmd.Flags().BoolVar(&papersJSON, "json", false, "output as JSON")
	papersCmd.Flags().StringVarP(&papersDomain, "domain", "d", "", "filter by domain")
	papersCmd.Flags().BoolVar(&papersJSON, "json", false, "output as JSON")
	papersShowCmd.Flags().BoolVar(&papersJSON, "json", false, "output as JSON")

	papersCmd.AddCommand(papersListCmd)
	papersCmd.AddCommand(papersShowCmd)
	papersCmd.AddCommand(papersDeleteCmd)
	rootCmd.AddCommand(papersCmd)
}

func runPapersList(cmd *cobra.Command, _ []string) error {
	if analogyService == nil {
		return errors.New("analogy service not configured")
	}

	summaries, err := analogyService.ListPapers(cmd.Context(), papersDomain)
	if err != nil {
		return fmt.Errorf("listing papers: %w", err)
	}

	if papersJSON {
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal papers: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(summaries) == 0 {
		cmd.Println("No papers stored.")
		return nil
	}

	cmd.Printf("%d paper(s):\n\n", len(summaries))
	for _, s := range summaries {
		cmd.Printf("  %s  %-12s  %s\n", s.ID, s.Domain, s.Title)
	}
	return nil
}

func runPapersShow(cmd *cobra.Command, args []string) error {
	if analogyService == nil {
		return errors.New("analogy service not configured")
	}

	paper, err := analogyService.GetPaper(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading paper: %w", err)
	}

	if papersJSON {
		data, err := json.MarshalIndent(paper.Schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	schema := paper.Schema
	cmd.Printf("%s\n", paper.Title)
	cmd.Printf("  ID:       %s\n", paper.ID)
	cmd.Printf("  Domain:   %s\n", paper.Domain)
	cmd.Printf("  Uploaded: %s\n", paper.UploadedAt.Format("2006-01-02 15:04"))
	cmd.Println()
	cmd.Printf("  System:            %s\n", schema.SystemName)
	cmd.Printf("  Optimization goal: %s\n", schema.OptimizationGoal)
	cmd.Printf("  Entities:          %s\n", strings.Join(schema.Entities, ", "))
	cmd.Printf("  State variables:   %s\n", strings.Join(schema.StateVariables, ", "))
	cmd.Printf("  Constraints:       %s\n", strings.Join(schema.Constraints, ", "))
	cmd.Printf("  Failure modes:     %s\n", strings.Join(schema.FailureModes, ", "))
	cmd.Printf("  Principles:        %s\n", strings.Join(schema.KeyEquationsOrPrinciples, ", "))
	cmd.Println()
	cmd.Printf("  %s\n", schema.PlainLanguageSummary)
	return nil
}

func runPapersDelete(cmd *cobra.Command, args []string) error {
	if analogyService == nil {
		return errors.New("analogy service not configured")
	}

	id := args[0]
	if err := analogyService.DeletePaper(cmd.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("paper %s not found", id)
		}
		return fmt.Errorf("deleting paper: %w", err)
	}

	cmd.Printf("Deleted %s\n", id)
	return nil
}
