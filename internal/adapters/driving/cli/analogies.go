package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
)

var (
	analogiesTopK          int
	analogiesExcludeDomain string
	analogiesSameDomain    bool
	analogiesJSON          bool
)

var analogiesCmd = &cobra.Command{
	Use:   "analogies [paper-id]",
	Short: "Find structurally similar papers from other fields",
	Long: `Ranks the corpus by structural similarity to the given paper.

By default papers from the query paper's own domain are excluded, since the
point is cross-domain discovery. Use --same-domain to rank the whole corpus.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalogies,
}

func init() {
	analogiesCmd.Flags().IntVarP(&analogiesTopK, "top-k", "n", domain.DefaultTopK, "maximum number of matches")
	analogiesCmd.Flags().StringVar(&analogiesExcludeDomain, "exclude-domain", "", "exclude papers from this domain (default: the query paper's domain)")
	analogiesCmd.Flags().BoolVar(&analogiesSameDomain, "same-domain", false, "include papers from the query paper's own domain")
	analogiesCmd.Flags().BoolVar(&analogiesJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(analogiesCmd)
}

func runAnalogies(cmd *cobra.Command, args []string) error {
	if analogyService == nil {
		return errors.New("analogy service not configured")
	}

	paperID := args[0]
	ctx := cmd.Context()

	excludeDomain := analogiesExcludeDomain
	if excludeDomain == "" && !analogiesSameDomain {
		paper, err := analogyService.GetPaper(ctx, paperID)
		if err != nil {
			return fmt.Errorf("load paper %s: %w", paperID, err)
		}
		excludeDomain = paper.Domain
	}

	matches, err := analogyService.FindAnalogies(ctx, paperID, domain.RetrievalOptions{
		TopK:          analogiesTopK,
		ExcludeDomain: excludeDomain,
	})
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if analogiesJSON {
		return outputMatchesJSON(cmd, matches)
	}
	return outputMatchesTable(cmd, matches)
}

func outputMatchesJSON(cmd *cobra.Command, matches []domain.AnalogyMatch) error {
	type jsonMatch struct {
		PaperID string  `json:"paper_id"`
		Title   string  `json:"title"`
		Domain  string  `json:"domain"`
		System  string  `json:"system_name"`
		Score   float64 `json:"similarity_score"`
	}

	out := make([]jsonMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, jsonMatch{
			PaperID: m.Paper.ID,
			Title:   m.Paper.Title,
			Domain:  m.Paper.Domain,
			System:  m.Paper.Schema.SystemName,
			Score:   m.Score,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputMatchesTable(cmd *cobra.Command, matches []domain.AnalogyMatch) error {
	if len(matches) == 0 {
		cmd.Println("No analogies found.")
		return nil
	}

	cmd.Println("Structural analogies:")
	cmd.Println()
	for i, m := range matches {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, m.Paper.Title, m.Score)
		cmd.Printf("      ID: %s  Domain: %s\n", m.Paper.ID, m.Paper.Domain)
		if m.Paper.Schema.OptimizationGoal != "" {
			cmd.Printf("      Optimizes: %s\n", m.Paper.Schema.OptimizationGoal)
		}
		cmd.Println()
	}
	return nil
}
