package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain [source-paper-id] [target-paper-id]",
	Short: "Explain the structural analogy between two papers",
	Long: `Generates a natural-language explanation of why two stored papers are
structurally analogous, using the configured LLM.`,
	Args: cobra.ExactArgs(2),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	if analogyService == nil {
		return errors.New("analogy service not configured")
	}

	result, err := analogyService.Explain(cmd.Context(), args[0], args[1])
	if err != nil {
		if result != nil {
			printTrace(cmd, result.Trace)
		}
		return fmt.Errorf("explanation failed: %w", err)
	}

	cmd.Println(result.Explanation.Text)
	printTrace(cmd, result.Trace)
	return nil
}
