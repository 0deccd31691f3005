package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/paralog-labs/paralog-cli/internal/core/domain"
	"github.com/paralog-labs/paralog-cli/internal/logger"
)

// timeUnit rounds latencies for display.
const timeUnit = time.Millisecond

// printTrace renders the pipeline trace of a call. Only shown in verbose
// mode; the trace is diagnostic output, not part of the command result.
func printTrace(cmd *cobra.Command, trace domain.Trace) {
	if !logger.IsVerbose() || len(trace.Entries) == 0 {
		return
	}

	cmd.Println()
	cmd.Println("Trace:")
	for _, entry := range trace.Entries {
		cmd.Printf("  %-24s %8s", entry.Step, entry.Latency.Round(timeUnit))
		if entry.PromptVersionID != "" {
			cmd.Printf("  [%s]", entry.PromptVersionID)
		}
		cmd.Println()
		if entry.InputSummary != "" {
			cmd.Printf("    in:  %s\n", entry.InputSummary)
		}
		if entry.OutputSummary != "" {
			cmd.Printf("    out: %s\n", entry.OutputSummary)
		}
	}
}
