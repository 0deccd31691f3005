package domain

import "time"

// Pipeline step names recorded in traces.
const (
	StepIngestion   = "text_ingestion"
	StepAbstraction = "structural_abstraction"
	StepEmbedding   = "embedding_storage"
	StepExplanation = "explanation_generation"
	StepRetrieval   = "structural_retrieval"
)

// TraceEntry records one pipeline-stage call for observability.
type TraceEntry struct {
	// Step is the pipeline step name.
	Step string `json:"step"`

	// PromptVersionID identifies the prompt (or model) version used.
	PromptVersionID string `json:"prompt_version_id,omitempty"`

	// InputSummary is a truncated description of the step input.
	InputSummary string `json:"input_summary,omitempty"`

	// OutputSummary is a truncated description of the step output, or the
	// failure reason for unsuccessful attempts.
	OutputSummary string `json:"output_summary,omitempty"`

	// Latency is the measured step duration.
	Latency time.Duration `json:"latency"`
}

// Trace is the ordered record of pipeline-stage calls for one operation.
// A trace is created fresh per orchestrator call and discarded after the
// response is returned; it is never persisted by the pipeline.
type Trace struct {
	Entries []TraceEntry `json:"entries"`
}

// Append adds an entry to the trace. A nil trace ignores the append so
// components can record unconditionally.
func (t *Trace) Append(entry TraceEntry) {
	if t == nil {
		return
	}
	t.Entries = append(t.Entries, entry)
}

// summaryLimit bounds trace input/output summaries.
const summaryLimit = 160

// Summarise truncates text for use in a TraceEntry summary.
func Summarise(text string) string {
	if len(text) <= summaryLimit {
		return text
	}
	return text[:summaryLimit] + "..."
}
