// Package output renders analysis results for different consumers:
// JSON for agents, markdown for humans, a compact token-minimized form,
// and plain text.
package output

import (
	"time"

	"logsift/pkg/analyzer"
)

// Summary describes the run that produced the analysis.
type Summary struct {
	// Status is "passed" or "failed".
	Status string `json:"status"`

	// ExitCode is the monitored command's exit code, when one exists.
	ExitCode int `json:"exit_code"`

	// Command is the monitored command line, when one exists.
	Command string `json:"command,omitempty"`

	// LogFile is the analyzed log's path, when it came from a file.
	LogFile string `json:"log_file,omitempty"`
}

// Report is the complete serializable output: the run summary plus the
// analysis result.
type Report struct {
	Summary  Summary `json:"summary"`
	*analyzer.AnalysisResult
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// NewReport wraps an analysis result with its run summary. Status is
// derived from the exit code and error count.
func NewReport(result *analyzer.AnalysisResult, summary Summary) *Report {
	if summary.Status == "" {
		if summary.ExitCode != 0 || result.HasErrors() {
			summary.Status = "failed"
		} else {
			summary.Status = "passed"
		}
	}

	return &Report{
		Summary:        summary,
		AnalysisResult: result,
		AnalyzedAt:     time.Now().UTC(),
	}
}
