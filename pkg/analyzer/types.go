// Package analyzer turns parsed log entries into structured findings:
// detected issues with context windows and file references, plus hook
// outcomes.
package analyzer

import (
	"logsift/pkg/parser"
)

// SeverityError and SeverityWarning classify detected issues.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// FileReference points at a file and line mentioned in an issue
// message. Columns are recognized during extraction but discarded.
type FileReference struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Issue is one detected error or warning.
type Issue struct {
	// ID is sequential per severity stream, 1-based, in detection order.
	ID int `json:"id"`

	// Severity is "error" or "warning".
	Severity string `json:"severity"`

	// Message is the entry's message text.
	Message string `json:"message"`

	// LineInLog references the LogEntry.LineNumber this issue came from.
	LineInLog int `json:"line_in_log"`

	// Timestamp and Format are carried over from the source entry.
	Timestamp string        `json:"timestamp,omitempty"`
	Format    parser.Format `json:"format,omitempty"`

	// Rule provenance, set only when the issue came from a pattern match.
	PatternName              string   `json:"pattern_name,omitempty"`
	Description              string   `json:"description,omitempty"`
	Tags                     []string `json:"tags,omitempty"`
	Suggestion               string   `json:"suggestion,omitempty"`
	PatternContextLinesAfter int      `json:"pattern_context_lines_after,omitempty"`

	// Enrichment attached by the orchestrator.
	FileReferences []FileReference   `json:"file_references,omitempty"`
	ContextBefore  []parser.LogEntry `json:"context_before,omitempty"`
	ContextAfter   []parser.LogEntry `json:"context_after,omitempty"`
}

// HookResults holds named sub-task outcomes in order of first
// appearance. A name never appears in both lists.
type HookResults struct {
	Passed []string `json:"passed"`
	Failed []string `json:"failed"`
}

// Stats summarizes issue counts.
type Stats struct {
	TotalErrors   int `json:"total_errors"`
	TotalWarnings int `json:"total_warnings"`
}

// AnalysisResult is the complete output of one Analyze call. Created
// fresh per call, never mutated after return.
type AnalysisResult struct {
	Errors   []Issue     `json:"errors"`
	Warnings []Issue     `json:"warnings"`
	Hooks    HookResults `json:"hooks"`
	Stats    Stats       `json:"stats"`
}

// HasErrors reports whether any errors were detected.
func (r *AnalysisResult) HasErrors() bool {
	return r.Stats.TotalErrors > 0
}

// HasIssues reports whether any errors or warnings were detected.
func (r *AnalysisResult) HasIssues() bool {
	return r.Stats.TotalErrors > 0 || r.Stats.TotalWarnings > 0
}
