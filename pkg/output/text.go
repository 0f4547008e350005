package output

import (
	"fmt"
	"io"

	"logsift/pkg/analyzer"
)

// TextFormatter renders a simple plain-text report with no markup.
type TextFormatter struct{}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "plain"
}

// Format renders the report as plain text.
func (f *TextFormatter) Format(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "logsift: %d errors, %d warnings (status: %s)\n",
		report.Stats.TotalErrors, report.Stats.TotalWarnings, report.Summary.Status)

	writeTextIssues(w, report.Errors)
	writeTextIssues(w, report.Warnings)

	for _, name := range report.Hooks.Failed {
		fmt.Fprintf(w, "hook failed: %s\n", name)
	}
	for _, name := range report.Hooks.Passed {
		fmt.Fprintf(w, "hook passed: %s\n", name)
	}

	return nil
}

func writeTextIssues(w io.Writer, issues []analyzer.Issue) {
	for i := range issues {
		issue := &issues[i]
		fmt.Fprintf(w, "%s #%d line %d: %s\n", issue.Severity, issue.ID, issue.LineInLog, issue.Message)
		for _, ref := range issue.FileReferences {
			fmt.Fprintf(w, "  at %s:%d\n", ref.File, ref.Line)
		}
		if issue.Suggestion != "" {
			fmt.Fprintf(w, "  suggestion: %s\n", issue.Suggestion)
		}
	}
}
