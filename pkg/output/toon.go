package output

import (
	"fmt"
	"io"
	"strings"

	"logsift/pkg/analyzer"
)

// ToonFormatter renders a token-minimized report for LLM agents. It
// keeps only the actionable fields (id, severity, line_in_log, message,
// file, file_line, suggestion), strips pattern metadata and empty
// values, and includes context_after as plain message strings only when
// the matched pattern requested an extended window (the multi-line
// error case).
type ToonFormatter struct{}

// Name returns the format name.
func (f *ToonFormatter) Name() string {
	return "toon"
}

// Format renders the compact report.
func (f *ToonFormatter) Format(report *Report, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "summary: status=%s exit_code=%d\n", report.Summary.Status, report.Summary.ExitCode)
	fmt.Fprintf(&b, "stats: errors=%d warnings=%d\n", report.Stats.TotalErrors, report.Stats.TotalWarnings)

	if len(report.Hooks.Failed) > 0 {
		fmt.Fprintf(&b, "hooks.failed[%d]: %s\n", len(report.Hooks.Failed), strings.Join(report.Hooks.Failed, ","))
	}
	if len(report.Hooks.Passed) > 0 {
		fmt.Fprintf(&b, "hooks.passed[%d]: %s\n", len(report.Hooks.Passed), strings.Join(report.Hooks.Passed, ","))
	}

	writeIssues(&b, "errors", report.Errors)
	writeIssues(&b, "warnings", report.Warnings)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeIssues(b *strings.Builder, section string, issues []analyzer.Issue) {
	if len(issues) == 0 {
		return
	}

	fmt.Fprintf(b, "%s[%d]:\n", section, len(issues))
	for i := range issues {
		issue := &issues[i]
		fmt.Fprintf(b, "  %d,%s,line=%d: %s\n", issue.ID, issue.Severity, issue.LineInLog, issue.Message)

		for _, ref := range issue.FileReferences {
			fmt.Fprintf(b, "    file=%s file_line=%d\n", ref.File, ref.Line)
		}
		if issue.Suggestion != "" {
			fmt.Fprintf(b, "    suggestion: %s\n", issue.Suggestion)
		}
		if issue.PatternContextLinesAfter > 0 {
			for _, entry := range issue.ContextAfter {
				fmt.Fprintf(b, "    context: %s\n", entry.Message)
			}
		}
	}
}
