package output

import (
	"fmt"
	"io"
	"strings"

	"logsift/pkg/analyzer"
)

// MarkdownFormatter renders a human-readable markdown report.
type MarkdownFormatter struct{}

// Name returns the format name.
func (f *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format renders the report as markdown.
func (f *MarkdownFormatter) Format(report *Report, w io.Writer) error {
	var b strings.Builder

	b.WriteString("# Log Analysis Results\n\n")

	stats := report.Stats
	if stats.TotalErrors == 0 && stats.TotalWarnings == 0 {
		b.WriteString("**Status:** clean - no errors or warnings found\n")
		f.writeHooks(&b, report)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "**Errors:** %d | **Warnings:** %d\n\n", stats.TotalErrors, stats.TotalWarnings)

	if len(report.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for i := range report.Errors {
			f.writeIssue(&b, &report.Errors[i])
		}
	}

	if len(report.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for i := range report.Warnings {
			f.writeIssue(&b, &report.Warnings[i])
		}
	}

	f.writeHooks(&b, report)

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *MarkdownFormatter) writeIssue(b *strings.Builder, issue *analyzer.Issue) {
	label := "ERROR"
	if issue.Severity == analyzer.SeverityWarning {
		label = "WARNING"
	}

	fmt.Fprintf(b, "### %s #%d (Line %d)\n\n", label, issue.ID, issue.LineInLog)
	fmt.Fprintf(b, "**Message:** %s\n", issue.Message)

	if issue.PatternName != "" {
		fmt.Fprintf(b, "**Pattern:** `%s`\n", issue.PatternName)
	}
	if issue.Description != "" {
		fmt.Fprintf(b, "**Description:** %s\n", issue.Description)
	}
	if len(issue.Tags) > 0 {
		tags := make([]string, len(issue.Tags))
		for i, tag := range issue.Tags {
			tags[i] = "`" + tag + "`"
		}
		fmt.Fprintf(b, "**Tags:** %s\n", strings.Join(tags, ", "))
	}
	if len(issue.FileReferences) > 0 {
		refs := make([]string, len(issue.FileReferences))
		for i, ref := range issue.FileReferences {
			refs[i] = fmt.Sprintf("`%s:%d`", ref.File, ref.Line)
		}
		fmt.Fprintf(b, "**Files:** %s\n", strings.Join(refs, ", "))
	}
	if issue.Suggestion != "" {
		fmt.Fprintf(b, "\n**Suggestion:** %s\n", issue.Suggestion)
	}

	if len(issue.ContextBefore) > 0 || len(issue.ContextAfter) > 0 {
		b.WriteString("\n**Context:**\n```\n")
		for _, entry := range issue.ContextBefore {
			fmt.Fprintf(b, "%5d | %s\n", entry.LineNumber, entry.Message)
		}
		fmt.Fprintf(b, "%5d | > %s\n", issue.LineInLog, issue.Message)
		for _, entry := range issue.ContextAfter {
			fmt.Fprintf(b, "%5d | %s\n", entry.LineNumber, entry.Message)
		}
		b.WriteString("```\n")
	}

	b.WriteString("\n")
}

func (f *MarkdownFormatter) writeHooks(b *strings.Builder, report *Report) {
	if len(report.Hooks.Failed) == 0 && len(report.Hooks.Passed) == 0 {
		return
	}

	b.WriteString("\n## Hooks\n\n")
	for _, name := range report.Hooks.Failed {
		fmt.Fprintf(b, "- FAILED: %s\n", name)
	}
	for _, name := range report.Hooks.Passed {
		fmt.Fprintf(b, "- passed: %s\n", name)
	}
}
