package analyzer

import (
	"logsift/pkg/parser"
	"logsift/pkg/patterns"
)

// Analyzer composes parsing, issue detection, hook detection, and
// per-issue enrichment into one Analyze call. It holds the loaded
// catalog for its lifetime; analysis itself is stateless and safe to
// call repeatedly with different text.
type Analyzer struct {
	catalog      *patterns.Catalog
	contextLines int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithContextLines sets the default context window length on each side
// of an issue (default 2).
func WithContextLines(n int) Option {
	return func(a *Analyzer) {
		if n >= 0 {
			a.contextLines = n
		}
	}
}

// New creates an Analyzer over an already-loaded catalog.
func New(catalog *patterns.Catalog, opts ...Option) *Analyzer {
	a := &Analyzer{
		catalog:      catalog,
		contextLines: DefaultContextLines,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze parses text and returns the structured findings.
func (a *Analyzer) Analyze(text string) *AnalysisResult {
	entries := parser.Parse(text)

	errors, warnings := DetectIssues(entries, a.catalog)
	hooks := DetectHooks(entries)

	a.enrich(errors, entries)
	a.enrich(warnings, entries)

	return &AnalysisResult{
		Errors:   errors,
		Warnings: warnings,
		Hooks:    hooks,
		Stats: Stats{
			TotalErrors:   len(errors),
			TotalWarnings: len(warnings),
		},
	}
}

// enrich attaches file references and context windows to each issue in
// place. Detection already happened; this only adds metadata.
func (a *Analyzer) enrich(issues []Issue, entries []parser.LogEntry) {
	for i := range issues {
		issue := &issues[i]

		if refs := ResolveFileReferences(issue.Message); len(refs) > 0 {
			issue.FileReferences = refs
		}

		index := indexByLineNumber(entries, issue.LineInLog)
		if index < 0 {
			continue
		}

		linesAfter := a.contextLines
		if issue.PatternContextLinesAfter > 0 {
			// Pattern-specified extended window for multi-line errors.
			// The leading window is never overridden.
			linesAfter = issue.PatternContextLinesAfter
		}

		window, err := ExtractContext(entries, index, a.contextLines, linesAfter)
		if err != nil {
			continue
		}
		issue.ContextBefore = window.Before
		issue.ContextAfter = window.After
	}
}

// indexByLineNumber locates an entry position by its stable line
// number. Entries are strictly increasing, so position and line number
// may differ whenever the input held blank lines.
func indexByLineNumber(entries []parser.LogEntry, lineNumber int) int {
	for i := range entries {
		if entries[i].LineNumber == lineNumber {
			return i
		}
	}
	return -1
}
