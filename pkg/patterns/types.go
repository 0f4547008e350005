// Package patterns loads and validates the rule catalog used for
// issue detection. Rule sets are YAML documents holding a non-empty
// patterns list; built-in sets are embedded and trusted, user-supplied
// sets fail closed per document.
package patterns

import "regexp"

// Severity classifies a pattern's finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Pattern is one detection rule. Immutable after load.
type Pattern struct {
	// Name is unique within the pattern's category.
	Name string `yaml:"name"`

	// Regex is the detection expression. Compiled during load.
	Regex string `yaml:"regex"`

	// Severity is error, warning, or info.
	Severity Severity `yaml:"severity"`

	// Description is a human-readable summary of what the rule catches.
	Description string `yaml:"description"`

	// Tags is a non-empty set of classification strings.
	Tags []string `yaml:"tags"`

	// Suggestion is an optional remediation hint.
	Suggestion string `yaml:"suggestion,omitempty"`

	// ContextLinesAfter overrides the default trailing context window
	// when this pattern matches. Used for multi-line error shapes.
	ContextLinesAfter int `yaml:"context_lines_after,omitempty"`

	compiled *regexp.Regexp
}

// Matches reports whether the pattern's regex matches the message.
// Patterns whose regex failed to compile never match.
func (p *Pattern) Matches(message string) bool {
	return p.compiled != nil && p.compiled.MatchString(message)
}

// document is the on-disk shape of one rule-set source.
type document struct {
	Patterns []Pattern `yaml:"patterns"`
}
