// Package parser provides per-line format classification and
// normalization of raw log text into LogEntry values.
package parser

// Format identifies the detected format of a single log line.
type Format string

const (
	FormatJSON       Format = "json"
	FormatStructured Format = "structured"
	FormatSyslog     Format = "syslog"
	FormatPlain      Format = "plain"
)

// DefaultLevel is assigned to entries that carry no explicit severity.
const DefaultLevel = "INFO"

// LogEntry is one physical line of input, normalized.
//
// LineNumber is 1-based and matches the line's position in the original
// text; blank lines are never assigned entries, so consumers must use
// the field rather than slice position for identity.
type LogEntry struct {
	// LineNumber is the 1-based position in the original text.
	LineNumber int `json:"line_number"`

	// Format is the per-line detected format.
	Format Format `json:"format"`

	// Level is the normalized upper-case severity token.
	Level string `json:"level"`

	// Message is the format-specific residue after stripping markers
	// and ANSI escapes.
	Message string `json:"message"`

	// Timestamp is the raw timestamp string, if one was found.
	Timestamp string `json:"timestamp,omitempty"`

	// Fields carries extra key/value data from JSON and structured
	// sources (and the syslog priority).
	Fields map[string]any `json:"fields,omitempty"`
}
