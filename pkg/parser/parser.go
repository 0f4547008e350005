package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

	// ISO-8601-like leading timestamp, with optional fractional seconds
	// and zone designator.
	timestampPattern = regexp.MustCompile(
		`^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?(?:Z|[+-]\d{2}:?\d{2})?)\s*`)

	// Leading level marker, optionally bracketed, terminated by one of
	// ":", "-", "|", or whitespace.
	levelMarkerPattern = regexp.MustCompile(
		`^\[?(DEBUG|INFO|WARNING|WARN|ERROR|FATAL)\]?\s*[:\-|\s]\s*`)

	syslogHeaderPattern = regexp.MustCompile(`^<(\d+)>`)
)

// Parse splits text on line boundaries and normalizes each non-blank
// line into a LogEntry. Line numbers are 1-based and stable; blank
// lines are skipped without being assigned entries.
func Parse(text string) []LogEntry {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	entries := make([]LogEntry, 0, len(lines))

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		lineNumber := i + 1

		var entry LogEntry
		switch Classify(line) {
		case FormatJSON:
			jsonEntry, err := parseJSONLine(line, lineNumber)
			if err != nil {
				// Malformed JSON falls back to the plain branch.
				entry = parsePlainLine(line, lineNumber)
			} else {
				entry = jsonEntry
			}
		case FormatStructured:
			entry = parseStructuredLine(line, lineNumber)
		case FormatSyslog:
			entry = parseSyslogLine(line, lineNumber)
		default:
			entry = parsePlainLine(line, lineNumber)
		}

		entries = append(entries, entry)
	}

	return entries
}

// parseJSONLine parses a line holding a JSON object. The level and
// message keys populate the typed core; remaining keys pass through in
// Fields.
func parseJSONLine(line string, lineNumber int) (LogEntry, error) {
	trimmed := strings.TrimSpace(line)

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return LogEntry{}, fmt.Errorf("parsing JSON line %d: %w", lineNumber, err)
	}

	entry := LogEntry{
		LineNumber: lineNumber,
		Format:     FormatJSON,
		Level:      DefaultLevel,
		Message:    trimmed,
	}

	fields := make(map[string]any)
	for key, value := range obj {
		switch key {
		case "level":
			if s, ok := value.(string); ok {
				entry.Level = strings.ToUpper(s)
				continue
			}
		case "message":
			if s, ok := value.(string); ok {
				entry.Message = s
				continue
			}
		case "timestamp":
			if s, ok := value.(string); ok {
				entry.Timestamp = s
				continue
			}
		}
		fields[key] = value
	}
	if len(fields) > 0 {
		entry.Fields = fields
	}

	return entry, nil
}

// parseStructuredLine handles key=value lines, with an optional leading
// timestamp. Quoted values are unquoted; unknown keys pass through.
func parseStructuredLine(line string, lineNumber int) LogEntry {
	rest := strings.TrimSpace(line)

	entry := LogEntry{
		LineNumber: lineNumber,
		Format:     FormatStructured,
		Level:      DefaultLevel,
	}

	if m := timestampPattern.FindStringSubmatch(rest); m != nil {
		entry.Timestamp = m[1]
		rest = rest[len(m[0]):]
	}

	fields := make(map[string]any)
	for _, kv := range keyValuePattern.FindAllStringSubmatch(rest, -1) {
		key, value := kv[1], unquoteValue(kv[2])
		switch key {
		case "level":
			entry.Level = strings.ToUpper(value)
		case "message":
			entry.Message = value
		case "timestamp":
			entry.Timestamp = value
		default:
			fields[key] = value
		}
	}
	if len(fields) > 0 {
		entry.Fields = fields
	}

	return entry
}

// parseSyslogLine strips the <priority> marker and keeps the text after
// the first colon as the message. The tag prefix is discarded.
func parseSyslogLine(line string, lineNumber int) LogEntry {
	rest := strings.TrimSpace(line)

	entry := LogEntry{
		LineNumber: lineNumber,
		Format:     FormatSyslog,
		Level:      DefaultLevel,
	}

	if m := syslogHeaderPattern.FindStringSubmatch(rest); m != nil {
		if priority, err := strconv.Atoi(m[1]); err == nil {
			entry.Fields = map[string]any{"priority": priority}
		}
		rest = rest[len(m[0]):]
	}

	if _, message, found := strings.Cut(rest, ":"); found {
		entry.Message = strings.TrimSpace(message)
	} else {
		entry.Message = strings.TrimSpace(rest)
	}

	return entry
}

// parsePlainLine strips ANSI escapes, an optional leading timestamp,
// and a strict leading level marker. A level word appearing mid-line is
// intentionally not treated as a level; broader severity inference
// belongs to the pattern catalog, not the parser.
func parsePlainLine(line string, lineNumber int) LogEntry {
	rest := strings.TrimSpace(ansiPattern.ReplaceAllString(line, ""))

	entry := LogEntry{
		LineNumber: lineNumber,
		Format:     FormatPlain,
		Level:      DefaultLevel,
	}

	if m := timestampPattern.FindStringSubmatch(rest); m != nil {
		entry.Timestamp = m[1]
		rest = rest[len(m[0]):]
	}

	if m := levelMarkerPattern.FindStringSubmatch(rest); m != nil {
		entry.Level = strings.ToUpper(m[1])
		rest = rest[len(m[0]):]
	}

	entry.Message = rest
	return entry
}

// unquoteValue removes surrounding double quotes and unescapes the
// contents of a quoted structured value.
func unquoteValue(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		if unquoted, err := strconv.Unquote(value); err == nil {
			return unquoted
		}
		return value[1 : len(value)-1]
	}
	return value
}
