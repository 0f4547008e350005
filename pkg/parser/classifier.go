package parser

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	syslogPriorityPattern = regexp.MustCompile(`^<\d+>`)

	// key=value token, value optionally double-quoted with escaped quotes.
	keyValuePattern = regexp.MustCompile(`\b(\w+)=("(?:[^"\\]|\\.)*"|\S+)`)
)

// Classify detects the format of a single line. Checks run in fixed
// order and the first match wins: JSON object, syslog priority marker,
// structured key=value, plain fallback. Classification is purely
// per-line, so one input may mix formats line by line.
func Classify(line string) Format {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			return FormatJSON
		}
	}

	if syslogPriorityPattern.MatchString(trimmed) {
		return FormatSyslog
	}

	if len(keyValuePattern.FindAllString(trimmed, 2)) >= 2 {
		return FormatStructured
	}

	return FormatPlain
}
