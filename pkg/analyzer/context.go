package analyzer

import (
	"fmt"

	"logsift/pkg/parser"
)

// DefaultContextLines is the default window length on each side of an
// issue's entry.
const DefaultContextLines = 2

// ContextWindow holds the entries surrounding an issue's entry.
type ContextWindow struct {
	Before []parser.LogEntry
	After  []parser.LogEntry
}

// ExtractContext returns up to linesBefore preceding and linesAfter
// following entries around index, clamped at the sequence boundaries.
// The entry at index itself is never included.
//
// An out-of-range index is a caller bug (an issue matched against the
// wrong entry sequence) and fails loudly.
func ExtractContext(entries []parser.LogEntry, index, linesBefore, linesAfter int) (ContextWindow, error) {
	if index < 0 || index >= len(entries) {
		return ContextWindow{}, fmt.Errorf("context index %d out of range for %d entries", index, len(entries))
	}

	start := index - linesBefore
	if start < 0 {
		start = 0
	}
	end := index + linesAfter + 1
	if end > len(entries) {
		end = len(entries)
	}

	return ContextWindow{
		Before: entries[start:index],
		After:  entries[index+1 : end],
	}, nil
}
