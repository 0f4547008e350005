package analyzer

import (
	"regexp"
	"strconv"
)

// File reference extraction strategies, in fixed priority order. The
// generic form alone would double-match substrings already captured by
// the more specific Windows-path and stack-trace forms, so each
// strategy suppresses spans claimed by earlier ones.
var (
	// C:\Users\dev\src\main.py:100
	windowsPathPattern = regexp.MustCompile(`([A-Za-z]:[\\/][\w\\/.\-]+\.\w+):(\d+)(?::\d+)?`)

	// File "/app/main.py", line 42
	stackTracePattern = regexp.MustCompile(`(?i)File\s+"([^"]+)",\s+line\s+(\d+)`)

	// src/main.py:10 or ./relative/path.js:123:45 (column discarded)
	fileLinePattern = regexp.MustCompile(`((?:\.{0,2}/)?(?:[\w.\-]+/)*[\w\-]+\.\w+):(\d+)(?::\d+)?`)
)

// ResolveFileReferences extracts file:line references from text using
// the three strategies in priority order with overlap suppression.
// Within one strategy, matches are scanned left to right and any span
// overlapping an already-claimed span is skipped.
func ResolveFileReferences(text string) []FileReference {
	if text == "" {
		return nil
	}

	var refs []FileReference
	var claimed [][2]int

	overlaps := func(start, end int) bool {
		for _, span := range claimed {
			if start < span[1] && end > span[0] {
				return true
			}
		}
		return false
	}

	for _, p := range []*regexp.Regexp{windowsPathPattern, stackTracePattern, fileLinePattern} {
		for _, m := range p.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			if overlaps(start, end) {
				continue
			}

			file := text[m[2]:m[3]]
			line, err := strconv.Atoi(text[m[4]:m[5]])
			if err != nil {
				continue
			}

			refs = append(refs, FileReference{File: file, Line: line})
			claimed = append(claimed, [2]int{start, end})
		}
	}

	return refs
}
