package analyzer

import (
	"regexp"
	"strings"

	"logsift/pkg/parser"
)

// hookLinePattern matches the visual convention used by pre-commit and
// similar runners: a name, a run of three or more dots, and a terminal
// status word.
var hookLinePattern = regexp.MustCompile(`^(.+?)\.{3,}(Passed|Failed)\s*$`)

// DetectHooks scans entry messages for hook result lines. The first
// occurrence of a name determines its bucket; later occurrences of the
// same name are ignored. This recognizes a structural convention, not a
// content rule, so it is independent of the pattern catalog.
func DetectHooks(entries []parser.LogEntry) HookResults {
	results := HookResults{Passed: []string{}, Failed: []string{}}
	seen := make(map[string]bool)

	for i := range entries {
		m := hookLinePattern.FindStringSubmatch(entries[i].Message)
		if m == nil {
			continue
		}

		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		if m[2] == "Passed" {
			results.Passed = append(results.Passed, name)
		} else {
			results.Failed = append(results.Failed, name)
		}
	}

	return results
}
