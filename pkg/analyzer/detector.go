package analyzer

import (
	"logsift/pkg/parser"
	"logsift/pkg/patterns"
)

// DetectIssues runs a single pass over the entries and returns detected
// errors and warnings. Two detection tiers apply per entry, and a given
// line contributes to at most one issue:
//
//  1. Entries with an explicit ERROR or WARNING/WARN level are claimed
//     immediately and the pattern scan is skipped for them. For
//     json/structured entries the level is authoritative source data;
//     for plain entries a non-default level can only come from a strict
//     leading marker, which carries the same authority.
//  2. Everything else is tested against every catalog pattern in
//     catalog order; the first match claims the line. Free text
//     requires inference, which stays configurable through the catalog
//     rather than hard-coded.
//
// IDs are sequential per severity stream, 1-based, in detection order.
func DetectIssues(entries []parser.LogEntry, catalog *patterns.Catalog) (errors, warnings []Issue) {
	allPatterns := catalog.Flatten()
	claimed := make(map[int]bool, len(entries))

	errorID := 1
	warningID := 1

	for i := range entries {
		entry := &entries[i]
		if claimed[entry.LineNumber] {
			continue
		}

		switch entry.Level {
		case "ERROR":
			errors = append(errors, buildIssue(entry, SeverityError, errorID, nil))
			errorID++
			claimed[entry.LineNumber] = true
			continue
		case "WARNING", "WARN":
			warnings = append(warnings, buildIssue(entry, SeverityWarning, warningID, nil))
			warningID++
			claimed[entry.LineNumber] = true
			continue
		}

		for j := range allPatterns {
			p := &allPatterns[j]
			if !p.Matches(entry.Message) {
				continue
			}

			// First matching pattern claims the line, whatever its
			// severity; info-level patterns suppress further matching
			// without emitting an issue.
			switch p.Severity {
			case patterns.SeverityError:
				errors = append(errors, buildIssue(entry, SeverityError, errorID, p))
				errorID++
			case patterns.SeverityWarning:
				warnings = append(warnings, buildIssue(entry, SeverityWarning, warningID, p))
				warningID++
			}
			claimed[entry.LineNumber] = true
			break
		}
	}

	return errors, warnings
}

// buildIssue assembles an Issue from an entry, attaching rule
// provenance when the issue came from a pattern match.
func buildIssue(entry *parser.LogEntry, severity string, id int, p *patterns.Pattern) Issue {
	issue := Issue{
		ID:        id,
		Severity:  severity,
		Message:   entry.Message,
		LineInLog: entry.LineNumber,
		Timestamp: entry.Timestamp,
		Format:    entry.Format,
	}

	if p != nil {
		issue.PatternName = p.Name
		issue.Description = p.Description
		issue.Tags = p.Tags
		issue.Suggestion = p.Suggestion
		issue.PatternContextLinesAfter = p.ContextLinesAfter
	}

	return issue
}
