package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"logsift/pkg/analyzer"
	"logsift/pkg/parser"
)

func analyzerEntries(messages ...string) []parser.LogEntry {
	entries := make([]parser.LogEntry, len(messages))
	for i, msg := range messages {
		entries[i] = parser.LogEntry{
			LineNumber: i + 10,
			Format:     parser.FormatPlain,
			Level:      parser.DefaultLevel,
			Message:    msg,
		}
	}
	return entries
}

func sampleReport() *Report {
	result := &analyzer.AnalysisResult{
		Errors: []analyzer.Issue{
			{
				ID:          1,
				Severity:    analyzer.SeverityError,
				Message:     "ModuleNotFoundError: No module named 'yaml'",
				LineInLog:   3,
				PatternName: "module_not_found",
				Description: "Python module import failure",
				Tags:        []string{"python", "import"},
				Suggestion:  "pip install the missing module",
				FileReferences: []analyzer.FileReference{
					{File: "src/main.py", Line: 3},
				},
			},
		},
		Warnings: []analyzer.Issue{
			{ID: 1, Severity: analyzer.SeverityWarning, Message: "cache miss", LineInLog: 5},
		},
		Hooks: analyzer.HookResults{
			Passed: []string{"check yaml"},
			Failed: []string{"ruff"},
		},
		Stats: analyzer.Stats{TotalErrors: 1, TotalWarnings: 1},
	}

	return NewReport(result, Summary{ExitCode: 1, Command: "make test"})
}

func TestNew(t *testing.T) {
	tests := []struct {
		format   string
		wantName string
		wantErr  bool
	}{
		{"json", "json", false},
		{"markdown", "markdown", false},
		{"toon", "toon", false},
		{"plain", "plain", false},
		{"yaml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := New(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("New(%q) expected error", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) error: %v", tt.format, err)
			}
			if f.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", f.Name(), tt.wantName)
			}
		})
	}
}

func TestNewAuto(t *testing.T) {
	// Under `go test` stdout is normally not a terminal, but either
	// branch must return a working formatter.
	f, err := New("auto")
	if err != nil {
		t.Fatalf("New(auto) error: %v", err)
	}
	if f.Name() != "json" && f.Name() != "markdown" {
		t.Errorf("auto picked %q, want json or markdown", f.Name())
	}
}

func TestNewReportStatus(t *testing.T) {
	clean := &analyzer.AnalysisResult{}

	tests := []struct {
		name    string
		result  *analyzer.AnalysisResult
		summary Summary
		want    string
	}{
		{"clean run", clean, Summary{}, "passed"},
		{"nonzero exit", clean, Summary{ExitCode: 2}, "failed"},
		{"errors found", &analyzer.AnalysisResult{Stats: analyzer.Stats{TotalErrors: 1}}, Summary{}, "failed"},
		{"explicit status kept", clean, Summary{Status: "failed"}, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := NewReport(tt.result, tt.summary)
			if report.Summary.Status != tt.want {
				t.Errorf("Status = %q, want %q", report.Summary.Status, tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	var decoded struct {
		Summary Summary `json:"summary"`
		Errors  []struct {
			ID          int    `json:"id"`
			PatternName string `json:"pattern_name"`
		} `json:"errors"`
		Stats analyzer.Stats `json:"stats"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Summary.Status != "failed" {
		t.Errorf("summary.status = %q, want failed", decoded.Summary.Status)
	}
	if len(decoded.Errors) != 1 || decoded.Errors[0].PatternName != "module_not_found" {
		t.Errorf("unexpected errors: %+v", decoded.Errors)
	}
	if decoded.Stats.TotalErrors != 1 {
		t.Errorf("stats.total_errors = %d, want 1", decoded.Stats.TotalErrors)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownFormatter{}).Format(sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Log Analysis Results",
		"**Errors:** 1 | **Warnings:** 1",
		"### ERROR #1 (Line 3)",
		"`module_not_found`",
		"`src/main.py:3`",
		"### WARNING #1 (Line 5)",
		"FAILED: ruff",
		"passed: check yaml",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestMarkdownFormatterClean(t *testing.T) {
	var buf bytes.Buffer
	report := NewReport(&analyzer.AnalysisResult{}, Summary{})
	if err := (&MarkdownFormatter{}).Format(report, &buf); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if !strings.Contains(buf.String(), "clean - no errors or warnings found") {
		t.Errorf("clean report output: %q", buf.String())
	}
}

func TestToonFormatterStripsMetadata(t *testing.T) {
	var buf bytes.Buffer
	if err := (&ToonFormatter{}).Format(sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"summary: status=failed exit_code=1",
		"stats: errors=1 warnings=1",
		"hooks.failed[1]: ruff",
		"file=src/main.py file_line=3",
		"suggestion: pip install the missing module",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("toon output missing %q", want)
		}
	}

	// Pattern metadata is stripped from the compact form.
	for _, banned := range []string{"module_not_found", "Python module import failure", "python,import"} {
		if strings.Contains(out, banned) {
			t.Errorf("toon output should not contain %q", banned)
		}
	}
}

func TestToonFormatterContextOnlyForExtendedWindows(t *testing.T) {
	withOverride := sampleReport()
	withOverride.Errors[0].PatternContextLinesAfter = 3
	withOverride.Errors[0].ContextAfter = analyzerEntries("detail one", "detail two")

	var buf bytes.Buffer
	if err := (&ToonFormatter{}).Format(withOverride, &buf); err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "context: detail one") || !strings.Contains(out, "context: detail two") {
		t.Errorf("toon output missing extended context lines:\n%s", out)
	}

	withoutOverride := sampleReport()
	withoutOverride.Errors[0].ContextAfter = analyzerEntries("detail one")

	buf.Reset()
	if err := (&ToonFormatter{}).Format(withoutOverride, &buf); err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if strings.Contains(buf.String(), "context:") {
		t.Error("toon output should omit context without a pattern override")
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextFormatter{}).Format(sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"logsift: 1 errors, 1 warnings (status: failed)",
		"error #1 line 3: ModuleNotFoundError",
		"at src/main.py:3",
		"hook failed: ruff",
		"hook passed: check yaml",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plain output missing %q", want)
		}
	}
}
