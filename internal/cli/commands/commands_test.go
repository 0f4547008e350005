package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fnErr := fn()
	w.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data), fnErr
}

func resetExitCode(t *testing.T) {
	t.Helper()
	prev := ExitCode
	ExitCode = 0
	t.Cleanup(func() { ExitCode = prev })
}

func useTempDirs(t *testing.T) {
	t.Helper()
	t.Setenv("LOGSIFT_CACHE_DIR", t.TempDir())
	t.Setenv("LOGSIFT_PATTERN_DIR", filepath.Join(t.TempDir(), "patterns"))
}

func TestAnalyzeCommand(t *testing.T) {
	useTempDirs(t)
	resetExitCode(t)

	logPath := filepath.Join(t.TempDir(), "build.log")
	text := "INFO: start\nERROR: db down\nINFO: retry\n"
	if err := os.WriteFile(logPath, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{logPath, "--format", "json"})

	out, err := captureStdout(t, cmd.Execute)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var report struct {
		Summary struct {
			Status  string `json:"status"`
			LogFile string `json:"log_file"`
		} `json:"summary"`
		Stats struct {
			TotalErrors int `json:"total_errors"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	if report.Summary.Status != "failed" {
		t.Errorf("status = %q, want failed", report.Summary.Status)
	}
	if report.Summary.LogFile != logPath {
		t.Errorf("log_file = %q, want %q", report.Summary.LogFile, logPath)
	}
	if report.Stats.TotalErrors != 1 {
		t.Errorf("total_errors = %d, want 1", report.Stats.TotalErrors)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
}

func TestAnalyzeCommandCleanLog(t *testing.T) {
	useTempDirs(t)
	resetExitCode(t)

	logPath := filepath.Join(t.TempDir(), "clean.log")
	if err := os.WriteFile(logPath, []byte("INFO: all good\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{logPath, "--format", "plain"})

	out, err := captureStdout(t, cmd.Execute)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if !strings.Contains(out, "0 errors, 0 warnings") {
		t.Errorf("unexpected output: %q", out)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}
}

func TestAnalyzeCommandMissingFile(t *testing.T) {
	useTempDirs(t)
	resetExitCode(t)

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "absent.log"), "--format", "plain"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if _, err := captureStdout(t, cmd.Execute); err == nil {
		t.Error("expected error for missing log file")
	}
}

func TestAnalyzeCommandLatestWithEmptyCache(t *testing.T) {
	useTempDirs(t)
	resetExitCode(t)

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{"latest", "--format", "plain"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if _, err := captureStdout(t, cmd.Execute); err == nil {
		t.Error("expected error when no cached logs exist")
	}
}

func TestAnalyzeCommandSendsWebhook(t *testing.T) {
	resetExitCode(t)

	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "logsift.yaml")
	configDoc := fmt.Sprintf(`
cache_dir: %s
webhooks:
  - name: test
    url: %s
    trigger: always
`, filepath.Join(dir, "cache"), server.URL)
	if err := os.WriteFile(configPath, []byte(configDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	logPath := filepath.Join(dir, "clean.log")
	if err := os.WriteFile(logPath, []byte("INFO: fine\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{logPath, "--config", configPath, "--format", "plain"})

	if _, err := captureStdout(t, cmd.Execute); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if received == nil {
		t.Fatal("webhook endpoint never received a payload")
	}
	if _, ok := received["summary"]; !ok {
		t.Error("webhook payload missing summary")
	}
}

func TestRunCommand(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv("LOGSIFT_CACHE_DIR", cacheDir)
	t.Setenv("LOGSIFT_PATTERN_DIR", filepath.Join(t.TempDir(), "patterns"))
	resetExitCode(t)

	cmd := NewRunCommand()
	cmd.SetArgs([]string{"--format", "json", "--name", "demo", "--", "sh", "-c", "echo 'ERROR: kaboom'; exit 2"})

	out, err := captureStdout(t, cmd.Execute)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var report struct {
		Summary struct {
			Status   string `json:"status"`
			ExitCode int    `json:"exit_code"`
			Command  string `json:"command"`
		} `json:"summary"`
		Stats struct {
			TotalErrors int `json:"total_errors"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	if report.Summary.Status != "failed" || report.Summary.ExitCode != 2 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if report.Stats.TotalErrors != 1 {
		t.Errorf("total_errors = %d, want 1", report.Stats.TotalErrors)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}

	// The captured log and its metadata sidecar land in the cache.
	logs, err := filepath.Glob(filepath.Join(cacheDir, "default", "demo-*.log"))
	if err != nil || len(logs) != 1 {
		t.Fatalf("cached logs = %v (err %v), want 1", logs, err)
	}
	if _, err := os.Stat(logs[0] + ".meta.json"); err != nil {
		t.Errorf("metadata sidecar missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "history.db")); err != nil {
		t.Errorf("history database missing: %v", err)
	}
}

func TestRunCommandNoCache(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv("LOGSIFT_CACHE_DIR", cacheDir)
	t.Setenv("LOGSIFT_PATTERN_DIR", filepath.Join(t.TempDir(), "patterns"))
	resetExitCode(t)

	cmd := NewRunCommand()
	cmd.SetArgs([]string{"--format", "plain", "--no-cache", "--", "sh", "-c", "echo fine"})

	out, err := captureStdout(t, cmd.Execute)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(out, "0 errors, 0 warnings") {
		t.Errorf("unexpected output: %q", out)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}

	logs, _ := filepath.Glob(filepath.Join(cacheDir, "*", "*.log"))
	if len(logs) != 0 {
		t.Errorf("no-cache run still wrote logs: %v", logs)
	}
}

func TestPatternsListCommand(t *testing.T) {
	useTempDirs(t)

	cmd := NewPatternsCommand()
	cmd.SetArgs([]string{"list"})

	out, err := captureStdout(t, cmd.Execute)
	if err != nil {
		t.Fatalf("patterns list failed: %v", err)
	}

	for _, want := range []string{"CATEGORY", "common", "pre-commit", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPatternsShowCommand(t *testing.T) {
	useTempDirs(t)

	cmd := NewPatternsCommand()
	cmd.SetArgs([]string{"show", "shell"})

	out, err := captureStdout(t, cmd.Execute)
	if err != nil {
		t.Fatalf("patterns show failed: %v", err)
	}
	if !strings.Contains(out, "bash_command_not_found") {
		t.Errorf("output missing shell patterns:\n%s", out)
	}
}

func TestPatternsShowUnknownCategory(t *testing.T) {
	useTempDirs(t)

	cmd := NewPatternsCommand()
	cmd.SetArgs([]string{"show", "nonexistent"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if _, err := captureStdout(t, cmd.Execute); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestPatternsValidateCommand(t *testing.T) {
	dir := t.TempDir()

	goodPath := filepath.Join(dir, "good.yaml")
	good := `
patterns:
  - name: custom
    regex: "BOOM"
    severity: error
    description: d
    tags: [x]
`
	if err := os.WriteFile(goodPath, []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := NewPatternsCommand()
	cmd.SetArgs([]string{"validate", goodPath})
	out, err := captureStdout(t, cmd.Execute)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "OK (1 patterns)") {
		t.Errorf("unexpected output: %q", out)
	}

	badPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("patterns: []"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd = NewPatternsCommand()
	cmd.SetArgs([]string{"validate", badPath})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if _, err := captureStdout(t, cmd.Execute); err == nil {
		t.Error("expected error for invalid pattern file")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()
	cmd.SetArgs(nil)

	out, err := captureStdout(t, cmd.Execute)
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "logsift") {
		t.Errorf("unexpected output: %q", out)
	}
}
