// Package commands implements the logsift subcommands.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"logsift/internal/history"
	"logsift/pkg/analyzer"
	"logsift/pkg/cache"
	"logsift/pkg/config"
	"logsift/pkg/output"
	"logsift/pkg/patterns"
)

// ExitCode is set by commands to indicate the result: 0 clean, 1 errors
// detected. Runtime failures surface as errors and exit 2.
var ExitCode = 0

// app bundles the long-lived pieces every command needs.
type app struct {
	cfg     *config.Config
	catalog *patterns.Catalog
	cache   *cache.Manager
}

// newApp loads configuration and the pattern catalog. The built-in
// catalog must load; user pattern documents are merged best-effort.
func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	catalog, err := patterns.LoadBuiltin()
	if err != nil {
		return nil, fmt.Errorf("loading built-in patterns: %w", err)
	}
	if cfg.PatternDir != "" {
		if err := catalog.LoadUserDir(cfg.PatternDir); err != nil {
			return nil, fmt.Errorf("loading user patterns: %w", err)
		}
	}

	return &app{
		cfg:     cfg,
		catalog: catalog,
		cache:   cache.NewManager(cfg.CacheDir),
	}, nil
}

// newAnalyzer builds the analyzer, letting a flag override the
// configured context window when set.
func (a *app) newAnalyzer(contextLines int) *analyzer.Analyzer {
	if contextLines < 0 {
		contextLines = a.cfg.ContextLines
	}
	return analyzer.New(a.catalog, analyzer.WithContextLines(contextLines))
}

// openHistory opens the run-history store under the cache directory.
func (a *app) openHistory() (*history.Store, error) {
	return history.Open(filepath.Join(a.cfg.CacheDir, "history.db"))
}

// emit renders a report to stdout in the requested format.
func emit(report *output.Report, format string) error {
	formatter, err := output.New(format)
	if err != nil {
		return err
	}
	return formatter.Format(report, os.Stdout)
}
