package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"logsift/internal/history"
	"logsift/internal/logger"
	"logsift/internal/monitor"
	"logsift/pkg/cache"
	"logsift/pkg/output"
)

// RunOptions holds command-line options for the run command.
type RunOptions struct {
	Config       string
	Format       string
	Name         string
	Context      string
	ContextLines int
	Stream       bool
	NoCache      bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a command and analyze its output",
		Long: `Run a command, capture its combined stdout/stderr into the cache,
and analyze the captured output when it exits.

Exit codes:
  0 - Command succeeded and no errors detected
  1 - Command failed or errors detected
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "Path to a logsift.yaml configuration file")
	cmd.Flags().StringVarP(&opts.Format, "format", "o", "auto", "Output format (auto|json|markdown|toon|plain)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Name for this run (default: the command name)")
	cmd.Flags().StringVar(&opts.Context, "context", cache.DefaultContext, "Cache context for grouping related runs")
	cmd.Flags().IntVar(&opts.ContextLines, "context-lines", -1, "Context lines on each side of an issue")
	cmd.Flags().BoolVar(&opts.Stream, "stream", false, "Mirror command output to the terminal while it runs")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Skip writing the captured log and run history")

	return cmd
}

func runRun(ctx context.Context, command []string, opts *RunOptions) error {
	a, err := newApp(opts.Config)
	if err != nil {
		return err
	}

	name := opts.Name
	if name == "" {
		name = command[0]
	}

	mon := monitor.NewProcessMonitor(command)
	if opts.Stream {
		mon.Tee = os.Stderr
	}

	var logPath string
	if !opts.NoCache {
		logPath, err = a.cache.CreateLogPath(name, opts.Context)
		if err != nil {
			return err
		}
		mon.LogFile = logPath
	}

	procResult, err := mon.Run(ctx)
	if err != nil && procResult == nil {
		return err
	}
	if err != nil {
		// Command could not start; still report what we captured.
		logger.Warn().Err(err).Msg("command did not run cleanly")
	}

	result := a.newAnalyzer(opts.ContextLines).Analyze(procResult.Output)
	report := output.NewReport(result, output.Summary{
		ExitCode: procResult.ExitCode,
		Command:  strings.Join(command, " "),
		LogFile:  logPath,
	})

	if !opts.NoCache {
		recordRun(a, name, opts.Context, report, procResult, logPath)
	}

	if err := emit(report, opts.Format); err != nil {
		return err
	}

	notifyWebhooks(ctx, a, report)

	if procResult.ExitCode != 0 || result.HasErrors() {
		ExitCode = 1
	}
	return nil
}

// recordRun persists the cache metadata sidecar and the history row.
// Both are best-effort: a broken cache never hides analysis results.
func recordRun(a *app, name, context string, report *output.Report, proc *monitor.ProcessResult, logPath string) {
	if logPath != "" {
		err := a.cache.SaveMetadata(logPath, cache.Metadata{
			Name:       name,
			Context:    context,
			Command:    report.Summary.Command,
			ExitCode:   proc.ExitCode,
			StartedAt:  proc.StartedAt,
			FinishedAt: proc.EndedAt,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("saving cache metadata failed")
		}
	}

	store, err := a.openHistory()
	if err != nil {
		logger.Warn().Err(err).Msg("opening run history failed")
		return
	}
	defer store.Close()

	_, err = store.Record(&history.Run{
		Name:      name,
		Context:   context,
		Command:   report.Summary.Command,
		LogPath:   logPath,
		ExitCode:  proc.ExitCode,
		Errors:    report.Stats.TotalErrors,
		Warnings:  report.Stats.TotalWarnings,
		StartedAt: proc.StartedAt,
		EndedAt:   proc.EndedAt,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("recording run history failed")
	}
}
