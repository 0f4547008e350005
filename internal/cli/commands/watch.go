package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"logsift/internal/monitor"
	"logsift/pkg/output"
)

// WatchOptions holds command-line options for the watch command.
type WatchOptions struct {
	Config       string
	Format       string
	ContextLines int
	Interval     time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <log-file>",
		Short: "Re-analyze a log file as it grows",
		Long: `Watch a log file and re-run the analysis whenever it changes.

Each pass analyzes the full accumulated file; there is no incremental
analysis. Interrupt with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "Path to a logsift.yaml configuration file")
	cmd.Flags().StringVarP(&opts.Format, "format", "o", "plain", "Output format (json|markdown|toon|plain)")
	cmd.Flags().IntVar(&opts.ContextLines, "context-lines", -1, "Context lines on each side of an issue")
	cmd.Flags().DurationVar(&opts.Interval, "interval", time.Second, "Minimum delay between re-analyses")

	return cmd
}

func runWatch(ctx context.Context, path string, opts *WatchOptions) error {
	a, err := newApp(opts.Config)
	if err != nil {
		return err
	}

	formatter, err := output.New(opts.Format)
	if err != nil {
		return err
	}

	eng := a.newAnalyzer(opts.ContextLines)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := monitor.NewWatcher(path, opts.Interval)
	err = w.Watch(ctx, func(text string) {
		result := eng.Analyze(text)
		report := output.NewReport(result, output.Summary{LogFile: path})

		fmt.Printf("--- %s (%s)\n", path, time.Now().Format(time.TimeOnly))
		if ferr := formatter.Format(report, os.Stdout); ferr != nil {
			fmt.Fprintf(os.Stderr, "formatting failed: %v\n", ferr)
		}

		if result.HasErrors() {
			ExitCode = 1
		}
	})

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
