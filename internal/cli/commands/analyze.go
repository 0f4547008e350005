package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"logsift/internal/logger"
	"logsift/pkg/output"
	"logsift/pkg/webhook"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Config       string
	Format       string
	ContextLines int
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [log-file|latest|-]",
		Short: "Analyze a log file for errors and warnings",
		Long: `Analyze a log file against the pattern catalog.

The argument may be a file path, "latest" for the most recent captured
log, or "-" to read from stdin.

Exit codes:
  0 - No errors detected
  1 - Errors detected
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "Path to a logsift.yaml configuration file")
	cmd.Flags().StringVarP(&opts.Format, "format", "o", "auto", "Output format (auto|json|markdown|toon|plain)")
	cmd.Flags().IntVar(&opts.ContextLines, "context-lines", -1, "Context lines on each side of an issue")

	return cmd
}

func runAnalyze(ctx context.Context, target string, opts *AnalyzeOptions) error {
	a, err := newApp(opts.Config)
	if err != nil {
		return err
	}

	text, source, err := readTarget(a, target)
	if err != nil {
		return err
	}

	result := a.newAnalyzer(opts.ContextLines).Analyze(text)
	report := output.NewReport(result, output.Summary{LogFile: source})

	if err := emit(report, opts.Format); err != nil {
		return err
	}

	notifyWebhooks(ctx, a, report)

	if result.HasErrors() {
		ExitCode = 1
	}
	return nil
}

// readTarget resolves the analyze argument to log text.
func readTarget(a *app, target string) (text, source string, err error) {
	switch target {
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "", nil

	case "latest":
		path, err := a.cache.LatestLog("")
		if err != nil {
			return "", "", err
		}
		if path == "" {
			return "", "", fmt.Errorf("no cached logs found in %s", a.cache.Dir())
		}
		target = path
	}

	data, err := os.ReadFile(target) // #nosec G304 -- user-provided log path is expected
	if err != nil {
		return "", "", fmt.Errorf("reading log file: %w", err)
	}
	return string(data), target, nil
}

// notifyWebhooks sends the report to every configured endpoint whose
// trigger applies. Failures are logged, never fatal.
func notifyWebhooks(ctx context.Context, a *app, report *output.Report) {
	if len(a.cfg.Webhooks) == 0 {
		return
	}

	client := webhook.NewClient()
	for i := range a.cfg.Webhooks {
		wh := &a.cfg.Webhooks[i]
		if !webhook.ShouldSend(wh, report) {
			continue
		}
		resp := client.Send(ctx, report, wh)
		if !resp.Success() {
			logger.Warn().Err(resp.Error).Str("url", wh.URL).Msg("webhook delivery failed")
		}
	}
}
