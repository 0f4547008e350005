package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"logsift/internal/logger"
)

// NewLogsCommand creates the logs command group.
func NewLogsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Manage cached log files and run history",
	}

	cmd.AddCommand(newLogsListCommand())
	cmd.AddCommand(newLogsCleanCommand())
	cmd.AddCommand(newLogsLatestCommand())

	return cmd
}

func newLogsListCommand() *cobra.Command {
	var (
		configPath string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs from the history store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}

			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("no recorded runs")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tNAME\tCONTEXT\tEXIT\tERRORS\tWARNINGS\tLOG")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					run.StartedAt.Format(time.DateTime), run.Name, run.Context,
					run.ExitCode, run.Errors, run.Warnings, run.LogPath)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a logsift.yaml configuration file")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}

func newLogsCleanCommand() *cobra.Command {
	var (
		configPath string
		days       int
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete cached logs older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}

			retention := days
			if retention <= 0 {
				retention = a.cfg.RetentionDays
			}

			deleted, paths, err := a.cache.CleanOldLogs(retention, dryRun)
			if err != nil {
				return err
			}

			for _, path := range paths {
				fmt.Println(path)
			}
			if dryRun {
				fmt.Printf("would delete %d log file(s) older than %d days\n", deleted, retention)
				return nil
			}
			fmt.Printf("deleted %d log file(s) older than %d days\n", deleted, retention)

			// Keep the history store aligned with the cache.
			if store, herr := a.openHistory(); herr == nil {
				defer store.Close()
				cutoff := time.Now().AddDate(0, 0, -retention)
				if _, perr := store.Prune(cutoff); perr != nil {
					logger.Warn().Err(perr).Msg("pruning run history failed")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a logsift.yaml configuration file")
	cmd.Flags().IntVar(&days, "days", 0, "Override the configured retention period")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be deleted without deleting")
	return cmd
}

func newLogsLatestCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "latest [name]",
		Short: "Print the path of the most recent cached log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			path, err := a.cache.LatestLog(name)
			if err != nil {
				return err
			}
			if path == "" {
				return fmt.Errorf("no cached logs found in %s", a.cache.Dir())
			}

			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a logsift.yaml configuration file")
	return cmd
}
