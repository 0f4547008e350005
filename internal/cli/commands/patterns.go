package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"logsift/pkg/patterns"
)

// NewPatternsCommand creates the patterns command group.
func NewPatternsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect and validate the pattern catalog",
	}

	cmd.AddCommand(newPatternsListCommand())
	cmd.AddCommand(newPatternsShowCommand())
	cmd.AddCommand(newPatternsValidateCommand())

	return cmd
}

func newPatternsListCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded pattern categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tPATTERNS")
			for _, category := range a.catalog.Categories() {
				fmt.Fprintf(w, "%s\t%d\n", category, len(a.catalog.ByCategory(category)))
			}
			fmt.Fprintf(w, "total\t%d\n", a.catalog.Len())
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a logsift.yaml configuration file")
	return cmd
}

func newPatternsShowCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <category>",
		Short: "Show the patterns in one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}

			category := args[0]
			list := a.catalog.ByCategory(category)
			if list == nil {
				return fmt.Errorf("unknown category %q", category)
			}

			for i := range list {
				p := &list[i]
				fmt.Printf("%s (%s)\n", p.Name, p.Severity)
				fmt.Printf("  regex: %s\n", p.Regex)
				fmt.Printf("  %s\n", p.Description)
				if p.Suggestion != "" {
					fmt.Printf("  suggestion: %s\n", p.Suggestion)
				}
				if p.ContextLinesAfter > 0 {
					fmt.Printf("  context_lines_after: %d\n", p.ContextLinesAfter)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a logsift.yaml configuration file")
	return cmd
}

func newPatternsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a custom pattern file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := patterns.ValidateFile(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Printf("%s: OK (%d patterns)\n", args[0], len(loaded))
			return nil
		},
	}
}
