package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Formatter renders a report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(report *Report, w io.Writer) error

	// Name returns the format name.
	Name() string
}

// New returns the formatter for a format name. "auto" picks markdown
// when stdout is a terminal and json otherwise.
func New(format string) (Formatter, error) {
	switch format {
	case "auto":
		if isatty.IsTerminal(os.Stdout.Fd()) {
			return &MarkdownFormatter{}, nil
		}
		return &JSONFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "markdown":
		return &MarkdownFormatter{}, nil
	case "toon":
		return &ToonFormatter{}, nil
	case "plain":
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (auto|json|markdown|toon|plain)", format)
	}
}
