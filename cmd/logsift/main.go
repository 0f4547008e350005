// logsift - log analysis for automated error diagnosis.
//
// logsift captures command output, matches it against a library of
// known failure patterns, and emits structured findings sized for LLM
// agents and CI post-processors.
package main

import (
	"os"

	"logsift/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
