// Package monitor captures command output and follows growing log
// files, feeding both into the analysis core.
package monitor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// ProcessResult holds a monitored command's captured output.
type ProcessResult struct {
	// Output is the combined stdout/stderr text.
	Output string

	// ExitCode is the command's exit code; -1 if it never started.
	ExitCode int

	StartedAt time.Time
	EndedAt   time.Time
}

// ProcessMonitor runs a command and captures its combined output.
type ProcessMonitor struct {
	command []string

	// Tee mirrors captured output to this writer as it arrives
	// (stream mode). Nil disables mirroring.
	Tee io.Writer

	// LogFile receives a copy of the captured output. Empty disables
	// the copy.
	LogFile string
}

// NewProcessMonitor creates a monitor for the given command line.
func NewProcessMonitor(command []string) *ProcessMonitor {
	return &ProcessMonitor{command: command}
}

// Run executes the command and returns its captured output. A non-zero
// exit is reported through ExitCode, not as an error; errors mean the
// command could not be run at all.
func (m *ProcessMonitor) Run(ctx context.Context) (*ProcessResult, error) {
	if len(m.command) == 0 {
		return nil, errors.New("no command to monitor")
	}

	result := &ProcessResult{StartedAt: time.Now()}

	var buf bytes.Buffer
	writers := []io.Writer{&buf}
	if m.Tee != nil {
		writers = append(writers, m.Tee)
	}

	var logFile *os.File
	if m.LogFile != "" {
		f, err := os.OpenFile(m.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) // #nosec G304 -- cache-managed path
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		logFile = f
		defer logFile.Close()
		writers = append(writers, logFile)
	}

	sink := io.MultiWriter(writers...)

	cmd := exec.CommandContext(ctx, m.command[0], m.command[1:]...) // #nosec G204 -- monitoring arbitrary user commands is the point
	cmd.Stdout = sink
	cmd.Stderr = sink
	cmd.Stdin = os.Stdin

	err := cmd.Run()
	result.EndedAt = time.Now()
	result.Output = buf.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
		return result, fmt.Errorf("running %s: %w", m.command[0], err)
	}

	return result, nil
}
