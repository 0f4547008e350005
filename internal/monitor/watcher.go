package monitor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"logsift/internal/logger"
)

// Watcher follows a log file and invokes a callback with the full
// accumulated text whenever it grows. The analysis core performs no
// incremental work, so every change triggers a full re-read and
// re-analysis of the file.
type Watcher struct {
	path     string
	debounce time.Duration
}

// NewWatcher creates a watcher for path. Change bursts are coalesced
// over the debounce interval.
func NewWatcher(path string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &Watcher{path: path, debounce: debounce}
}

// Watch blocks until the context is cancelled, calling onChange with
// the file's full contents after each (debounced) modification. The
// callback also fires once at startup for the initial contents.
func (w *Watcher) Watch(ctx context.Context, onChange func(text string)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.path); err != nil {
		return fmt.Errorf("watching %s: %w", w.path, err)
	}

	if text, err := w.read(); err == nil {
		onChange(text)
	} else {
		return err
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Coalesce bursts of writes into one re-analysis.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			text, err := w.read()
			if err != nil {
				logger.Warn().Err(err).Str("file", w.path).Msg("re-reading watched file failed")
				continue
			}
			onChange(text)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) read() (string, error) {
	data, err := os.ReadFile(w.path) // #nosec G304 -- user-provided watch path is expected
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", w.path, err)
	}
	return string(data), nil
}
