// Package cache manages the on-disk layout for captured logs: one
// subdirectory per context, timestamped log files, and JSON metadata
// sidecars.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultContext groups logs that were captured without an explicit
// context name.
const DefaultContext = "default"

const metadataSuffix = ".meta.json"

// Metadata describes one captured log file.
type Metadata struct {
	Name       string    `json:"name"`
	Context    string    `json:"context"`
	Command    string    `json:"command,omitempty"`
	ExitCode   int       `json:"exit_code"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Manager creates, locates, and describes cached log files.
type Manager struct {
	dir string
}

// NewManager creates a Manager rooted at dir.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Dir returns the cache root.
func (m *Manager) Dir() string {
	return m.dir
}

// CreateLogPath builds the path for a new log file and ensures its
// directory exists. Names are sanitized so arbitrary command names stay
// inside the cache tree.
func (m *Manager) CreateLogPath(name, context string) (string, error) {
	if context == "" {
		context = DefaultContext
	}

	dir := filepath.Join(m.dir, sanitize(context))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%s.log", sanitize(name), time.Now().Format("20060102-150405"))
	return filepath.Join(dir, filename), nil
}

// ListLogs returns every cached log file, newest first.
func (m *Manager) ListLogs() ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(m.dir, "**", "*.log"), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing cached logs: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})
	return matches, nil
}

// LatestLog returns the most recently modified cached log, optionally
// restricted to logs whose filename starts with name. Returns an empty
// string when nothing matches.
func (m *Manager) LatestLog(name string) (string, error) {
	logs, err := m.ListLogs()
	if err != nil {
		return "", err
	}

	for _, path := range logs {
		if name == "" || strings.HasPrefix(filepath.Base(path), sanitize(name)+"-") {
			return path, nil
		}
	}
	return "", nil
}

// SaveMetadata writes the sidecar metadata file for a log.
func (m *Manager) SaveMetadata(logPath string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(logPath+metadataSuffix, data, 0o644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// LoadMetadata reads the sidecar metadata for a log. Returns nil with
// no error when the sidecar does not exist.
func (m *Manager) LoadMetadata(logPath string) (*Metadata, error) {
	data, err := os.ReadFile(logPath + metadataSuffix) // #nosec G304 -- path derives from the cache listing
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}
	return &meta, nil
}

func sanitize(name string) string {
	if name == "" {
		return "log"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
