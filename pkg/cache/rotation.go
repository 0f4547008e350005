package cache

import (
	"os"
	"time"
)

// CleanOldLogs deletes cached log files (and their metadata sidecars)
// older than the retention period. Returns the number of log files
// deleted. Files that cannot be deleted are skipped.
func (m *Manager) CleanOldLogs(retentionDays int, dryRun bool) (int, []string, error) {
	logs, err := m.ListLogs()
	if err != nil {
		return 0, nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	deleted := 0
	var paths []string
	for _, path := range logs {
		if !modTime(path).Before(cutoff) {
			continue
		}

		paths = append(paths, path)
		if dryRun {
			deleted++
			continue
		}

		if err := os.Remove(path); err != nil {
			continue
		}
		_ = os.Remove(path + metadataSuffix)
		deleted++
	}

	return deleted, paths, nil
}
