package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// logFilePrefix names the files SetupLogFile writes; cleanup only ever
// touches files matching it.
const logFilePrefix = "boards-"

// SetupLogFile opens a fresh timestamped log file under dir and prunes the
// oldest ones past maxFiles. The caller owns the returned handle.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := filepath.Join(dir, fmt.Sprintf("%s%s.log",
		logFilePrefix, time.Now().Format("2006-01-02T15-04-05")))

	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	// Pruning failure is not fatal; the new file is already usable.
	if err := pruneOldLogs(dir, maxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to prune old logs: %v\n", err)
	}

	return f, nil
}

// pruneOldLogs deletes the oldest log files once the count exceeds maxFiles.
// The timestamp in the name sorts chronologically, so lexical order is age
// order.
func pruneOldLogs(dir string, maxFiles int) error {
	files, err := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	if err != nil {
		return err
	}
	if len(files) <= maxFiles {
		return nil
	}

	sort.Strings(files)
	for _, old := range files[:len(files)-maxFiles] {
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("remove %s: %w", old, err)
		}
	}

	return nil
}
