package logbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ResolvePath normalizes a configured log path. A path that denotes an
// existing directory, or that ends in a path separator, gets the default
// log file name appended instead of being rejected later by the writer.
func ResolvePath(path string) string {
	if strings.HasSuffix(path, string(os.PathSeparator)) || strings.HasSuffix(path, "/") {
		return filepath.Join(path, DefaultFileName)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultFileName)
	}
	return path
}

// Append writes one work-interval record to the log file at path,
// creating the file if needed. The line carries both timestamps and a
// derived duration in minutes; readers recompute the duration from the
// timestamps and never trust the stored value.
func Append(path string, start, end time.Time) error {
	path = ResolvePath(path)

	minutes := end.Sub(start).Seconds() / 60.0
	line := fmt.Sprintf("[%s ~ %s] You worked for %.2f minutes \n",
		start.Format(TimeLayout),
		end.Format(TimeLayout),
		minutes)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log file %s: %w", path, err)
	}
	return nil
}
