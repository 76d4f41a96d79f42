// Package procwatch supplies snapshots of running process names and the
// substring-based presence check the monitor is built on.
package procwatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Source produces a refreshable snapshot of currently running process
// names. Implementations backed by platform APIs can be swapped without
// touching the monitor's state machine.
type Source interface {
	Refresh(ctx context.Context) ([]string, error)
}

// SystemSource is the production Source, backed by the OS process table.
type SystemSource struct{}

// NewSystemSource returns a Source that enumerates live processes.
func NewSystemSource() *SystemSource {
	return &SystemSource{}
}

// Refresh returns the names of all currently running processes.
// Individual processes that vanish mid-enumeration are skipped; only a
// failure to list the process table at all is an error.
func (s *SystemSource) Refresh(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh process list: %w", err)
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// PresentIn reports whether any running process name contains any target
// as a case-sensitive substring. An empty snapshot or an empty target
// set is never a match.
func PresentIn(names, targets []string) bool {
	if len(names) == 0 || len(targets) == 0 {
		return false
	}
	for _, name := range names {
		for _, target := range targets {
			if target == "" {
				continue
			}
			if strings.Contains(name, target) {
				return true
			}
		}
	}
	return false
}
