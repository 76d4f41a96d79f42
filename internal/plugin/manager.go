// Package plugin lets external scripts react to monitor lifecycle
// events without recompiling the binary. Each hook invocation delivers a
// JSON context message to one subprocess per plugin; plugins succeed or
// fail independently and never affect the monitor loop.
package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Emil-Stampfly-He/rest-reminder/internal/ui"
)

// Hook names dispatched by the monitor.
const (
	HookInit          = "on_init"
	HookWorkStart     = "on_work_start"
	HookBreakReminder = "on_break_reminder"
)

// ignoreSign marks a plugin file that should be discovered but not run.
const ignoreSign = "_SHOULD_IGNORE = 1"

// Context is the versioned message delivered to every hook handler.
type Context struct {
	Hook         string `json:"hook"`
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
	WorkDuration uint64 `json:"work_duration"`
}

// NewContext builds a hook context stamped with the current local time.
func NewContext(message string, workDuration uint64) Context {
	return Context{
		Message:      message,
		Timestamp:    time.Now().Format("2006-01-02 15:04:05"),
		WorkDuration: workDuration,
	}
}

// Script is one discovered plugin file.
type Script struct {
	Name string
	Path string
}

// Manager discovers plugin scripts in a directory and dispatches hooks
// to them.
type Manager struct {
	interpreter string
	timeout     time.Duration
	activated   []Script
	ignored     []Script
}

// NewManager returns a Manager that runs plugins with python3 and a
// 10-second per-invocation budget.
func NewManager() *Manager {
	return &Manager{
		interpreter: "python3",
		timeout:     10 * time.Second,
	}
}

// Load scans dir for .py plugin files. Files containing the ignore sign
// are registered but never dispatched to. A missing directory is not an
// error; the monitor runs fine with zero plugins.
func (m *Manager) Load(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		ui.Warnf("Plugin directory not found: %s", dir)
		return nil
	}

	ui.Successf("Loading plugins from: %s", dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".py" {
			return err
		}
		code, readErr := os.ReadFile(path)
		if readErr != nil {
			ui.Alertf("  ✗ Failed to load: %s - %v", path, readErr)
			return nil
		}
		script := Script{
			Name: strings.TrimSuffix(filepath.Base(path), ".py"),
			Path: path,
		}
		if bytes.Contains(code, []byte(ignoreSign)) {
			m.ignored = append(m.ignored, script)
		} else {
			m.activated = append(m.activated, script)
		}
		ui.Successf("  ✓ Loaded plugin: %s", script.Name)
		return nil
	})
	if err != nil {
		return err
	}

	ui.Successf("Loaded %d plugin(s) successfully. %d plugin(s) ignored.",
		len(m.activated), len(m.ignored))
	return nil
}

// Dispatch invokes hook on every activated plugin, one subprocess each,
// feeding the JSON context on stdin and the hook name as the first
// argument. Failures are reported and absorbed.
func (m *Manager) Dispatch(hook string, hookCtx Context) {
	if len(m.activated) == 0 {
		return
	}
	hookCtx.Hook = hook

	ui.Infof("Triggering hook: %s for %d plugin(s)", hook, len(m.activated))
	payload, err := json.Marshal(hookCtx)
	if err != nil {
		ui.Alertf("Plugin hook error: %v", err)
		return
	}

	for _, script := range m.activated {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		cmd := exec.CommandContext(ctx, m.interpreter, script.Path, hook)
		cmd.Stdin = bytes.NewReader(payload)
		if err := cmd.Run(); err != nil {
			ui.Alertf("  ✗ %s failed %s - %v", script.Name, hook, err)
		} else {
			ui.Successf("  ✓ %s executed %s", script.Name, hook)
		}
		cancel()
	}
}

// Count returns the number of discovered plugins, active or not.
func (m *Manager) Count() int {
	return len(m.activated) + len(m.ignored)
}

// List prints every discovered plugin.
func (m *Manager) List() {
	if m.Count() == 0 {
		ui.Warnf("No plugins loaded")
		return
	}
	ui.Successf("Loaded plugins:")
	n := 0
	for _, script := range append(append([]Script{}, m.ignored...), m.activated...) {
		n++
		ui.Infof("  %d. %s", n, script.Name)
	}
}

// Activated returns the scripts that will receive hook dispatches.
func (m *Manager) Activated() []Script {
	return m.activated
}
