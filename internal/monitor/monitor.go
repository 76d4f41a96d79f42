// Package monitor implements the work-session state machine: it polls
// for the presence of target processes, measures how long a session has
// run on the monotonic clock, and emits a break reminder plus a log
// record when the configured threshold is crossed.
package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Emil-Stampfly-He/rest-reminder/internal/logbook"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/notify"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/plugin"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/procwatch"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/ui"
)

// Hooks receives lifecycle events. Handlers run independently; their
// failures never reach the monitor loop.
type Hooks interface {
	Dispatch(hook string, ctx plugin.Context)
}

// sessionResult says why a working session ended.
type sessionResult int

const (
	sessionCancelled sessionResult = iota
	sessionTimeReached
	sessionProcessEnded
)

// Monitor watches for target processes and records work intervals.
// Construct with New; zero intervals are replaced with defaults.
type Monitor struct {
	source    procwatch.Source
	notifier  notify.Notifier
	hooks     Hooks
	logPath   string
	threshold time.Duration
	targets   []string

	checkInterval time.Duration // presence polling while idle
	heartbeat     time.Duration // presence re-check while working
	restNotice    time.Duration // "still resting" cadence while idle

	out    io.Writer
	logger *slog.Logger
}

// Option tweaks a Monitor; used by tests to shrink tick intervals and
// capture output.
type Option func(*Monitor)

// WithIntervals overrides the three tick cadences.
func WithIntervals(check, heartbeat, restNotice time.Duration) Option {
	return func(m *Monitor) {
		m.checkInterval = check
		m.heartbeat = heartbeat
		m.restNotice = restNotice
	}
}

// WithOutput redirects the transition log.
func WithOutput(w io.Writer) Option {
	return func(m *Monitor) { m.out = w }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// New builds a Monitor. threshold is the continuous-presence duration
// after which the reminder fires; targets are matched as case-sensitive
// substrings of running process names.
func New(source procwatch.Source, notifier notify.Notifier, hooks Hooks,
	logPath string, threshold time.Duration, targets []string, opts ...Option) *Monitor {
	m := &Monitor{
		source:        source,
		notifier:      notifier,
		hooks:         hooks,
		logPath:       logPath,
		threshold:     threshold,
		targets:       targets,
		checkInterval: time.Second,
		heartbeat:     2 * time.Second,
		restNotice:    2 * time.Second,
		out:           os.Stdout,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run drives the monitor until ctx is cancelled. Cancellation while a
// session is in progress still writes the partial interval; only a
// failure to write a completed interval terminates Run with an error.
func (m *Monitor) Run(ctx context.Context) error {
	m.dispatch(plugin.HookInit, plugin.NewContext("Rest Reminder initialized", 0))

	check := time.NewTicker(m.checkInterval)
	defer check.Stop()
	resting := time.NewTicker(m.restNotice)
	defer resting.Stop()

	for {
		select {
		case <-ctx.Done():
			m.printlnStyled(ui.Warn, "Stopped monitoring")
			return nil

		case <-check.C:
			if !m.presence(ctx) {
				continue
			}

			start := time.Now()
			m.printlnStyled(ui.Success, "Process(es) detected, you are about to start working...")
			m.dispatch(plugin.HookWorkStart, plugin.NewContext("Work session started", 0))

			result := m.watchSession(ctx, start)
			end := time.Now()

			switch result {
			case sessionCancelled:
				// Partial sessions are flushed, never discarded.
				err := m.append(start, end)
				m.printlnStyled(ui.Warn, "Stopped monitoring")
				return err

			case sessionTimeReached:
				m.printlnStyled(ui.Alert, "Process(es) still running, you need a break!")
				seconds := uint64(m.threshold / time.Second)
				m.dispatch(plugin.HookBreakReminder, plugin.NewContext("Time to take a break!", seconds))
				// The reminder is triggered before the interval is
				// appended, but runs detached.
				if m.notifier != nil {
					m.notifier.Notify(notify.Slogan(seconds))
				}
				if err := m.append(start, end); err != nil {
					return err
				}

			case sessionProcessEnded:
				if err := m.append(start, end); err != nil {
					return err
				}
				m.printlnStyled(ui.Info, "Process(es) ended, you finally decide to rest...")
			}
			resting.Reset(m.restNotice)

		case <-resting.C:
			m.printlnStyled(ui.Muted, "No processes detected, you are resting...")
		}
	}
}

// watchSession waits out one working session. The elapsed time is
// anchored to start's monotonic reading, so wall-clock adjustments do
// not distort the threshold comparison.
func (m *Monitor) watchSession(ctx context.Context, start time.Time) sessionResult {
	heartbeat := time.NewTicker(m.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return sessionCancelled
		case <-heartbeat.C:
			if !m.presence(ctx) {
				return sessionProcessEnded
			}
			if time.Since(start) >= m.threshold {
				return sessionTimeReached
			}
		}
	}
}

// presence refreshes the process snapshot and checks it against the
// targets. A failed refresh degrades this tick to "not found"; the next
// tick retries.
func (m *Monitor) presence(ctx context.Context) bool {
	names, err := m.source.Refresh(ctx)
	if err != nil {
		m.logger.Warn("process snapshot refresh failed", "error", err)
		return false
	}
	return procwatch.PresentIn(names, m.targets)
}

func (m *Monitor) append(start, end time.Time) error {
	if err := logbook.Append(m.logPath, start, end); err != nil {
		return fmt.Errorf("record work interval: %w", err)
	}
	m.printlnStyled(ui.Success, "Logging to "+m.logPath)
	return nil
}

func (m *Monitor) dispatch(hook string, hookCtx plugin.Context) {
	if m.hooks != nil {
		m.hooks.Dispatch(hook, hookCtx)
	}
}

func (m *Monitor) printlnStyled(style interface{ Render(...string) string }, msg string) {
	fmt.Fprintln(m.out, style.Render(msg))
}
