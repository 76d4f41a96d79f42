package monitor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Emil-Stampfly-He/rest-reminder/internal/logbook"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/plugin"
)

// fakeSource is a switchable process snapshot.
type fakeSource struct {
	mu      sync.Mutex
	present bool
	err     error
}

func (f *fakeSource) Refresh(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.present {
		return []string{"idea64.exe"}, nil
	}
	return []string{"bash"}, nil
}

func (f *fakeSource) set(present bool) {
	f.mu.Lock()
	f.present = present
	f.mu.Unlock()
}

// fakeNotifier records reminder calls and snapshots the log file at call
// time so tests can assert the popup fires before the interval lands.
type fakeNotifier struct {
	mu         sync.Mutex
	calls      int
	logAtCall  []string
	logPath    string
	onNotified func()
}

func (f *fakeNotifier) Notify(message string) {
	f.mu.Lock()
	data, _ := os.ReadFile(f.logPath)
	f.calls++
	f.logAtCall = append(f.logAtCall, string(data))
	cb := f.onNotified
	f.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeHooks records dispatch order.
type fakeHooks struct {
	mu    sync.Mutex
	order []string
}

func (f *fakeHooks) Dispatch(hook string, ctx plugin.Context) {
	f.mu.Lock()
	f.order = append(f.order, hook)
	f.mu.Unlock()
}

func (f *fakeHooks) hooks() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastIntervals() Option {
	return WithIntervals(5*time.Millisecond, 10*time.Millisecond, time.Hour)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func lineCount(path string) int {
	intervals, err := logbook.Parse(path)
	if err != nil {
		return 0
	}
	return len(intervals)
}

func TestRun_ThresholdReachedFiresReminderThenLogs(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "focus_log.txt")
	src := &fakeSource{present: true}
	notifier := &fakeNotifier{logPath: logPath}
	// Once the reminder fires, the process "closes" so only one session
	// is recorded.
	notifier.onNotified = func() { src.set(false) }
	hooks := &fakeHooks{}

	m := New(src, notifier, hooks, logPath, 50*time.Millisecond, []string{"idea64.exe"},
		fastIntervals(), WithOutput(io.Discard), WithLogger(testLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	if !waitFor(t, 5*time.Second, func() bool { return lineCount(logPath) >= 1 }) {
		cancel()
		t.Fatal("no interval was logged")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	intervals, err := logbook.Parse(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(intervals) != 1 {
		t.Fatalf("got %d intervals, want exactly 1", len(intervals))
	}
	// Threshold is sub-second, so the recorded interval must be within
	// one heartbeat of it at second resolution.
	if sec := intervals[0].Seconds(); sec > 1 {
		t.Errorf("interval length = %ds, want ~0s for a 50ms threshold", sec)
	}

	if notifier.count() != 1 {
		t.Errorf("reminder fired %d times, want exactly 1", notifier.count())
	}
	// The popup was triggered strictly before the interval was appended.
	if notifier.logAtCall[0] != "" {
		t.Errorf("log already contained %q when the reminder fired", notifier.logAtCall[0])
	}

	want := []string{plugin.HookInit, plugin.HookWorkStart, plugin.HookBreakReminder}
	got := hooks.hooks()
	if len(got) != len(want) {
		t.Fatalf("hooks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("hooks = %v, want %v", got, want)
		}
	}
}

func TestRun_ProcessEndsBeforeThreshold(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "focus_log.txt")
	src := &fakeSource{present: true}
	notifier := &fakeNotifier{logPath: logPath}
	hooks := &fakeHooks{}

	m := New(src, notifier, hooks, logPath, time.Hour, []string{"idea64.exe"},
		fastIntervals(), WithOutput(io.Discard), WithLogger(testLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	src.set(false)

	if !waitFor(t, 5*time.Second, func() bool { return lineCount(logPath) >= 1 }) {
		cancel()
		t.Fatal("no interval was logged after the process ended")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if n := lineCount(logPath); n != 1 {
		t.Errorf("got %d intervals, want 1", n)
	}
	if notifier.count() != 0 {
		t.Errorf("reminder fired %d times, want 0", notifier.count())
	}

	for _, h := range hooks.hooks() {
		if h == plugin.HookBreakReminder {
			t.Error("break reminder hook fired for a session below threshold")
		}
	}
}

func TestRun_CancelWhileWorkingFlushesPartialInterval(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "focus_log.txt")
	src := &fakeSource{present: true}

	m := New(src, &fakeNotifier{logPath: logPath}, nil, logPath, time.Hour, []string{"idea64.exe"},
		fastIntervals(), WithOutput(io.Discard), WithLogger(testLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(40 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if n := lineCount(logPath); n != 1 {
		t.Errorf("got %d intervals, want 1 flushed partial interval", n)
	}
}

func TestRun_CancelWhileIdleWritesNothing(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "focus_log.txt")
	src := &fakeSource{present: false}

	m := New(src, &fakeNotifier{logPath: logPath}, nil, logPath, time.Hour, []string{"idea64.exe"},
		fastIntervals(), WithOutput(io.Discard), WithLogger(testLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("idle cancellation must not create a log file")
	}
}

func TestRun_SnapshotFailureKeepsLoopIdle(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "focus_log.txt")
	src := &fakeSource{present: true, err: os.ErrPermission}

	m := New(src, &fakeNotifier{logPath: logPath}, nil, logPath, time.Millisecond, []string{"idea64.exe"},
		fastIntervals(), WithOutput(io.Discard), WithLogger(testLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("a failing snapshot source must never start a session")
	}
}

func TestRun_AppendFailureIsFatal(t *testing.T) {
	// Point the log inside a directory that doesn't exist.
	logPath := filepath.Join(t.TempDir(), "missing", "focus_log.txt")
	src := &fakeSource{present: true}

	m := New(src, &fakeNotifier{logPath: logPath}, nil, logPath, 10*time.Millisecond, []string{"idea64.exe"},
		fastIntervals(), WithOutput(io.Discard), WithLogger(testLogger()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Run(ctx); err == nil {
		t.Error("expected Run to fail when the interval cannot be written")
	}
}
