package logbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func localTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		t.Fatalf("bad fixture time %q: %v", s, err)
	}
	return tm
}

func TestAppend_LineFormat(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "focus_log.txt")

	start := localTime(t, "2025-04-19 22:48:24")
	end := localTime(t, "2025-04-19 22:48:37")

	if err := Append(path, start, end); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "[2025-04-19 22:48:24 ~ 2025-04-19 22:48:37] You worked for 0.22 minutes \n"
	if string(data) != want {
		t.Errorf("log line = %q, want %q", string(data), want)
	}
}

func TestAppend_DirectoryPathGetsDefaultFileName(t *testing.T) {
	tmpDir := t.TempDir()

	start := localTime(t, "2025-04-19 10:00:00")
	end := localTime(t, "2025-04-19 10:30:00")

	if err := Append(tmpDir, start, end); err != nil {
		t.Fatalf("Append to directory failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, DefaultFileName)); err != nil {
		t.Errorf("expected %s inside the directory: %v", DefaultFileName, err)
	}
}

func TestAppend_TrailingSeparatorGetsDefaultFileName(t *testing.T) {
	tmpDir := t.TempDir()

	start := localTime(t, "2025-04-19 10:00:00")
	end := localTime(t, "2025-04-19 10:00:00")

	if err := Append(tmpDir+"/", start, end); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, DefaultFileName)); err != nil {
		t.Errorf("expected %s inside the directory: %v", DefaultFileName, err)
	}
}

func TestAppend_UnwritablePathFails(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "missing", "focus_log.txt")

	start := localTime(t, "2025-04-19 10:00:00")
	if err := Append(path, start, start); err == nil {
		t.Error("expected an error for an unwritable path")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "focus_log.txt")

	pairs := [][2]string{
		{"2025-04-19 22:48:24", "2025-04-19 22:48:37"},
		{"2025-04-19 22:54:44", "2025-04-19 22:54:56"},
		{"2025-04-19 22:54:56", "2025-04-19 22:55:07"},
	}
	for _, p := range pairs {
		if err := Append(path, localTime(t, p[0]), localTime(t, p[1])); err != nil {
			t.Fatal(err)
		}
	}

	intervals, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(intervals) != len(pairs) {
		t.Fatalf("got %d intervals, want %d", len(intervals), len(pairs))
	}
	for i, p := range pairs {
		if !intervals[i].Start.Equal(localTime(t, p[0])) || !intervals[i].End.Equal(localTime(t, p[1])) {
			t.Errorf("interval %d = [%v ~ %v], want [%s ~ %s]",
				i, intervals[i].Start, intervals[i].End, p[0], p[1])
		}
	}
}

func TestParse_SkipsNonRecordLines(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "focus_log.txt")

	content := strings.Join([]string{
		"",
		"# a comment",
		"not a record at all",
		"[2025-04-19 22:48:24 ~ 2025-04-19 22:48:37] You worked for 0.22 minutes ",
		"[broken bracket payload",
		"[2025-04-19 xx:yy:zz ~ 2025-04-19 22:55:07] You worked for 0.18 minutes ",
		"[2025-04-19 22:54:44 ~ 2025-04-19 22:54:56] You worked for 0.20 minutes ",
		"[2025-04-19 23:59:00 - 2025-04-19 23:59:30] wrong separator",
	}, "\n") + "\n"

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	intervals, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(intervals) != 2 {
		t.Fatalf("got %d intervals, want 2", len(intervals))
	}
}

func TestParse_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "focus_log.txt")

	if err := Append(path, localTime(t, "2025-04-19 22:00:00"), localTime(t, "2025-04-19 23:00:00")); err != nil {
		t.Fatal(err)
	}

	first, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
			t.Errorf("interval %d differs between reads", i)
		}
	}
}

func TestParse_MissingFileFails(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestParseIn_DaylightSavingGapSkipsLine(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "focus_log.txt")

	// 02:30 on 2025-03-09 does not exist in New York (spring forward).
	content := "[2025-03-09 02:30:00 ~ 2025-03-09 03:30:00] You worked for 60.00 minutes \n" +
		"[2025-03-09 12:00:00 ~ 2025-03-09 12:30:00] You worked for 30.00 minutes \n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	intervals, err := ParseIn(path, loc)
	if err != nil {
		t.Fatalf("ParseIn failed: %v", err)
	}
	if len(intervals) != 1 {
		t.Fatalf("got %d intervals, want 1 (gap line skipped)", len(intervals))
	}
	if intervals[0].Start.Hour() != 12 {
		t.Errorf("surviving interval starts at hour %d, want 12", intervals[0].Start.Hour())
	}
}

func TestParseIn_DaylightSavingFoldPicksEarlierInstant(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "focus_log.txt")

	// 01:30 on 2025-11-02 occurs twice in New York (fall back). The
	// earlier instant is the EDT one, offset -4h.
	content := "[2025-11-02 01:30:00 ~ 2025-11-02 01:45:00] You worked for 15.00 minutes \n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	intervals, err := ParseIn(path, loc)
	if err != nil {
		t.Fatalf("ParseIn failed: %v", err)
	}
	if len(intervals) != 1 {
		t.Fatalf("got %d intervals, want 1", len(intervals))
	}

	_, offset := intervals[0].Start.Zone()
	if offset != -4*3600 {
		t.Errorf("fold resolved to offset %d, want -14400 (the earlier, EDT instant)", offset)
	}
}

func TestParseLocalDay(t *testing.T) {
	day, err := ParseLocalDay("2025-04-19")
	if err != nil {
		t.Fatalf("ParseLocalDay failed: %v", err)
	}
	if day.Hour() != 0 || day.Minute() != 0 || day.Second() != 0 {
		t.Errorf("expected local midnight, got %v", day)
	}
	if day.Year() != 2025 || day.Month() != time.April || day.Day() != 19 {
		t.Errorf("wrong date: %v", day)
	}

	if _, err := ParseLocalDay("19/04/2025"); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestParseLocalDateTime_Malformed(t *testing.T) {
	if _, err := ParseLocalDateTime("2025-04-19T22:00:00"); err == nil {
		t.Error("expected an error for a malformed timestamp")
	}
}

func TestIntervalSeconds(t *testing.T) {
	iv := Interval{
		Start: localTime(t, "2025-04-19 22:48:24"),
		End:   localTime(t, "2025-04-19 22:48:37"),
	}
	if got := iv.Seconds(); got != 13 {
		t.Errorf("Seconds() = %d, want 13", got)
	}
}
