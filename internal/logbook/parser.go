package logbook

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Parse reads the log file at path and returns every well-formed work
// interval in file order. A line is a record iff it starts with '[' and
// contains a matching ']'; anything else (blank lines, comments, partial
// writes) is skipped. A record whose timestamps cannot be resolved in the
// local timezone is likewise skipped rather than failing the whole file.
// Re-reading an unchanged file yields the same sequence.
func Parse(path string) ([]Interval, error) {
	return ParseIn(path, time.Local)
}

// ParseIn is Parse with an explicit timezone, used by tests to pin
// DST behavior to a known location.
func ParseIn(path string, loc *time.Location) ([]Interval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	defer f.Close()

	var intervals []Interval
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if iv, ok := parseLine(line, loc); ok {
			intervals = append(intervals, iv)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file %s: %w", path, err)
	}
	return intervals, nil
}

func parseLine(line string, loc *time.Location) (Interval, bool) {
	if !strings.HasPrefix(line, "[") {
		return Interval{}, false
	}
	closing := strings.Index(line, "]")
	if closing < 0 {
		return Interval{}, false
	}

	payload := line[1:closing]
	startStr, endStr, found := strings.Cut(payload, " ~ ")
	if !found {
		return Interval{}, false
	}

	start, ok := resolveLocal(startStr, loc)
	if !ok {
		return Interval{}, false
	}
	end, ok := resolveLocal(endStr, loc)
	if !ok {
		return Interval{}, false
	}
	if end.Before(start) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// resolveLocal maps a wall-clock string onto an instant in loc. A
// wall-clock value that occurs twice during a daylight-saving fold
// resolves to the earlier instant; one that never occurs during a
// spring-forward gap resolves to nothing.
func resolveLocal(s string, loc *time.Location) (time.Time, bool) {
	naive, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	// Probe the zone offsets in effect around the target wall clock and
	// keep every candidate instant that reads back as the same clock.
	utc := time.Date(naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), naive.Second(), 0, time.UTC)

	seen := make(map[int]bool)
	var candidates []time.Time
	for _, probe := range []time.Time{utc.AddDate(0, 0, -1), utc, utc.AddDate(0, 0, 1)} {
		_, offset := probe.In(loc).Zone()
		if seen[offset] {
			continue
		}
		seen[offset] = true
		cand := utc.Add(-time.Duration(offset) * time.Second)
		if sameClock(cand.In(loc), naive) {
			candidates = append(candidates, cand)
		}
	}
	if len(candidates) == 0 {
		return time.Time{}, false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })
	return candidates[0].In(loc), true
}

// ParseLocalDateTime resolves a "YYYY-MM-DD HH:MM:SS" string in the
// local timezone using the same fold/gap policy as the log parser,
// except that an unresolvable time is an error rather than a skip.
func ParseLocalDateTime(s string) (time.Time, error) {
	t, ok := resolveLocal(s, time.Local)
	if !ok {
		return time.Time{}, fmt.Errorf("time %q is invalid in the local timezone", s)
	}
	return t, nil
}

// ParseLocalDay resolves a "YYYY-MM-DD" string to local midnight.
func ParseLocalDay(s string) (time.Time, error) {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return time.Time{}, fmt.Errorf("cannot resolve %q: %w", s, err)
	}
	return ParseLocalDateTime(s + " 00:00:00")
}

func sameClock(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day() &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute() && a.Second() == b.Second()
}
