// Package stats answers time-accounting queries against the work log.
// All three query shapes are pure functions of the file contents and the
// arguments, so any number of callers may run them concurrently.
package stats

import (
	"errors"
	"time"

	"github.com/Emil-Stampfly-He/rest-reminder/internal/logbook"
)

var (
	// ErrEndBeforeStart is returned when a precise range ends before it starts.
	ErrEndBeforeStart = errors.New("end time must be greater than start time")
	// ErrEndDayBeforeStartDay is returned when a day range ends before it starts.
	ErrEndDayBeforeStartDay = errors.New("end day must be greater than start day")
)

// Overlap sums, over all intervals, the number of seconds each interval
// shares with [start, end]. Intervals need not be sorted or disjoint;
// overlapping log entries are counted independently.
func Overlap(intervals []logbook.Interval, start, end time.Time) int64 {
	var total int64
	for _, iv := range intervals {
		s := iv.Start
		if s.Before(start) {
			s = start
		}
		e := iv.End
		if e.After(end) {
			e = end
		}
		if e.After(s) {
			total += int64(e.Sub(s) / time.Second)
		}
	}
	return total
}

// PreciseRange returns the total worked seconds recorded in the log that
// fall within [start, end]. An inverted range is an error, never a clamp.
func PreciseRange(path string, start, end time.Time) (int64, error) {
	if end.Before(start) {
		return 0, ErrEndBeforeStart
	}
	if end.Equal(start) {
		return 0, nil
	}
	intervals, err := logbook.Parse(path)
	if err != nil {
		return 0, err
	}
	return Overlap(intervals, start, end), nil
}

// DayRange returns the total worked seconds across the calendar days
// from startDay through endDay inclusive.
func DayRange(path string, startDay, endDay time.Time) (int64, error) {
	switch compareDay(endDay, startDay) {
	case -1:
		return 0, ErrEndDayBeforeStartDay
	case 0:
		return SingleDay(path, startDay)
	}
	return PreciseRange(path, startOfDay(startDay), endOfDay(endDay))
}

// SingleDay returns the total worked seconds on one calendar day. An
// interval crossing midnight contributes only its portion before the
// day's end; the remainder belongs to the next day's query, so querying
// both days accounts for every second exactly once.
func SingleDay(path string, day time.Time) (int64, error) {
	return PreciseRange(path, startOfDay(day), endOfDay(day))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay is the next local midnight. Using the exclusive midnight
// bound rather than 23:59:59 keeps midnight-crossing intervals exact:
// the two adjacent day queries split the interval without losing the
// final second of the day.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}

func compareDay(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return sign(ay - by)
	case am != bm:
		return sign(int(am) - int(bm))
	default:
		return sign(ad - bd)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
