package logbook

import "time"

// Interval is one recorded stretch of continuous work, bounded by local
// wall-clock timestamps at second resolution. Start <= End for every
// interval produced by this package.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Seconds returns the interval length in whole seconds.
func (iv Interval) Seconds() int64 {
	return int64(iv.End.Sub(iv.Start) / time.Second)
}

// TimeLayout is the timestamp format used in every log line.
const TimeLayout = "2006-01-02 15:04:05"

// DefaultFileName is appended when the configured log path is a directory.
const DefaultFileName = "focus_log.txt"
