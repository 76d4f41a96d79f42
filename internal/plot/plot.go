// Package plot renders the per-day working trend as a PNG chart.
package plot

import (
	"fmt"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Emil-Stampfly-He/rest-reminder/internal/stats"
)

// Render queries the log once per calendar day in [startDay, endDay] and
// draws work minutes over time to outPath.
func Render(logPath, outPath string, startDay, endDay time.Time) error {
	if endDay.Before(startDay) {
		return stats.ErrEndDayBeforeStartDay
	}

	var pts plotter.XYs
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		seconds, err := stats.SingleDay(logPath, day)
		if err != nil {
			return fmt.Errorf("work time for %s: %w", day.Format("2006-01-02"), err)
		}
		pts = append(pts, plotter.XY{
			X: float64(day.Unix()),
			Y: float64(seconds) / 60.0,
		})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Your Working Trend: %s to %s",
		startDay.Format("2006-01-02"), endDay.Format("2006-01-02"))
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Work Time (minutes)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02"}
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("build trend series: %w", err)
	}
	p.Add(line, points)

	if err := p.Save(12*vg.Inch, 7*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save plot %s: %w", outPath, err)
	}
	return nil
}
