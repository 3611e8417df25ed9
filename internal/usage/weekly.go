package usage

import (
	"time"

	"screentime-go/internal/model"
)

// Bar is one day of the weekly usage chart.
type Bar struct {
	Day     string  `json:"day"`
	Minutes int     `json:"minutes"`
	Height  float64 `json:"height"` // 0..maxHeight
}

// MaxMinutes returns the largest day in points, or 0 for an empty week.
func MaxMinutes(points []model.WeeklyUsagePoint) int {
	maxMin := 0
	for _, p := range points {
		if p.Minutes > maxMin {
			maxMin = p.Minutes
		}
	}
	return maxMin
}

// WeeklyBars scales each day against the busiest day of the week.
// A week with no usage yields bars of height 0.
func WeeklyBars(points []model.WeeklyUsagePoint, maxHeight float64) []Bar {
	maxMin := MaxMinutes(points)
	bars := make([]Bar, len(points))
	for i, p := range points {
		bars[i] = Bar{Day: p.Day, Minutes: p.Minutes}
		if maxMin > 0 {
			bars[i].Height = float64(p.Minutes) / float64(maxMin) * maxHeight
		}
	}
	return bars
}

// WeekdayIndex returns the position of t's weekday in a Monday-first week.
func WeekdayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// DayLabel returns the short weekday label used in WeeklyUsagePoint.Day.
func DayLabel(t time.Time) string {
	return t.Weekday().String()[:3]
}

// TodayIndex returns the position of now's day in points. Both a fixed
// Mon..Sun week and a rolling week ending today are supported: the last
// point labelled with now's weekday wins. Without a match it falls back to
// WeekdayIndex.
func TodayIndex(points []model.WeeklyUsagePoint, now time.Time) int {
	label := DayLabel(now)
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Day == label {
			return i
		}
	}
	return WeekdayIndex(now)
}
