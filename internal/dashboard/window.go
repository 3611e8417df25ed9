package dashboard

import (
	"time"

	"github.com/dustin/go-humanize"

	"screentime-go/internal/model"
	"screentime-go/internal/usage"
)

// DefaultNotificationLimit is the notification page size when none is
// configured.
const DefaultNotificationLimit = 20

// DateLayout is the calendar-day key used by the stores.
const DateLayout = "2006-01-02"

// Week returns the seven calendar days ending on today's date, oldest first.
// Each day is truncated to midnight in today's location.
func Week(today time.Time) []time.Time {
	y, m, d := today.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	days := make([]time.Time, model.DaysPerWeek)
	for i := range days {
		days[i] = end.AddDate(0, 0, i-(model.DaysPerWeek-1))
	}
	return days
}

// BuildWeeklyUsage turns per-day totals keyed by DateLayout into the rolling
// week ending today. Days without an entry are zero.
func BuildWeeklyUsage(today time.Time, totals map[string]int) []model.WeeklyUsagePoint {
	days := Week(today)
	points := make([]model.WeeklyUsagePoint, len(days))
	for i, day := range days {
		points[i] = model.WeeklyUsagePoint{
			Day:     usage.DayLabel(day),
			Minutes: totals[day.Format(DateLayout)],
		}
	}
	return points
}

// SumUsage returns the total minutes across apps.
func SumUsage(apps []model.AppUsageEntry) int {
	total := 0
	for _, a := range apps {
		total += a.Usage
	}
	return total
}

// LastSeenLabel renders a device's last contact for display.
func LastSeenLabel(lastSeen time.Time, online bool, now time.Time) string {
	switch {
	case online:
		return "Now"
	case lastSeen.IsZero():
		return "Never"
	default:
		return RelativeTime(lastSeen, now)
	}
}

// RelativeTime renders t relative to now: "Now" within a minute, "Yesterday"
// for the previous calendar day, otherwise a humanized duration.
func RelativeTime(t, now time.Time) string {
	if d := now.Sub(t); d >= 0 && d < time.Minute {
		return "Now"
	}
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.AddDate(0, 0, -1).Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Yesterday"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
