package usage

import (
	"time"

	"screentime-go/internal/model"
)

// Summary is the header of the children overview.
type Summary struct {
	TotalUsage     int `json:"total_usage"`     // minutes across all children today
	OnTrack        int `json:"on_track"`        // children with status ok
	NeedsAttention int `json:"needs_attention"` // children with any other status
	Unread         int `json:"unread"`
}

// Summarize computes the overview header from the children and notifications.
func Summarize(children []model.Child, notifications []model.Notification) Summary {
	var s Summary
	for _, c := range children {
		s.TotalUsage += c.TodayUsage
		if c.Status == model.StatusOK {
			s.OnTrack++
		} else {
			s.NeedsAttention++
		}
	}
	s.Unread = UnreadCount(notifications)
	return s
}

// TopApps returns at most n leading entries of apps, in the given order.
func TopApps(apps []model.AppUsageEntry, n int) []model.AppUsageEntry {
	if n < 0 {
		n = 0
	}
	if len(apps) < n {
		n = len(apps)
	}
	out := make([]model.AppUsageEntry, n)
	copy(out, apps[:n])
	return out
}

// TimeOfDay returns "morning", "afternoon" or "evening" for the greeting.
func TimeOfDay(t time.Time) string {
	h := t.Hour()
	switch {
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	default:
		return "evening"
	}
}
