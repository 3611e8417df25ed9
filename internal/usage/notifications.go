package usage

import "screentime-go/internal/model"

// UnreadCount returns the number of notifications not yet read.
func UnreadCount(notifications []model.Notification) int {
	n := 0
	for _, item := range notifications {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkAllRead returns a copy of notifications with every entry marked read.
// Order, length and all other fields are preserved; the input is not modified.
func MarkAllRead(notifications []model.Notification) []model.Notification {
	out := make([]model.Notification, len(notifications))
	for i, item := range notifications {
		item.Read = true
		out[i] = item
	}
	return out
}

// Style describes how a notification type is drawn.
type Style struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// NotificationStyle returns the icon and color for a notification type.
// Unrecognised types are drawn as info.
func NotificationStyle(t model.NotificationType, p Palette) Style {
	switch t {
	case model.NotificationWarning:
		return Style{Icon: "alert-circle", Color: p.Warning}
	case model.NotificationRequest:
		return Style{Icon: "hand-wave", Color: p.Primary}
	case model.NotificationSuccess:
		return Style{Icon: "check-circle", Color: p.Success}
	default:
		return Style{Icon: "information", Color: p.Info}
	}
}
