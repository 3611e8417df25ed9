package provider

import (
	"screentime-go/internal/dashboard"
	"screentime-go/internal/model"
)

// DemoParentID owns every record of the demo dataset.
const DemoParentID = "demo-parent"

// DemoDataset builds a fresh copy of the sample family shown before a real
// store is connected. Each call returns independent records.
func DemoDataset() *dashboard.Dataset {
	return &dashboard.Dataset{
		Parent: model.Parent{
			ID:          DemoParentID,
			Email:       "parent@example.com",
			DisplayName: "Demo Parent",
		},
		Children: []model.Child{
			{
				ID:         "1",
				Name:       "Alex Chen",
				Age:        12,
				Platform:   "Android",
				Avatar:     "👦",
				DeviceName: "Samsung Galaxy A54",
				LastSeen:   "2 min ago",
				TodayUsage: 150,
				DailyLimit: 240,
				Status:     model.StatusOK,
				TopApps: []model.AppUsageEntry{
					{Name: "TikTok", Icon: "📱", Category: "Social", Usage: 45},
					{Name: "YouTube", Icon: "🎮", Category: "Entertainment", Usage: 37},
					{Name: "Instagram", Icon: "📷", Category: "Social", Usage: 28},
					{Name: "Chrome", Icon: "🌐", Category: "Browser", Usage: 18},
					{Name: "Spotify", Icon: "🎵", Category: "Music", Usage: 12},
					{Name: "WhatsApp", Icon: "💬", Category: "Communication", Usage: 10},
				},
				WeeklyUsage: demoWeek(180, 210, 195, 150, 240, 280, 150),
				Rules: []model.Rule{
					{ID: "r1", Type: model.RuleDailyLimit, Label: "Daily Limit", Value: "4 hours", Enabled: true},
					{ID: "r2", Type: model.RuleBedtime, Label: "Bedtime", Value: "9:00 PM – 7:00 AM", Enabled: true},
					{ID: "r3", Type: model.RuleAppBlock, Label: "Block TikTok", Value: "During school hours", Enabled: false},
				},
			},
			{
				ID:         "2",
				Name:       "Emma Chen",
				Age:        9,
				Platform:   "iOS",
				Avatar:     "👧",
				DeviceName: "iPhone 15",
				LastSeen:   "Now",
				TodayUsage: 165,
				DailyLimit: 180,
				Status:     model.StatusWarning,
				TopApps: []model.AppUsageEntry{
					{Name: "Roblox", Icon: "🎮", Category: "Games", Usage: 52},
					{Name: "YouTube Kids", Icon: "📺", Category: "Entertainment", Usage: 45},
					{Name: "Messages", Icon: "💬", Category: "Communication", Usage: 28},
					{Name: "Safari", Icon: "🌐", Category: "Browser", Usage: 20},
					{Name: "Photos", Icon: "📸", Category: "Utilities", Usage: 12},
					{Name: "FaceTime", Icon: "📞", Category: "Communication", Usage: 8},
				},
				WeeklyUsage: demoWeek(160, 175, 190, 140, 200, 220, 165),
				Rules: []model.Rule{
					{ID: "r4", Type: model.RuleDailyLimit, Label: "Daily Limit", Value: "3 hours", Enabled: true},
					{ID: "r5", Type: model.RuleBedtime, Label: "Bedtime", Value: "8:30 PM – 7:30 AM", Enabled: true},
					{ID: "r6", Type: model.RuleAppBlock, Label: "Block Roblox", Value: "Weekdays only", Enabled: true},
				},
			},
		},
		Notifications: []model.Notification{
			{ID: "n1", Type: model.NotificationWarning, Title: "Emma reached 90% of limit", Body: "2h 45m of 3h used", Time: "2 min ago"},
			{ID: "n2", Type: model.NotificationRequest, Title: "Alex requests more time", Body: "Wants 30 more minutes", Time: "15 min ago"},
			{ID: "n3", Type: model.NotificationSuccess, Title: "Alex stayed within limit", Body: "Great day yesterday!", Time: "Yesterday", Read: true},
			{ID: "n4", Type: model.NotificationInfo, Title: "Weekly report ready", Body: "Tap to view usage summary", Time: "Yesterday", Read: true},
		},
	}
}

var weekdayLabels = [model.DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func demoWeek(minutes ...int) []model.WeeklyUsagePoint {
	points := make([]model.WeeklyUsagePoint, model.DaysPerWeek)
	for i := range points {
		points[i] = model.WeeklyUsagePoint{Day: weekdayLabels[i]}
		if i < len(minutes) {
			points[i].Minutes = minutes[i]
		}
	}
	return points
}
