package model

import "time"

// Parent is the account holder. A parent owns zero or more children.
type Parent struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Child is a monitored child together with today's usage snapshot.
// Status is set by whoever produced the record and is never recomputed from
// TodayUsage/DailyLimit; the two may disagree.
type Child struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Age         int                `json:"age"`
	Platform    string             `json:"platform"`
	Avatar      string             `json:"avatar"`
	DeviceName  string             `json:"device_name"`
	LastSeen    string             `json:"last_seen"`   // display string, e.g. "2 min ago"
	TodayUsage  int                `json:"today_usage"` // minutes
	DailyLimit  int                `json:"daily_limit"` // minutes; 0 means unset
	Status      Status             `json:"status"`
	TopApps     []AppUsageEntry    `json:"top_apps"`     // display rank order
	WeeklyUsage []WeeklyUsagePoint `json:"weekly_usage"` // exactly 7 points, oldest first
	Rules       []Rule             `json:"rules"`
}

// AppUsageEntry is one app's usage for the current day.
type AppUsageEntry struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
	Usage    int    `json:"usage"` // minutes
}

// WeeklyUsagePoint is the total usage of one day in the rolling week.
type WeeklyUsagePoint struct {
	Day     string `json:"day"` // short weekday label, e.g. "Mon"
	Minutes int    `json:"minutes"`
}

// Rule is a parental rule attached to a child.
type Rule struct {
	ID      string   `json:"id"`
	Type    RuleType `json:"type"`
	Label   string   `json:"label"`
	Value   string   `json:"value"` // display string, e.g. "4 hours"
	Enabled bool     `json:"enabled"`
}

// Notification is an alert shown to the parent.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Time      string           `json:"time"` // display string, never parsed
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at,omitzero"` // zero for static records
}

// NewChild holds the fields a parent supplies when adding a child.
type NewChild struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Avatar string `json:"avatar"`
}

// RuleUpdate is a partial update of a Rule. Nil fields are left unchanged.
type RuleUpdate struct {
	Enabled *bool   `json:"enabled,omitempty"`
	Label   *string `json:"label,omitempty"`
	Value   *string `json:"value,omitempty"`
}

// IsEmpty reports whether the update changes no field.
func (u RuleUpdate) IsEmpty() bool {
	return u.Enabled == nil && u.Label == nil && u.Value == nil
}

// Apply returns r with the update's non-nil fields applied.
func (u RuleUpdate) Apply(r Rule) Rule {
	if u.Enabled != nil {
		r.Enabled = *u.Enabled
	}
	if u.Label != nil {
		r.Label = *u.Label
	}
	if u.Value != nil {
		r.Value = *u.Value
	}
	return r
}
