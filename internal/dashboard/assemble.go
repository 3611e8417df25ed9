package dashboard

import (
	"time"

	"screentime-go/internal/model"
)

// ChildAssembler collects the rows a store returns for a parent's children
// (the child, today's apps, daily totals, rules) and joins them into
// model.Child records. Rows for unknown children are ignored.
type ChildAssembler struct {
	children []model.Child
	online   []bool
	lastSeen []time.Time
	totals   []map[string]int
	index    map[string]int
}

// NewChildAssembler returns an empty assembler.
func NewChildAssembler() *ChildAssembler {
	return &ChildAssembler{index: map[string]int{}}
}

// AddChild appends a child in creation order together with its device state.
func (a *ChildAssembler) AddChild(c model.Child, online bool, lastSeen time.Time) {
	c.TopApps = []model.AppUsageEntry{}
	c.Rules = []model.Rule{}
	a.index[c.ID] = len(a.children)
	a.children = append(a.children, c)
	a.online = append(a.online, online)
	a.lastSeen = append(a.lastSeen, lastSeen)
	a.totals = append(a.totals, map[string]int{})
}

// Len returns the number of children added.
func (a *ChildAssembler) Len() int { return len(a.children) }

// AddApp appends one of today's apps. Apps must arrive most used first.
func (a *ChildAssembler) AddApp(childID string, app model.AppUsageEntry) {
	if i, ok := a.index[childID]; ok {
		a.children[i].TopApps = append(a.children[i].TopApps, app)
	}
}

// AddDayTotal records a child's total minutes for a day keyed by DateLayout.
func (a *ChildAssembler) AddDayTotal(childID, day string, minutes int) {
	if i, ok := a.index[childID]; ok {
		a.totals[i][day] = minutes
	}
}

// AddRule appends a rule in display order.
func (a *ChildAssembler) AddRule(childID string, rule model.Rule) {
	if i, ok := a.index[childID]; ok {
		a.children[i].Rules = append(a.children[i].Rules, rule)
	}
}

// Children returns the joined records as of now. TodayUsage is the sum of
// today's apps and WeeklyUsage is the rolling week ending on now's date.
func (a *ChildAssembler) Children(now time.Time) []model.Child {
	out := make([]model.Child, len(a.children))
	for i, c := range a.children {
		c.TodayUsage = SumUsage(c.TopApps)
		c.WeeklyUsage = BuildWeeklyUsage(now, a.totals[i])
		c.LastSeen = LastSeenLabel(a.lastSeen[i], a.online[i], now)
		out[i] = c
	}
	return out
}
