package dashboard

import "screentime-go/internal/model"

// Dataset is a complete set of records for one parent. It is how fixtures
// are passed to providers and seeded into stores.
type Dataset struct {
	Parent        model.Parent
	Children      []model.Child
	Notifications []model.Notification
}

// Clone returns a deep copy of d.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Parent:        d.Parent,
		Children:      make([]model.Child, len(d.Children)),
		Notifications: append([]model.Notification(nil), d.Notifications...),
	}
	for i, c := range d.Children {
		out.Children[i] = CloneChild(c)
	}
	return out
}

// CloneChild returns a copy of c that shares no slices with it.
func CloneChild(c model.Child) model.Child {
	c.TopApps = append([]model.AppUsageEntry(nil), c.TopApps...)
	c.WeeklyUsage = append([]model.WeeklyUsagePoint(nil), c.WeeklyUsage...)
	c.Rules = append([]model.Rule(nil), c.Rules...)
	return c
}

// Rehome returns a copy of d owned by parentID. Child, rule and notification
// IDs are prefixed with parentID so several parents can share one store.
// Rehoming to the current parent returns a plain copy.
func (d *Dataset) Rehome(parentID string) *Dataset {
	out := d.Clone()
	if parentID == "" || parentID == d.Parent.ID {
		return out
	}
	prefix := parentID + "-"
	out.Parent.ID = parentID
	for i := range out.Children {
		c := &out.Children[i]
		c.ID = prefix + c.ID
		for j := range c.Rules {
			c.Rules[j].ID = prefix + c.Rules[j].ID
		}
	}
	for i := range out.Notifications {
		out.Notifications[i].ID = prefix + out.Notifications[i].ID
	}
	return out
}
