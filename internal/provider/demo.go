package provider

import (
	"context"
	"fmt"
	"sync"

	"screentime-go/internal/dashboard"
	"screentime-go/internal/model"
)

// DemoProvider serves a dataset held in memory. Mutations are visible only
// to this provider. Safe for concurrent use.
type DemoProvider struct {
	mu    sync.RWMutex
	data  *dashboard.Dataset
	idgen dashboard.IDGenerator
	limit int
}

var _ dashboard.Provider = (*DemoProvider)(nil)

// NewDemoProvider creates a provider over a private copy of ds.
// A limit of zero or less uses dashboard.DefaultNotificationLimit.
func NewDemoProvider(ds *dashboard.Dataset, idgen dashboard.IDGenerator, limit int) *DemoProvider {
	if idgen == nil {
		idgen = dashboard.UUIDGenerator{}
	}
	if limit <= 0 {
		limit = dashboard.DefaultNotificationLimit
	}
	return &DemoProvider{data: ds.Clone(), idgen: idgen, limit: limit}
}

func (p *DemoProvider) owns(parentID string) bool {
	return p.data.Parent.ID == parentID
}

func (p *DemoProvider) ListChildren(_ context.Context, parentID string) ([]model.Child, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.owns(parentID) {
		return []model.Child{}, nil
	}
	out := make([]model.Child, len(p.data.Children))
	for i, c := range p.data.Children {
		out[i] = dashboard.CloneChild(c)
	}
	return out, nil
}

func (p *DemoProvider) ListNotifications(_ context.Context, parentID string) ([]model.Notification, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.owns(parentID) {
		return []model.Notification{}, nil
	}
	n := min(len(p.data.Notifications), p.limit)
	return append([]model.Notification(nil), p.data.Notifications[:n]...), nil
}

func (p *DemoProvider) MarkAllNotificationsRead(_ context.Context, parentID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.owns(parentID) {
		return nil
	}
	for i := range p.data.Notifications {
		p.data.Notifications[i].Read = true
	}
	return nil
}

func (p *DemoProvider) UpdateRule(_ context.Context, ruleID string, update model.RuleUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for ci := range p.data.Children {
		rules := p.data.Children[ci].Rules
		for ri := range rules {
			if rules[ri].ID == ruleID {
				rules[ri] = update.Apply(rules[ri])
				return nil
			}
		}
	}
	return fmt.Errorf("rule %s: %w", ruleID, dashboard.ErrNotFound)
}

func (p *DemoProvider) AddChild(_ context.Context, parentID string, child model.NewChild) (*model.Child, error) {
	if err := child.Validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.owns(parentID) {
		return nil, fmt.Errorf("parent %s: %w", parentID, dashboard.ErrNotFound)
	}
	c := model.Child{
		ID:          p.idgen.New(),
		Name:        child.Name,
		Age:         child.Age,
		Avatar:      child.Avatar,
		LastSeen:    "Never",
		Status:      model.StatusOK,
		TopApps:     []model.AppUsageEntry{},
		WeeklyUsage: demoWeek(),
		Rules:       []model.Rule{},
	}
	p.data.Children = append(p.data.Children, c)
	out := dashboard.CloneChild(c)
	return &out, nil
}

func (p *DemoProvider) GetParent(_ context.Context, userID string) (*model.Parent, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.owns(userID) {
		return nil, fmt.Errorf("parent %s: %w", userID, dashboard.ErrNotFound)
	}
	parent := p.data.Parent
	return &parent, nil
}

func (p *DemoProvider) Close() error { return nil }
