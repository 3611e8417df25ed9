package dashboard

import (
	"context"
	"errors"
	"fmt"

	"screentime-go/internal/model"
	"screentime-go/internal/usage"
)

// CardTopApps is the number of apps shown on an overview card.
const CardTopApps = 3

// ChildCard is a child together with its derived display values.
type ChildCard struct {
	Child       model.Child           `json:"child"`
	Percent     float64               `json:"percent"`
	NearLimit   bool                  `json:"near_limit"`
	StatusLabel string                `json:"status_label"`
	StatusColor string                `json:"status_color"`
	UsageText   string                `json:"usage_text"` // "2h 30m / 4h"
	TopApps     []model.AppUsageEntry `json:"top_apps"`
}

// Overview is the parent's home view.
type Overview struct {
	Greeting string        `json:"greeting"`
	Summary  usage.Summary `json:"summary"`
	Children []ChildCard   `json:"children"`
}

// ChildDetail is the single-child view.
type ChildDetail struct {
	Card          ChildCard   `json:"card"`
	RoundedPct    int         `json:"rounded_percent"`
	WeeklyBars    []usage.Bar `json:"weekly_bars"`
	TodayIndex    int         `json:"today_index"`
	WeeklyAverage int         `json:"weekly_average"`
}

// FeedItem is a notification with its drawing style.
type FeedItem struct {
	Notification model.Notification `json:"notification"`
	Style        usage.Style        `json:"style"`
}

// Feed is the notification list view.
type Feed struct {
	Items  []FeedItem `json:"items"`
	Unread int        `json:"unread"`
}

// Notifications returns the bare notification records of the feed.
func (f Feed) Notifications() []model.Notification {
	out := make([]model.Notification, len(f.Items))
	for i, item := range f.Items {
		out[i] = item.Notification
	}
	return out
}

// BarHeight is the chart height used by ChildDetail.
const BarHeight = 120

// Service composes Provider calls with the derivation functions.
type Service struct {
	provider Provider
	palette  usage.Palette
	logger   Logger
	clock    Clock
}

// NewService creates a Service with the provided dependencies.
func NewService(provider Provider, palette usage.Palette, logger Logger, clock Clock) *Service {
	return &Service{
		provider: provider,
		palette:  palette,
		logger:   logger,
		clock:    clock,
	}
}

// Card derives the display values of one child.
func (s *Service) Card(c model.Child) ChildCard {
	pct := usage.UsagePercentage(c.TodayUsage, c.DailyLimit)
	return ChildCard{
		Child:       c,
		Percent:     pct,
		NearLimit:   usage.IsNearLimit(pct),
		StatusLabel: usage.StatusLabel(c.Status),
		StatusColor: usage.StatusColor(c.Status, s.palette),
		UsageText:   usage.FormatUsageOfLimit(c.TodayUsage, c.DailyLimit),
		TopApps:     usage.TopApps(c.TopApps, CardTopApps),
	}
}

// Overview builds the home view for a parent.
func (s *Service) Overview(ctx context.Context, parentID string) (*Overview, error) {
	children, err := s.children(ctx, parentID)
	if err != nil {
		return nil, err
	}
	notifications, err := s.provider.ListNotifications(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	cards := make([]ChildCard, len(children))
	for i, c := range children {
		cards[i] = s.Card(c)
	}

	return &Overview{
		Greeting: "Good " + usage.TimeOfDay(s.clock.Now()),
		Summary:  usage.Summarize(children, notifications),
		Children: cards,
	}, nil
}

// ChildDetail builds the detail view for one of the parent's children.
// It returns ErrNotFound if the child does not belong to the parent.
func (s *Service) ChildDetail(ctx context.Context, parentID, childID string) (*ChildDetail, error) {
	children, err := s.children(ctx, parentID)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		if c.ID != childID {
			continue
		}
		card := s.Card(c)
		total := 0
		for _, p := range c.WeeklyUsage {
			total += p.Minutes
		}
		avg := 0
		if len(c.WeeklyUsage) > 0 {
			avg = total / len(c.WeeklyUsage)
		}
		return &ChildDetail{
			Card:          card,
			RoundedPct:    usage.RoundPercent(card.Percent),
			WeeklyBars:    usage.WeeklyBars(c.WeeklyUsage, BarHeight),
			TodayIndex:    usage.TodayIndex(c.WeeklyUsage, s.clock.Now()),
			WeeklyAverage: avg,
		}, nil
	}
	return nil, fmt.Errorf("child %s: %w", childID, ErrNotFound)
}

// Notifications builds the notification feed for a parent.
func (s *Service) Notifications(ctx context.Context, parentID string) (*Feed, error) {
	notifications, err := s.provider.ListNotifications(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return s.feed(notifications), nil
}

// MarkAllRead persists the read state and returns the feed with every item
// read. If the provider fails, the feed is returned unchanged with the error.
// A nil feed is treated as empty.
func (s *Service) MarkAllRead(ctx context.Context, parentID string, feed *Feed) (*Feed, error) {
	if feed == nil {
		feed = s.feed(nil)
	}
	if err := s.provider.MarkAllNotificationsRead(ctx, parentID); err != nil {
		s.logger.Error("marking notifications read", "parent", parentID, "error", err)
		return feed, fmt.Errorf("marking notifications read: %w", err)
	}
	s.logger.Info("notifications marked read", "parent", parentID, "count", feed.Unread)
	return s.feed(usage.MarkAllRead(feed.Notifications())), nil
}

// SetRuleEnabled turns a rule on or off.
func (s *Service) SetRuleEnabled(ctx context.Context, ruleID string, enabled bool) error {
	return s.UpdateRule(ctx, ruleID, model.RuleUpdate{Enabled: &enabled})
}

// UpdateRule applies a partial rule update. An empty update is a no-op.
func (s *Service) UpdateRule(ctx context.Context, ruleID string, update model.RuleUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	if err := s.provider.UpdateRule(ctx, ruleID, update); err != nil {
		return fmt.Errorf("updating rule %s: %w", ruleID, err)
	}
	s.logger.Info("rule updated", "rule", ruleID)
	return nil
}

// AddChild validates the input and creates a child for the parent.
func (s *Service) AddChild(ctx context.Context, parentID string, child model.NewChild) (*model.Child, error) {
	if err := child.Validate(); err != nil {
		return nil, err
	}
	created, err := s.provider.AddChild(ctx, parentID, child)
	if err != nil {
		return nil, fmt.Errorf("adding child: %w", err)
	}
	s.logger.Info("child added", "parent", parentID, "child", created.ID)
	return created, nil
}

// Parent returns the parent profile for an authenticated user.
func (s *Service) Parent(ctx context.Context, userID string) (*model.Parent, error) {
	p, err := s.provider.GetParent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting parent: %w", err)
	}
	return p, nil
}

// Children returns the parent's children after validation.
func (s *Service) Children(ctx context.Context, parentID string) ([]model.Child, error) {
	return s.children(ctx, parentID)
}

// children lists the parent's children and logs records that break the
// model's invariants. Invalid records are passed through unchanged.
func (s *Service) children(ctx context.Context, parentID string) ([]model.Child, error) {
	children, err := s.provider.ListChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing children: %w", err)
	}
	for i := range children {
		if err := children[i].Validate(); err != nil {
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				s.logger.Warn("invalid child record", "child", children[i].ID, "field", verr.Field, "reason", verr.Reason)
			}
		}
	}
	return children, nil
}

func (s *Service) feed(notifications []model.Notification) *Feed {
	items := make([]FeedItem, len(notifications))
	for i, n := range notifications {
		items[i] = FeedItem{Notification: n, Style: usage.NotificationStyle(n.Type, s.palette)}
	}
	return &Feed{Items: items, Unread: usage.UnreadCount(notifications)}
}
