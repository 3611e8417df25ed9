package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"screentime-go/internal/config"
	"screentime-go/internal/dashboard"
	"screentime-go/internal/model"
)

// Provider implements dashboard.Provider on Postgres.
type Provider struct {
	db    DB
	clock dashboard.Clock
	idgen dashboard.IDGenerator
	limit int
}

var _ dashboard.Provider = (*Provider)(nil)

// NewProvider wraps db. Nil clock and idgen default to the real
// implementations; a limit of zero or less uses the default page size.
func NewProvider(db DB, clock dashboard.Clock, idgen dashboard.IDGenerator, limit int) *Provider {
	if clock == nil {
		clock = dashboard.RealClock{}
	}
	if idgen == nil {
		idgen = dashboard.UUIDGenerator{}
	}
	if limit <= 0 {
		limit = dashboard.DefaultNotificationLimit
	}
	return &Provider{db: db, clock: clock, idgen: idgen, limit: limit}
}

// NewProviderFromConfig connects to the database described by cfg.
func NewProviderFromConfig(ctx context.Context, cfg config.ProviderConfig, clock dashboard.Clock, idgen dashboard.IDGenerator) (*Provider, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn required for postgres provider")
	}
	pool, err := NewPool(ctx, cfg.DSN, PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return NewProvider(pool, clock, idgen, cfg.NotificationLimit), nil
}

func (p *Provider) Close() error {
	p.db.Close()
	return nil
}

const childrenQuery = `
	SELECT c.id, c.name, c.age, c.platform, c.avatar, c.daily_limit, c.status,
	       d.name, d.is_online, d.last_seen
	FROM children c
	LEFT JOIN LATERAL (
		SELECT name, is_online, last_seen
		FROM devices
		WHERE child_id = c.id
		ORDER BY created_at DESC
		LIMIT 1
	) d ON true
	WHERE c.parent_id = $1
	ORDER BY c.created_at, c.id`

const todayAppsQuery = `
	SELECT a.child_id, a.app_name, a.icon, a.category, a.minutes
	FROM app_usage a
	JOIN children c ON c.id = a.child_id
	WHERE c.parent_id = $1 AND a.usage_date = $2
	ORDER BY a.minutes DESC, a.app_name`

const weeklyQuery = `
	SELECT a.child_id, a.usage_date, SUM(a.minutes)::int
	FROM app_usage a
	JOIN children c ON c.id = a.child_id
	WHERE c.parent_id = $1 AND a.usage_date BETWEEN $2 AND $3
	GROUP BY a.child_id, a.usage_date`

const rulesQuery = `
	SELECT r.child_id, r.id, r.type, r.label, r.value, r.enabled
	FROM rules r
	JOIN children c ON c.id = r.child_id
	WHERE c.parent_id = $1
	ORDER BY r.created_at, r.id`

func (p *Provider) ListChildren(ctx context.Context, parentID string) ([]model.Child, error) {
	now := p.clock.Now()
	week := dashboard.Week(now)
	from, today := week[0], week[len(week)-1]

	rows, err := p.db.Query(ctx, childrenQuery, parentID)
	if err != nil {
		return nil, dashboard.AccessError("list children", err)
	}
	set := dashboard.NewChildAssembler()
	for rows.Next() {
		var c model.Child
		var status string
		var device *string
		var online *bool
		var lastSeen *time.Time
		if err := rows.Scan(&c.ID, &c.Name, &c.Age, &c.Platform, &c.Avatar,
			&c.DailyLimit, &status, &device, &online, &lastSeen); err != nil {
			rows.Close()
			return nil, dashboard.AccessError("list children", err)
		}
		c.Status = model.ParseStatus(status)
		if device != nil {
			c.DeviceName = *device
		}
		var seen time.Time
		if lastSeen != nil {
			seen = *lastSeen
		}
		set.AddChild(c, online != nil && *online, seen)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dashboard.AccessError("list children", err)
	}
	if set.Len() == 0 {
		return []model.Child{}, nil
	}

	rows, err = p.db.Query(ctx, todayAppsQuery, parentID, today)
	if err != nil {
		return nil, dashboard.AccessError("list app usage", err)
	}
	for rows.Next() {
		var childID string
		var app model.AppUsageEntry
		if err := rows.Scan(&childID, &app.Name, &app.Icon, &app.Category, &app.Usage); err != nil {
			rows.Close()
			return nil, dashboard.AccessError("list app usage", err)
		}
		set.AddApp(childID, app)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dashboard.AccessError("list app usage", err)
	}

	rows, err = p.db.Query(ctx, weeklyQuery, parentID, from, today)
	if err != nil {
		return nil, dashboard.AccessError("list weekly usage", err)
	}
	for rows.Next() {
		var childID string
		var day time.Time
		var minutes int
		if err := rows.Scan(&childID, &day, &minutes); err != nil {
			rows.Close()
			return nil, dashboard.AccessError("list weekly usage", err)
		}
		set.AddDayTotal(childID, day.Format(dashboard.DateLayout), minutes)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dashboard.AccessError("list weekly usage", err)
	}

	rows, err = p.db.Query(ctx, rulesQuery, parentID)
	if err != nil {
		return nil, dashboard.AccessError("list rules", err)
	}
	for rows.Next() {
		var childID, ruleType string
		var rule model.Rule
		if err := rows.Scan(&childID, &rule.ID, &ruleType, &rule.Label, &rule.Value, &rule.Enabled); err != nil {
			rows.Close()
			return nil, dashboard.AccessError("list rules", err)
		}
		rule.Type = model.ParseRuleType(ruleType)
		set.AddRule(childID, rule)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dashboard.AccessError("list rules", err)
	}

	return set.Children(now), nil
}

func (p *Provider) ListNotifications(ctx context.Context, parentID string) ([]model.Notification, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id, type, title, body, read, created_at
		FROM notifications
		WHERE parent_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2`, parentID, p.limit)
	if err != nil {
		return nil, dashboard.AccessError("list notifications", err)
	}
	defer rows.Close()

	now := p.clock.Now()
	out := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		var nt string
		if err := rows.Scan(&n.ID, &nt, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, dashboard.AccessError("list notifications", err)
		}
		n.Type = model.ParseNotificationType(nt)
		n.Time = dashboard.RelativeTime(n.CreatedAt, now)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, dashboard.AccessError("list notifications", err)
	}
	return out, nil
}

func (p *Provider) MarkAllNotificationsRead(ctx context.Context, parentID string) error {
	_, err := p.db.Exec(ctx,
		"UPDATE notifications SET read = true WHERE parent_id = $1 AND read = false", parentID)
	return dashboard.AccessError("mark notifications read", err)
}

func (p *Provider) UpdateRule(ctx context.Context, ruleID string, update model.RuleUpdate) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE rules
		SET enabled = COALESCE($1, enabled),
		    label = COALESCE($2, label),
		    value = COALESCE($3, value),
		    updated_at = $4
		WHERE id = $5`,
		update.Enabled, update.Label, update.Value, p.clock.Now(), ruleID)
	if err != nil {
		return dashboard.AccessError("update rule", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rule %s: %w", ruleID, dashboard.ErrNotFound)
	}
	return nil
}

func (p *Provider) AddChild(ctx context.Context, parentID string, child model.NewChild) (*model.Child, error) {
	if err := child.Validate(); err != nil {
		return nil, err
	}

	now := p.clock.Now()
	c := model.Child{
		ID:          p.idgen.New(),
		Name:        child.Name,
		Age:         child.Age,
		Avatar:      child.Avatar,
		LastSeen:    "Never",
		Status:      model.StatusOK,
		TopApps:     []model.AppUsageEntry{},
		WeeklyUsage: dashboard.BuildWeeklyUsage(now, nil),
		Rules:       []model.Rule{},
	}

	// Inserting through a SELECT on parents reports a missing parent as zero rows.
	tag, err := p.db.Exec(ctx, `
		INSERT INTO children (id, parent_id, name, age, avatar, status, created_at)
		SELECT $1, id, $3, $4, $5, $6, $7 FROM parents WHERE id = $2`,
		c.ID, parentID, c.Name, c.Age, c.Avatar, string(c.Status), now)
	if err != nil {
		return nil, dashboard.AccessError("add child", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("parent %s: %w", parentID, dashboard.ErrNotFound)
	}
	return &c, nil
}

func (p *Provider) GetParent(ctx context.Context, userID string) (*model.Parent, error) {
	var parent model.Parent
	err := p.db.QueryRow(ctx,
		"SELECT id, email, display_name, created_at FROM parents WHERE id = $1", userID,
	).Scan(&parent.ID, &parent.Email, &parent.DisplayName, &parent.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("parent %s: %w", userID, dashboard.ErrNotFound)
	}
	if err != nil {
		return nil, dashboard.AccessError("get parent", err)
	}
	return &parent, nil
}
