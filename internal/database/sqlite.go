package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"screentime-go/internal/dashboard"
	"screentime-go/internal/database/migrations"
	"screentime-go/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteProvider implements dashboard.Provider on a local SQLite database.
type SQLiteProvider struct {
	db    *sql.DB
	path  string
	clock dashboard.Clock
	idgen dashboard.IDGenerator
	limit int
}

var _ dashboard.Provider = (*SQLiteProvider)(nil)

// NewSQLiteProvider opens the database at path, which can be a file path or
// ":memory:". Nil clock and idgen default to the real implementations; a
// limit of zero or less uses dashboard.DefaultNotificationLimit.
func NewSQLiteProvider(path string, clock dashboard.Clock, idgen dashboard.IDGenerator, limit int) (*SQLiteProvider, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	p := NewSQLiteProviderFromDB(db, clock, idgen, limit)
	p.path = path
	return p, nil
}

// NewSQLiteProviderFromDB wraps an existing connection. The caller is
// responsible for ensuring the connection is configured by OpenConnection.
func NewSQLiteProviderFromDB(db *sql.DB, clock dashboard.Clock, idgen dashboard.IDGenerator, limit int) *SQLiteProvider {
	if clock == nil {
		clock = dashboard.RealClock{}
	}
	if idgen == nil {
		idgen = dashboard.UUIDGenerator{}
	}
	if limit <= 0 {
		limit = dashboard.DefaultNotificationLimit
	}
	return &SQLiteProvider{db: db, clock: clock, idgen: idgen, limit: limit}
}

// OpenConnection opens and configures a SQLite connection.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer, and every ":memory:"
	// connection would otherwise be a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate brings the schema up to date.
func (s *SQLiteProvider) Migrate() error {
	return migrations.Up(s.db)
}

// CheckMigrations reports whether the schema is at the latest version.
func (s *SQLiteProvider) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}

// Path returns the database path the provider was opened with.
func (s *SQLiteProvider) Path() string { return s.path }

func (s *SQLiteProvider) ListChildren(ctx context.Context, parentID string) ([]model.Child, error) {
	now := s.clock.Now()
	week := dashboard.Week(now)
	from := week[0].Format(dashboard.DateLayout)
	today := week[len(week)-1].Format(dashboard.DateLayout)

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.age, c.platform, c.avatar, c.daily_limit, c.status,
		       d.name, d.is_online, d.last_seen
		FROM children c
		LEFT JOIN devices d ON d.id = (
			SELECT id FROM devices WHERE child_id = c.id ORDER BY created_at DESC LIMIT 1
		)
		WHERE c.parent_id = ?
		ORDER BY c.created_at, c.rowid`, parentID)
	if err != nil {
		return nil, dashboard.AccessError("list children", err)
	}

	set := dashboard.NewChildAssembler()
	for rows.Next() {
		var c model.Child
		var status string
		var device sql.NullString
		var online sql.NullBool
		var lastSeen sql.NullTime
		if err := rows.Scan(&c.ID, &c.Name, &c.Age, &c.Platform, &c.Avatar,
			&c.DailyLimit, &status, &device, &online, &lastSeen); err != nil {
			rows.Close()
			return nil, dashboard.AccessError("list children", err)
		}
		c.Status = model.ParseStatus(status)
		c.DeviceName = device.String
		set.AddChild(c, online.Bool, lastSeen.Time)
	}
	if err := closeRows(rows); err != nil {
		return nil, dashboard.AccessError("list children", err)
	}
	if set.Len() == 0 {
		return []model.Child{}, nil
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT a.child_id, a.app_name, a.icon, a.category, a.minutes
		FROM app_usage a
		JOIN children c ON c.id = a.child_id
		WHERE c.parent_id = ? AND a.usage_date = ?
		ORDER BY a.minutes DESC, a.app_name`, parentID, today)
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
	if err := closeRows(rows); err != nil {
		return nil, dashboard.AccessError("list app usage", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT a.child_id, a.usage_date, SUM(a.minutes)
		FROM app_usage a
		JOIN children c ON c.id = a.child_id
		WHERE c.parent_id = ? AND a.usage_date BETWEEN ? AND ?
		GROUP BY a.child_id, a.usage_date`, parentID, from, today)
	if err != nil {
		return nil, dashboard.AccessError("list weekly usage", err)
	}
	for rows.Next() {
		var childID, day string
		var minutes int
		if err := rows.Scan(&childID, &day, &minutes); err != nil {
			rows.Close()
			return nil, dashboard.AccessError("list weekly usage", err)
		}
		set.AddDayTotal(childID, day, minutes)
	}
	if err := closeRows(rows); err != nil {
		return nil, dashboard.AccessError("list weekly usage", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT r.child_id, r.id, r.type, r.label, r.value, r.enabled
		FROM rules r
		JOIN children c ON c.id = r.child_id
		WHERE c.parent_id = ?
		ORDER BY r.created_at, r.rowid`, parentID)
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
	if err := closeRows(rows); err != nil {
		return nil, dashboard.AccessError("list rules", err)
	}

	return set.Children(now), nil
}

func (s *SQLiteProvider) ListNotifications(ctx context.Context, parentID string) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, body, read, created_at
		FROM notifications
		WHERE parent_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, parentID, s.limit)
	if err != nil {
		return nil, dashboard.AccessError("list notifications", err)
	}
	defer rows.Close()

	now := s.clock.Now()
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

func (s *SQLiteProvider) MarkAllNotificationsRead(ctx context.Context, parentID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE parent_id = ? AND read = 0", parentID)
	return dashboard.AccessError("mark notifications read", err)
}

func (s *SQLiteProvider) UpdateRule(ctx context.Context, ruleID string, update model.RuleUpdate) error {
	var enabled sql.NullBool
	var label, value sql.NullString
	if update.Enabled != nil {
		enabled = sql.NullBool{Bool: *update.Enabled, Valid: true}
	}
	if update.Label != nil {
		label = sql.NullString{String: *update.Label, Valid: true}
	}
	if update.Value != nil {
		value = sql.NullString{String: *update.Value, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE rules
		SET enabled = COALESCE(?, enabled),
		    label = COALESCE(?, label),
		    value = COALESCE(?, value),
		    updated_at = ?
		WHERE id = ?`, enabled, label, value, s.clock.Now().UTC(), ruleID)
	if err != nil {
		return dashboard.AccessError("update rule", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dashboard.AccessError("update rule", err)
	}
	if n == 0 {
		return fmt.Errorf("rule %s: %w", ruleID, dashboard.ErrNotFound)
	}
	return nil
}

func (s *SQLiteProvider) AddChild(ctx context.Context, parentID string, child model.NewChild) (*model.Child, error) {
	if err := child.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetParent(ctx, parentID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	c := model.Child{
		ID:          s.idgen.New(),
		Name:        child.Name,
		Age:         child.Age,
		Avatar:      child.Avatar,
		LastSeen:    "Never",
		Status:      model.StatusOK,
		TopApps:     []model.AppUsageEntry{},
		WeeklyUsage: dashboard.BuildWeeklyUsage(now, nil),
		Rules:       []model.Rule{},
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO children (id, parent_id, name, age, avatar, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, parentID, c.Name, c.Age, c.Avatar, string(c.Status), now.UTC())
	if err != nil {
		return nil, dashboard.AccessError("add child", err)
	}
	return &c, nil
}

func (s *SQLiteProvider) GetParent(ctx context.Context, userID string) (*model.Parent, error) {
	var p model.Parent
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, display_name, created_at FROM parents WHERE id = ?", userID,
	).Scan(&p.ID, &p.Email, &p.DisplayName, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("parent %s: %w", userID, dashboard.ErrNotFound)
	}
	if err != nil {
		return nil, dashboard.AccessError("get parent", err)
	}
	return &p, nil
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}
