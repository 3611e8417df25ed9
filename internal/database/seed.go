package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"screentime-go/internal/dashboard"
	"screentime-go/internal/model"
	"screentime-go/internal/usage"
)

// Seed replaces everything stored for ds.Parent with the records of ds.
// Weekly points become dated usage rows in the week ending on now's date,
// each on the date carrying the point's weekday label. Today's row set is the
// child's TopApps; other days get a single "Other" row with the day's total. Display times such as "15 min ago" are turned back into
// timestamps relative to now.
func (s *SQLiteProvider) Seed(ctx context.Context, ds *dashboard.Dataset, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now.UTC()
	created := ds.Parent.CreatedAt
	if created.IsZero() {
		created = ts
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM parents WHERE id = ?", ds.Parent.ID); err != nil {
		return fmt.Errorf("clearing parent: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO parents (id, email, display_name, created_at) VALUES (?, ?, ?, ?)",
		ds.Parent.ID, ds.Parent.Email, ds.Parent.DisplayName, created.UTC()); err != nil {
		return fmt.Errorf("inserting parent: %w", err)
	}

	week := dashboard.Week(now)
	today := week[len(week)-1]
	byLabel := make(map[string]time.Time, len(week))
	for _, day := range week {
		byLabel[usage.DayLabel(day)] = day
	}
	for i, c := range ds.Children {
		// In the past and spaced apart, so creation order survives the
		// timestamp sort and children added later sort after them.
		childCreated := ts.Add(-time.Duration(len(ds.Children)-i) * time.Second)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO children (id, parent_id, name, age, platform, avatar, daily_limit, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, ds.Parent.ID, c.Name, c.Age, c.Platform, c.Avatar, c.DailyLimit, string(c.Status), childCreated); err != nil {
			return fmt.Errorf("inserting child %s: %w", c.ID, err)
		}

		if c.DeviceName != "" {
			online := c.LastSeen == "Now"
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO devices (id, child_id, name, is_online, last_seen, created_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				"dev-"+c.ID, c.ID, c.DeviceName, online, ParseDisplayTime(c.LastSeen, now).UTC(), childCreated); err != nil {
				return fmt.Errorf("inserting device for %s: %w", c.ID, err)
			}
		}

		for _, p := range c.WeeklyUsage {
			day, ok := byLabel[p.Day]
			if !ok || day.Equal(today) || p.Minutes == 0 {
				continue
			}
			if err := insertUsage(ctx, tx, s.idgen.New(), c.ID, day,
				model.AppUsageEntry{Name: "Other", Icon: "📱", Category: "Other", Usage: p.Minutes}); err != nil {
				return err
			}
		}
		for _, app := range c.TopApps {
			if err := insertUsage(ctx, tx, s.idgen.New(), c.ID, today, app); err != nil {
				return err
			}
		}

		for j, r := range c.Rules {
			ruleCreated := childCreated.Add(time.Duration(j) * time.Microsecond)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO rules (id, child_id, type, label, value, enabled, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				r.ID, c.ID, string(r.Type), r.Label, r.Value, r.Enabled, ruleCreated, ruleCreated); err != nil {
				return fmt.Errorf("inserting rule %s: %w", r.ID, err)
			}
		}
	}

	for i, n := range ds.Notifications {
		at := n.CreatedAt
		if at.IsZero() {
			// Later entries are older; keep the feed order on equal display times.
			at = ParseDisplayTime(n.Time, now).Add(-time.Duration(i) * time.Second)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (id, parent_id, type, title, body, read, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			n.ID, ds.Parent.ID, string(n.Type), n.Title, n.Body, n.Read, at.UTC()); err != nil {
			return fmt.Errorf("inserting notification %s: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertUsage(ctx context.Context, tx *sql.Tx, id, childID string, day time.Time, app model.AppUsageEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO app_usage (id, child_id, usage_date, app_name, icon, category, minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, childID, day.Format(dashboard.DateLayout), app.Name, app.Icon, app.Category, app.Usage)
	if err != nil {
		return fmt.Errorf("inserting usage for %s: %w", childID, err)
	}
	return nil
}

// ParseDisplayTime turns a display string back into a time relative to now.
// It understands "Now", "Yesterday", "N min ago", "N hours ago" and
// "N days ago"; anything else is now.
func ParseDisplayTime(display string, now time.Time) time.Time {
	switch display {
	case "Now", "":
		return now
	case "Yesterday":
		return now.AddDate(0, 0, -1)
	}
	fields := strings.Fields(display)
	if len(fields) != 3 || fields[2] != "ago" {
		return now
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return now
	}
	switch strings.TrimSuffix(fields[1], "s") {
	case "min", "minute":
		return now.Add(-time.Duration(n) * time.Minute)
	case "hour", "h":
		return now.Add(-time.Duration(n) * time.Hour)
	case "day":
		return now.AddDate(0, 0, -n)
	}
	return now
}
