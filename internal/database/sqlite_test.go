package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"screentime-go/internal/dashboard"
	"screentime-go/internal/database"
	"screentime-go/internal/model"
	"screentime-go/internal/provider"
	"screentime-go/internal/testutil"
)

func TestSQLiteProvider_NotificationTimes(t *testing.T) {
	clock := testutil.FixedClock()
	p := testutil.NewTestSQLiteProvider(t, clock)

	notes, err := p.ListNotifications(context.Background(), provider.DemoParentID)
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}

	want := []string{"2 minutes ago", "15 minutes ago", "Yesterday", "Yesterday"}
	for i, w := range want {
		if notes[i].Time != w {
			t.Errorf("notifications[%d].Time = %q, want %q", i, notes[i].Time, w)
		}
		if notes[i].CreatedAt.IsZero() {
			t.Errorf("notifications[%d].CreatedAt is zero", i)
		}
	}

	clock.Advance(3 * time.Hour)
	notes, err = p.ListNotifications(context.Background(), provider.DemoParentID)
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	if notes[0].Time != "3 hours ago" {
		t.Errorf("after 3h notifications[0].Time = %q, want %q", notes[0].Time, "3 hours ago")
	}
}

func TestSQLiteProvider_WeekRollsWithClock(t *testing.T) {
	clock := testutil.FixedClock()
	p := testutil.NewTestSQLiteProvider(t, clock)
	ctx := context.Background()

	children, err := p.ListChildren(ctx, provider.DemoParentID)
	if err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}
	if got := children[0].WeeklyUsage[6].Day; got != "Sat" {
		t.Errorf("last weekly day = %q, want Sat", got)
	}

	// The next day has no usage yet, and the oldest day drops out.
	clock.Advance(24 * time.Hour)
	children, err = p.ListChildren(ctx, provider.DemoParentID)
	if err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}
	alex := children[0]
	if alex.TodayUsage != 0 || len(alex.TopApps) != 0 {
		t.Errorf("next day TodayUsage = %d with %d apps, want 0", alex.TodayUsage, len(alex.TopApps))
	}
	if alex.WeeklyUsage[6].Day != "Sun" || alex.WeeklyUsage[6].Minutes != 0 {
		t.Errorf("WeeklyUsage[6] = %+v, want Sun 0", alex.WeeklyUsage[6])
	}
	if alex.WeeklyUsage[5].Minutes != 150 {
		t.Errorf("WeeklyUsage[5] = %d, want 150", alex.WeeklyUsage[5].Minutes)
	}
	if alex.WeeklyUsage[0].Day != "Mon" || alex.WeeklyUsage[0].Minutes != 180 {
		t.Errorf("WeeklyUsage[0] = %+v, want Mon 180", alex.WeeklyUsage[0])
	}
}

func TestSQLiteProvider_SeedReplaces(t *testing.T) {
	clock := testutil.FixedClock()
	p := testutil.NewTestSQLiteProvider(t, clock)
	ctx := context.Background()

	if _, err := p.AddChild(ctx, provider.DemoParentID, model.NewChild{Name: "Sam", Age: 8}); err != nil {
		t.Fatalf("AddChild() error = %v", err)
	}
	if err := p.Seed(ctx, provider.DemoDataset(), clock.Now()); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}

	children, err := p.ListChildren(ctx, provider.DemoParentID)
	if err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}
	if len(children) != 2 {
		t.Errorf("len(children) after reseed = %d, want 2", len(children))
	}
}

func TestSQLiteProvider_CheckMigrations(t *testing.T) {
	p, err := database.NewSQLiteProvider(":memory:", nil, nil, 0)
	if err != nil {
		t.Fatalf("NewSQLiteProvider() error = %v", err)
	}
	defer p.Close()

	if err := p.CheckMigrations(); err == nil {
		t.Error("CheckMigrations() on empty database expected error")
	}
	if err := p.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := p.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() after Migrate() error = %v", err)
	}
}

func TestSQLiteProvider_ClosedDatabase(t *testing.T) {
	p, err := database.NewSQLiteProvider(":memory:", nil, nil, 0)
	if err != nil {
		t.Fatalf("NewSQLiteProvider() error = %v", err)
	}
	p.Close()

	_, err = p.ListChildren(context.Background(), provider.DemoParentID)
	var dae *dashboard.DataAccessError
	if !errors.As(err, &dae) {
		t.Fatalf("ListChildren() on closed db error = %v, want *DataAccessError", err)
	}
	if dae.Op != "list children" {
		t.Errorf("Op = %q, want %q", dae.Op, "list children")
	}
}

func TestParseDisplayTime(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"Now", now},
		{"", now},
		{"2 min ago", now.Add(-2 * time.Minute)},
		{"15 minutes ago", now.Add(-15 * time.Minute)},
		{"3 hours ago", now.Add(-3 * time.Hour)},
		{"Yesterday", now.AddDate(0, 0, -1)},
		{"4 days ago", now.AddDate(0, 0, -4)},
		{"last week", now},
		{"x min ago", now},
	}
	for _, tt := range tests {
		if got := database.ParseDisplayTime(tt.in, now); !got.Equal(tt.want) {
			t.Errorf("ParseDisplayTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
