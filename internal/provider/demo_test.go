package provider

import (
	"context"
	"sync"
	"testing"

	"screentime-go/internal/config"
	"screentime-go/internal/dashboard"
	"screentime-go/internal/model"
)

func TestDemoDataset_Shape(t *testing.T) {
	ds := DemoDataset()

	if len(ds.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(ds.Children))
	}
	if len(ds.Notifications) != 4 {
		t.Errorf("len(Notifications) = %d, want 4", len(ds.Notifications))
	}

	ruleIDs := map[string]bool{}
	for _, c := range ds.Children {
		if len(c.WeeklyUsage) != model.DaysPerWeek {
			t.Errorf("%s: len(WeeklyUsage) = %d, want 7", c.Name, len(c.WeeklyUsage))
		}
		if len(c.TopApps) != 6 {
			t.Errorf("%s: len(TopApps) = %d, want 6", c.Name, len(c.TopApps))
		}
		if len(c.Rules) != 3 {
			t.Errorf("%s: len(Rules) = %d, want 3", c.Name, len(c.Rules))
		}
		if err := c.Validate(); err != nil {
			t.Errorf("%s: Validate() error = %v", c.Name, err)
		}
		sum := 0
		for i, a := range c.TopApps {
			if a.Name == "" || a.Icon == "" {
				t.Errorf("%s: TopApps[%d] = %+v, want non-empty name and icon", c.Name, i, a)
			}
			if a.Usage < 0 {
				t.Errorf("%s: TopApps[%d].Usage = %d, want >= 0", c.Name, i, a.Usage)
			}
			sum += a.Usage
		}
		if sum != c.TodayUsage {
			t.Errorf("%s: app usage sums to %d, TodayUsage = %d", c.Name, sum, c.TodayUsage)
		}
		for _, r := range c.Rules {
			if ruleIDs[r.ID] {
				t.Errorf("rule ID %q is not unique", r.ID)
			}
			ruleIDs[r.ID] = true
		}
	}

	if ds.Children[0].Status != model.StatusOK || ds.Children[1].Status != model.StatusWarning {
		t.Errorf("statuses = %q, %q; want ok, warning", ds.Children[0].Status, ds.Children[1].Status)
	}
}

func TestDemoDataset_FreshEachCall(t *testing.T) {
	a := DemoDataset()
	a.Children[0].Name = "changed"
	a.Children[0].TopApps[0].Usage = 999
	a.Notifications[0].Read = true

	b := DemoDataset()
	if b.Children[0].Name != "Alex Chen" || b.Children[0].TopApps[0].Usage != 45 || b.Notifications[0].Read {
		t.Error("DemoDataset() returned records shared with an earlier call")
	}
}

func TestDemoProvider_Isolation(t *testing.T) {
	ctx := context.Background()
	ds := DemoDataset()
	p1 := NewDemoProvider(ds, nil, 0)
	p2 := NewDemoProvider(ds, nil, 0)

	if err := p1.MarkAllNotificationsRead(ctx, DemoParentID); err != nil {
		t.Fatalf("MarkAllNotificationsRead() error = %v", err)
	}
	if ds.Notifications[0].Read {
		t.Error("provider mutated the dataset it was created from")
	}
	notes, _ := p2.ListNotifications(ctx, DemoParentID)
	if notes[0].Read {
		t.Error("mutation leaked into another provider")
	}

	children, _ := p1.ListChildren(ctx, DemoParentID)
	children[0].Rules[0].Enabled = false
	again, _ := p1.ListChildren(ctx, DemoParentID)
	if !again[0].Rules[0].Enabled {
		t.Error("ListChildren returned records aliasing provider state")
	}
}

func TestDemoProvider_NotificationLimit(t *testing.T) {
	p := NewDemoProvider(DemoDataset(), nil, 3)
	notes, err := p.ListNotifications(context.Background(), DemoParentID)
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	if len(notes) != 3 {
		t.Errorf("len(notifications) = %d, want 3", len(notes))
	}
}

func TestDemoProvider_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	p := NewDemoProvider(DemoDataset(), nil, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = p.ListChildren(ctx, DemoParentID)
		}()
		go func(i int) {
			defer wg.Done()
			on := i%2 == 0
			_ = p.UpdateRule(ctx, "r1", model.RuleUpdate{Enabled: &on})
		}(i)
	}
	wg.Wait()
}

func TestNewProviderFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("demo", func(t *testing.T) {
		p, err := NewProviderFromConfig(ctx, config.ProviderConfig{Type: "demo"}, nil, nil)
		if err != nil {
			t.Fatalf("NewProviderFromConfig() error = %v", err)
		}
		defer p.Close()
		if _, ok := p.(*DemoProvider); !ok {
			t.Errorf("provider type = %T, want *DemoProvider", p)
		}
	})

	t.Run("sqlite without migrations", func(t *testing.T) {
		cfg := config.ProviderConfig{Type: "sqlite", DataDir: t.TempDir()}
		p, err := NewProviderFromConfig(ctx, cfg, dashboard.RealClock{}, nil)
		if err == nil {
			p.Close()
			t.Fatal("NewProviderFromConfig() expected error for unmigrated database")
		}
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		_, err := NewProviderFromConfig(ctx, config.ProviderConfig{Type: "postgres"}, nil, nil)
		if err == nil {
			t.Fatal("NewProviderFromConfig() expected error for missing dsn")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewProviderFromConfig(ctx, config.ProviderConfig{Type: "firebase"}, nil, nil)
		if err == nil {
			t.Fatal("NewProviderFromConfig() expected error for unknown type")
		}
	})
}
