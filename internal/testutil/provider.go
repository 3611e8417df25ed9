package testutil

import (
	"context"
	"testing"

	"screentime-go/internal/dashboard"
	"screentime-go/internal/database"
	"screentime-go/internal/model"
	"screentime-go/internal/provider"
)

// NewTestSQLiteProvider creates an in-memory SQLite provider with the schema
// applied and the demo dataset seeded as of clock.Now().
// The provider is closed when the test completes.
func NewTestSQLiteProvider(t *testing.T, clock dashboard.Clock) *database.SQLiteProvider {
	t.Helper()

	p, err := database.NewSQLiteProvider(":memory:", clock, NewStubIDGenerator(), 0)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { p.Close() })

	if err := p.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := p.Seed(context.Background(), provider.DemoDataset(), clock.Now()); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return p
}

// NewTestDemoProvider creates a demo provider with sequential IDs.
func NewTestDemoProvider() *provider.DemoProvider {
	return provider.NewDemoProvider(provider.DemoDataset(), NewStubIDGenerator(), 0)
}

// FailingProvider wraps a Provider and returns Err from every call whose
// name is listed in Fail. An empty Fail list fails every call.
type FailingProvider struct {
	dashboard.Provider
	Err  error
	Fail []string
}

func (f *FailingProvider) fails(op string) bool {
	if len(f.Fail) == 0 {
		return true
	}
	for _, name := range f.Fail {
		if name == op {
			return true
		}
	}
	return false
}

func (f *FailingProvider) ListChildren(ctx context.Context, parentID string) ([]model.Child, error) {
	if f.fails("ListChildren") {
		return nil, f.Err
	}
	return f.Provider.ListChildren(ctx, parentID)
}

func (f *FailingProvider) ListNotifications(ctx context.Context, parentID string) ([]model.Notification, error) {
	if f.fails("ListNotifications") {
		return nil, f.Err
	}
	return f.Provider.ListNotifications(ctx, parentID)
}

func (f *FailingProvider) MarkAllNotificationsRead(ctx context.Context, parentID string) error {
	if f.fails("MarkAllNotificationsRead") {
		return f.Err
	}
	return f.Provider.MarkAllNotificationsRead(ctx, parentID)
}

func (f *FailingProvider) UpdateRule(ctx context.Context, ruleID string, update model.RuleUpdate) error {
	if f.fails("UpdateRule") {
		return f.Err
	}
	return f.Provider.UpdateRule(ctx, ruleID, update)
}

func (f *FailingProvider) AddChild(ctx context.Context, parentID string, child model.NewChild) (*model.Child, error) {
	if f.fails("AddChild") {
		return nil, f.Err
	}
	return f.Provider.AddChild(ctx, parentID, child)
}

func (f *FailingProvider) GetParent(ctx context.Context, userID string) (*model.Parent, error) {
	if f.fails("GetParent") {
		return nil, f.Err
	}
	return f.Provider.GetParent(ctx, userID)
}
