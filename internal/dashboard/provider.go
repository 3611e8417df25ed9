// Package dashboard defines the boundary between the derivation core and the
// stores that supply it, and the Service that composes the two into the
// views a parent sees.
package dashboard

import (
	"context"

	"screentime-go/internal/model"
)

// Provider supplies domain records. Implementations are the in-memory demo
// dataset, the local SQLite store and the remote Postgres store.
//
// Store failures are returned as *DataAccessError. Missing parents, children
// and rules are reported with ErrNotFound.
type Provider interface {
	// ListChildren returns the parent's children in creation order with
	// today's app usage and the rolling week joined in. An unknown parent
	// yields an empty list.
	ListChildren(ctx context.Context, parentID string) ([]model.Child, error)

	// ListNotifications returns the parent's notifications, most recent
	// first, bounded by the provider's page size.
	ListNotifications(ctx context.Context, parentID string) ([]model.Notification, error)

	// MarkAllNotificationsRead marks every notification of the parent read.
	// Calling it again is a no-op.
	MarkAllNotificationsRead(ctx context.Context, parentID string) error

	// UpdateRule applies a partial update to a rule.
	UpdateRule(ctx context.Context, ruleID string, update model.RuleUpdate) error

	// AddChild creates a child for the parent and returns it.
	AddChild(ctx context.Context, parentID string, child model.NewChild) (*model.Child, error)

	// GetParent returns the parent profile for an authenticated user.
	GetParent(ctx context.Context, userID string) (*model.Parent, error)

	// Close releases the provider's resources.
	Close() error
}
