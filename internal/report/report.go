// Package report builds the weekly usage report that backs the "Weekly report
// ready" notification, and exports it encrypted to a report vault.
package report

import (
	"context"
	"fmt"
	"time"

	"screentime-go/internal/dashboard"
	"screentime-go/internal/model"
	"screentime-go/internal/usage"
)

// Report is one parent's weekly summary.
type Report struct {
	ParentID    string        `json:"parent_id"`
	ParentName  string        `json:"parent_name"`
	WeekEnding  string        `json:"week_ending"` // YYYY-MM-DD
	GeneratedAt time.Time     `json:"generated_at"`
	TotalUsage  int           `json:"total_minutes"`
	TotalText   string        `json:"total"`
	Children    []ChildReport `json:"children"`
}

// ChildReport holds one child's numbers for the week.
type ChildReport struct {
	ChildID       string `json:"child_id"`
	Name          string `json:"name"`
	WeekTotal     int    `json:"week_total_minutes"`
	WeekTotalText string `json:"week_total"`
	DailyAverage  int    `json:"daily_average_minutes"`
	AverageText   string `json:"daily_average"`
	BusiestDay    string `json:"busiest_day,omitempty"`
	BusiestUsage  int    `json:"busiest_day_minutes"`
	DailyLimit    int    `json:"daily_limit_minutes"`
	DaysOverLimit int    `json:"days_over_limit"`
	TopApp        string `json:"top_app,omitempty"`
	TopAppUsage   int    `json:"top_app_minutes"`
	Status        string `json:"status"`
}

// Build computes the report for the given parent and children as of now.
func Build(parent model.Parent, children []model.Child, now time.Time) *Report {
	r := &Report{
		ParentID:    parent.ID,
		ParentName:  parent.DisplayName,
		WeekEnding:  now.Format(dashboard.DateLayout),
		GeneratedAt: now,
		Children:    make([]ChildReport, 0, len(children)),
	}
	for _, c := range children {
		cr := buildChild(c)
		r.TotalUsage += cr.WeekTotal
		r.Children = append(r.Children, cr)
	}
	r.TotalText = usage.FormatMinutes(r.TotalUsage)
	return r
}

func buildChild(c model.Child) ChildReport {
	cr := ChildReport{
		ChildID:    c.ID,
		Name:       c.Name,
		DailyLimit: c.DailyLimit,
		Status:     usage.StatusLabel(c.Status),
	}
	for _, p := range c.WeeklyUsage {
		cr.WeekTotal += p.Minutes
		if p.Minutes > cr.BusiestUsage {
			cr.BusiestDay, cr.BusiestUsage = p.Day, p.Minutes
		}
		if c.DailyLimit > 0 && p.Minutes > c.DailyLimit {
			cr.DaysOverLimit++
		}
	}
	if n := len(c.WeeklyUsage); n > 0 {
		cr.DailyAverage = cr.WeekTotal / n
	}
	for _, a := range c.TopApps {
		if a.Usage > cr.TopAppUsage {
			cr.TopApp, cr.TopAppUsage = a.Name, a.Usage
		}
	}
	cr.WeekTotalText = usage.FormatMinutes(cr.WeekTotal)
	cr.AverageText = usage.FormatMinutes(cr.DailyAverage)
	return cr
}

// Source supplies the records a report is built from. *dashboard.Service
// satisfies it.
type Source interface {
	Parent(ctx context.Context, userID string) (*model.Parent, error)
	Children(ctx context.Context, parentID string) ([]model.Child, error)
}

var _ Source = (*dashboard.Service)(nil)

// Generate loads the parent's records from src and builds the report.
func Generate(ctx context.Context, src Source, parentID string, now time.Time) (*Report, error) {
	parent, err := src.Parent(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("loading parent: %w", err)
	}
	children, err := src.Children(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("loading children: %w", err)
	}
	return Build(*parent, children, now), nil
}
