package model

import "fmt"

// DaysPerWeek is the required length of Child.WeeklyUsage.
const DaysPerWeek = 7

// MaxChildAge bounds NewChild.Age.
const MaxChildAge = 25

// ValidationError reports a malformed record or input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the structural invariants of a Child record.
// It returns the first violation found, or nil.
func (c *Child) Validate() error {
	if len(c.WeeklyUsage) != DaysPerWeek {
		return &ValidationError{
			Field:  "weekly_usage",
			Reason: fmt.Sprintf("want %d days, got %d", DaysPerWeek, len(c.WeeklyUsage)),
		}
	}
	if c.TodayUsage < 0 {
		return &ValidationError{Field: "today_usage", Reason: "negative minutes"}
	}
	for i, p := range c.WeeklyUsage {
		if p.Minutes < 0 {
			return &ValidationError{Field: fmt.Sprintf("weekly_usage[%d]", i), Reason: "negative minutes"}
		}
	}
	for i, a := range c.TopApps {
		if a.Usage < 0 {
			return &ValidationError{Field: fmt.Sprintf("top_apps[%d]", i), Reason: "negative minutes"}
		}
	}
	return nil
}

// Validate checks the fields of a NewChild.
func (n NewChild) Validate() error {
	if n.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if n.Age < 0 || n.Age > MaxChildAge {
		return &ValidationError{Field: "age", Reason: fmt.Sprintf("must be between 0 and %d", MaxChildAge)}
	}
	return nil
}
