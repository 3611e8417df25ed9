package app

import (
	"time"

	"screentime-go/internal/dashboard"
)

// OperationIDLayout formats the start time into the operation ID that tags
// every log line of a CLI run.
const OperationIDLayout = "20060102T150405Z"

// Operation tracks one CLI command from start to finish.
type Operation struct {
	ID      string
	Name    string
	Started time.Time
	Status  string // "success" or "error"
	Err     error
}

// NewOperation creates an operation named after the CLI command
// (e.g. "Overview", "ExportReport").
func NewOperation(name string, now time.Time) *Operation {
	now = now.UTC()
	return &Operation{
		ID:      now.Format(OperationIDLayout),
		Name:    name,
		Started: now,
		Status:  "success",
	}
}

// Fail marks the operation as failed and returns err unchanged.
// A nil err leaves the operation untouched.
func (op *Operation) Fail(err error) error {
	if err != nil {
		op.Status = "error"
		op.Err = err
	}
	return err
}

// Finish logs the outcome and duration of the operation.
func (op *Operation) Finish(logger dashboard.Logger, now time.Time) {
	d := now.Sub(op.Started).Truncate(time.Millisecond)
	if op.Err != nil {
		logger.Error("operation finished", "operation", op.Name, "status", op.Status, "duration", d, "error", op.Err)
		return
	}
	logger.Info("operation finished", "operation", op.Name, "status", op.Status, "duration", d)
}
