package dashboard

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a parent, child or rule does not exist.
var ErrNotFound = errors.New("not found")

// DataAccessError wraps a failure of the underlying store.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// AccessError wraps err as a *DataAccessError for op. A nil err stays nil.
func AccessError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Err: err}
}
