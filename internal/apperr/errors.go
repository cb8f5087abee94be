package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DelegateUnavailableError indicates that an external delegate (LLM or
// search) failed, timed out, or returned content that could not be parsed
// or validated.
type DelegateUnavailableError struct {
	Op  string
	Err error
}

func (e *DelegateUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: delegate unavailable", e.Op)
	}
	return fmt.Sprintf("%s: delegate unavailable: %v", e.Op, e.Err)
}

func (e *DelegateUnavailableError) Unwrap() error { return e.Err }

// Delegate wraps err as a DelegateUnavailableError for operation op.
// Returns nil when err is nil.
func Delegate(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DelegateUnavailableError{Op: op, Err: err}
}

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError indicates the underlying store failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err as a PersistenceError. Returns nil when err is nil
// and leaves ErrNotFound and ConflictError untouched.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// ConflictError indicates a stale or concurrent write was rejected.
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Message)
}

// IsDelegate reports whether err is (or wraps) a DelegateUnavailableError.
func IsDelegate(err error) bool {
	var d *DelegateUnavailableError
	return errors.As(err, &d)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
