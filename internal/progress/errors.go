package progress

import "fmt"

// ProgressNotInitializedError is returned when a step is submitted for a domain
// the user never initialized.
type ProgressNotInitializedError struct {
	UserID string
	Domain string
}

func (e *ProgressNotInitializedError) Error() string {
	return fmt.Sprintf("progress not initialized for domain %s", e.Domain)
}

// NoProgressError is returned when a final assessment arrives without a progress record.
type NoProgressError struct {
	UserID string
	Domain string
}

func (e *NoProgressError) Error() string {
	return fmt.Sprintf("no progress for domain %s", e.Domain)
}

// StepsIncompleteError is returned when a final assessment arrives before every step passed.
type StepsIncompleteError struct {
	Completed int
	Total     int
}

func (e *StepsIncompleteError) Error() string {
	return fmt.Sprintf("complete all steps first (%d of %d passed)", e.Completed, e.Total)
}

// StepLockedError is returned when a submission targets a step that is still locked.
type StepLockedError struct {
	Domain string
	StepID string
}

func (e *StepLockedError) Error() string {
	return fmt.Sprintf("step %s in domain %s is locked", e.StepID, e.Domain)
}

// ValidationError indicates an input value outside its allowed range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError is returned when a requested progress record does not exist.
type NotFoundError struct {
	UserID string
	Domain string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("progress not found for domain %s", e.Domain)
}

// StoreUnavailableError wraps every persistence failure surfaced by a Store.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("progress store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}
