// Package sentinel holds the facts stores report about persisted state.
// Services translate them into coded domain errors; validation failures never
// use them.
package sentinel

import "errors"

var (
	// ErrNotFound: no task (or object) with that id for the deal.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a uniqueness rule was hit, such as a reused idempotency
	// key or a second open system check for the same category.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState: the task is no longer OPEN.
	ErrInvalidState = errors.New("invalid state")
)
