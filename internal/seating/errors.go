// Package seating derives and maintains table status from reservation and
// order facts: time-window conflict checking, arrival tracking, and the
// status reconciler that owns every table status transition.
package seating

import "errors"

// Sentinel errors returned by seating operations. Callers classify failures
// with errors.Is; the messages here are not user-facing.
var (
	// ErrNotFound indicates a referenced table, reservation, or order
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState indicates the operation is not legal in the
	// entity's current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict indicates a booking would overlap an existing
	// reservation on the same table.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates malformed input such as a non-positive
	// party size or an interval that ends before it starts.
	ErrInvalidInput = errors.New("invalid input")
)
