package seating

import "time"

// Policy holds the timing thresholds that drive arrival classification and
// status derivation. It is passed in at construction so tests can vary it;
// nothing in this package reads process-wide state.
type Policy struct {
	// ServiceDuration is how long a reservation holds its table when no
	// explicit end is given.
	ServiceDuration time.Duration

	// ReservationLookahead is how far before a reservation's scheduled
	// start its table already shows as reserved, so staff do not reseat
	// it just before the slot begins.
	ReservationLookahead time.Duration

	// PendingHoldGrace is how far past its scheduled start a pending
	// reservation still forces a provisional hold.
	PendingHoldGrace time.Duration

	// Arrival classification thresholds, all relative to the scheduled
	// start. More than EarlyThreshold before start is early; within
	// OnTimeWindow either side is on time; up to LateThreshold after is
	// late; up to NoShowThreshold is very late; beyond that, no-show.
	EarlyThreshold  time.Duration
	OnTimeWindow    time.Duration
	LateThreshold   time.Duration
	NoShowThreshold time.Duration
}

// DefaultPolicy returns the standard restaurant policy
func DefaultPolicy() Policy {
	return Policy{
		ServiceDuration:      2 * time.Hour,
		ReservationLookahead: 30 * time.Minute,
		PendingHoldGrace:     15 * time.Minute,
		EarlyThreshold:       15 * time.Minute,
		OnTimeWindow:         15 * time.Minute,
		LateThreshold:        30 * time.Minute,
		NoShowThreshold:      60 * time.Minute,
	}
}
