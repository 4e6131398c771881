package seating

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/huyng1801/restobot/internal/models"
)

// holdingStatuses are the reservation statuses that occupy a table's time
// window for conflict purposes.
var holdingStatuses = []models.ReservationStatus{
	models.ReservationStatusPending,
	models.ReservationStatusConfirmed,
}

// ConflictChecker answers whether a candidate time window collides with
// existing reservations, and finds tables free for a window.
type ConflictChecker struct {
	facts  Facts
	policy Policy
}

// NewConflictChecker creates a conflict checker over the given facts
func NewConflictChecker(facts Facts, policy Policy) *ConflictChecker {
	return &ConflictChecker{facts: facts, policy: policy}
}

// Conflicts reports whether the candidate window [start, end] overlaps any
// pending or confirmed reservation on the table. A zero end defaults to
// start plus the policy's service duration. excludeReservationID, if
// non-zero, is ignored in the check (used when rescheduling).
//
// Touching endpoints do not conflict: a window starting exactly when an
// existing one ends (or vice versa) is allowed, so back-to-back seatings
// share a boundary instant.
func (c *ConflictChecker) Conflicts(ctx context.Context, tableID uint, start, end time.Time, excludeReservationID uint) (bool, error) {
	start, end, err := c.normalizeWindow(start, end)
	if err != nil {
		return false, err
	}

	existing, err := c.facts.ListReservations(ctx, tableID, holdingStatuses, nil)
	if err != nil {
		return false, fmt.Errorf("listing reservations for table %d: %w", tableID, err)
	}

	for _, r := range existing {
		if excludeReservationID != 0 && r.ID == excludeReservationID {
			continue
		}
		if r.ScheduledStart.Before(end) && r.EstimatedEnd.After(start) {
			return true, nil
		}
	}
	return false, nil
}

// FindAvailable returns active, currently available tables with at least
// minCapacity seats and no reservation conflicting with the window, ordered
// smallest sufficient capacity first so callers can seat parties with the
// least wasted seats.
func (c *ConflictChecker) FindAvailable(ctx context.Context, minCapacity int, start, end time.Time) ([]models.Table, error) {
	if minCapacity <= 0 {
		return nil, fmt.Errorf("min capacity %d: %w", minCapacity, ErrInvalidInput)
	}
	start, end, err := c.normalizeWindow(start, end)
	if err != nil {
		return nil, err
	}

	tables, err := c.facts.ListActiveTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active tables: %w", err)
	}

	var available []models.Table
	for _, t := range tables {
		if t.Status != models.TableStatusAvailable || t.Capacity < minCapacity {
			continue
		}
		conflict, err := c.Conflicts(ctx, t.ID, start, end, 0)
		if err != nil {
			return nil, err
		}
		if !conflict {
			available = append(available, t)
		}
	}

	sort.Slice(available, func(i, j int) bool {
		if available[i].Capacity != available[j].Capacity {
			return available[i].Capacity < available[j].Capacity
		}
		return available[i].TableNumber < available[j].TableNumber
	})
	return available, nil
}

// normalizeWindow validates the candidate interval and applies the default
// service duration when no end is given.
func (c *ConflictChecker) normalizeWindow(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() {
		return start, end, fmt.Errorf("window start is required: %w", ErrInvalidInput)
	}
	if end.IsZero() {
		end = start.Add(c.policy.ServiceDuration)
	}
	if !end.After(start) {
		return start, end, fmt.Errorf("window end must be after start: %w", ErrInvalidInput)
	}
	return start, end, nil
}
