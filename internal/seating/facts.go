package seating

import (
	"context"
	"time"

	"github.com/huyng1801/restobot/internal/models"
)

// TimeRange is an optional filter on a reservation's scheduled start
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls within the range. Nil bounds are open.
func (tr TimeRange) Contains(t time.Time) bool {
	if tr.Start != nil && t.Before(*tr.Start) {
		return false
	}
	if tr.End != nil && t.After(*tr.End) {
		return false
	}
	return true
}

// FactsReader is the read-only view over persisted tables, reservations, and
// orders that the reconciler and trackers query. It is owned by the storage
// layer; this package only defines the boundary it consumes.
type FactsReader interface {
	GetTable(ctx context.Context, id uint) (*models.Table, error)
	ListActiveTables(ctx context.Context) ([]models.Table, error)
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)

	// ListReservations returns reservations for a table, filtered by
	// status and optionally by scheduled start. tableID 0 means all
	// tables; nil statuses means any status.
	ListReservations(ctx context.Context, tableID uint, statuses []models.ReservationStatus, window *TimeRange) ([]models.Reservation, error)

	// ListOrders returns orders for a table filtered by status
	ListOrders(ctx context.Context, tableID uint, statuses []models.OrderStatus) ([]models.Order, error)
}

// FactsWriter is the narrow write surface the core needs. Table status goes
// through SetTableStatus only, and only the reconciler calls it.
type FactsWriter interface {
	SetTableStatus(ctx context.Context, id uint, status models.TableStatus) (*models.Table, error)
	SetReservationStatus(ctx context.Context, id uint, status models.ReservationStatus) error

	// SetReservationArrival records the arrival fields. A zero time
	// stores the classification with no arrival timestamp, which is how
	// no-shows are marked.
	SetReservationArrival(ctx context.Context, id uint, at time.Time, classification models.ArrivalClassification) error
}

// Facts combines the read and write surfaces with a transaction boundary.
// Each logical seating operation runs as a single InTransaction call: read
// facts, compute, write. The storage layer provides at-least read-committed
// isolation; implementations may lock the table row during status writes.
type Facts interface {
	FactsReader
	FactsWriter

	// InTransaction runs fn against a transactional view of the facts
	// and commits if fn returns nil, rolling back otherwise.
	InTransaction(ctx context.Context, fn func(Facts) error) error
}
