package seating

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/huyng1801/restobot/internal/models"
)

// TransitionObserver receives every committed table status change. Observers
// are notified after the transaction commits, outside of it.
type TransitionObserver func(table models.Table, from, to models.TableStatus)

// transition records a committed status change for observer delivery
type transition struct {
	table models.Table
	from  models.TableStatus
	to    models.TableStatus
}

// Reconciler is the table status state machine. It derives the correct
// status for a table from its current reservation and order facts and owns
// every status write: all transitions funnel through setStatus, so no code
// path can bypass the machine.
type Reconciler struct {
	facts     Facts
	policy    Policy
	now       func() time.Time
	observers []TransitionObserver
}

// NewReconciler creates a reconciler over the given facts and policy
func NewReconciler(facts Facts, policy Policy) *Reconciler {
	return &Reconciler{
		facts:  facts,
		policy: policy,
		now:    time.Now,
	}
}

// Subscribe registers an observer for committed status transitions.
// Not safe to call concurrently with running operations; register
// observers during startup.
func (r *Reconciler) Subscribe(fn TransitionObserver) {
	r.observers = append(r.observers, fn)
}

// OnReservationChanged recomputes a table's status after its reservation was
// created, confirmed, or cancelled. A newly confirmed reservation marks the
// table reserved. A cancelled (or otherwise terminated) reservation triggers
// the cancellation rule: another confirmed reservation still covering now
// keeps it reserved, an active order keeps it occupied, otherwise it is
// released to available. A pending reservation only places a provisional
// hold when its start is close enough to now.
func (r *Reconciler) OnReservationChanged(ctx context.Context, reservationID uint) (*models.Table, error) {
	var updated *models.Table
	var changes []transition
	err := r.facts.InTransaction(ctx, func(tx Facts) error {
		res, err := tx.GetReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		table, err := tx.GetTable(ctx, res.TableID)
		if err != nil {
			return err
		}

		now := r.now()
		var target models.TableStatus
		switch res.Status {
		case models.ReservationStatusConfirmed:
			target = models.TableStatusReserved
		case models.ReservationStatusCancelled, models.ReservationStatusNoShow, models.ReservationStatusCompleted:
			target, err = r.afterRelease(ctx, tx, table.ID, now)
			if err != nil {
				return err
			}
		case models.ReservationStatusPending:
			if r.pendingHolds(res, now) {
				target = models.TableStatusReserved
			} else {
				updated = table
				return nil
			}
		default:
			updated = table
			return nil
		}

		updated, err = r.setStatus(ctx, tx, table, target, false, &changes)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.notify(changes)
	return updated, nil
}

// OnArrival asserts a table occupied when a guest sits down. The arrival is
// validated against the facts: a linked active order, or failing that a
// confirmed reservation whose window contains now. If neither backs the
// arrival the call is a no-op and returns (nil, nil), which callers use to
// reject a check-in with no reservation or order behind it.
func (r *Reconciler) OnArrival(ctx context.Context, tableID uint, orderID *uint) (*models.Table, error) {
	var updated *models.Table
	var changes []transition
	err := r.facts.InTransaction(ctx, func(tx Facts) error {
		table, err := tx.GetTable(ctx, tableID)
		if err != nil {
			return err
		}

		now := r.now()
		justified := false

		if orderID != nil {
			orders, err := tx.ListOrders(ctx, tableID, models.ActiveOrderStatuses)
			if err != nil {
				return err
			}
			for _, o := range orders {
				if o.ID == *orderID {
					justified = true
					break
				}
			}
		}

		if !justified {
			covering, err := r.coveringReservations(ctx, tx, tableID, now)
			if err != nil {
				return err
			}
			justified = len(covering) > 0
		}

		if !justified {
			return nil
		}
		updated, err = r.setStatus(ctx, tx, table, models.TableStatusOccupied, false, &changes)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.notify(changes)
	return updated, nil
}

// OnDeparture marks a table as cleaning when its party leaves. The follow-up
// state is decided later by CompleteCleaning; the two transitions are
// deliberately separate operations so the machine stays auditable.
func (r *Reconciler) OnDeparture(ctx context.Context, tableID uint) (*models.Table, error) {
	var updated *models.Table
	var changes []transition
	err := r.facts.InTransaction(ctx, func(tx Facts) error {
		table, err := tx.GetTable(ctx, tableID)
		if err != nil {
			return err
		}
		updated, err = r.setStatus(ctx, tx, table, models.TableStatusCleaning, false, &changes)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.notify(changes)
	return updated, nil
}

// CompleteCleaning moves a table out of cleaning: reserved when a confirmed
// reservation starts within the lookahead window, available otherwise.
// Fails with ErrInvalidState unless the table is currently cleaning.
func (r *Reconciler) CompleteCleaning(ctx context.Context, tableID uint) (*models.Table, error) {
	var updated *models.Table
	var changes []transition
	err := r.facts.InTransaction(ctx, func(tx Facts) error {
		table, err := tx.GetTable(ctx, tableID)
		if err != nil {
			return err
		}
		if table.Status != models.TableStatusCleaning {
			return fmt.Errorf("table %s is %s, not cleaning: %w", table.TableNumber, table.Status, ErrInvalidState)
		}

		next, err := r.nextAfterCleaning(ctx, tx, tableID, r.now())
		if err != nil {
			return err
		}
		updated, err = r.setStatus(ctx, tx, table, next, false, &changes)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.notify(changes)
	return updated, nil
}

// ReconcileTable re-derives one table's status from scratch and applies it
// when the persisted status disagrees. Returns the table and whether it
// changed.
func (r *Reconciler) ReconcileTable(ctx context.Context, tableID uint) (*models.Table, bool, error) {
	var updated *models.Table
	changed := false
	var changes []transition
	err := r.facts.InTransaction(ctx, func(tx Facts) error {
		table, err := tx.GetTable(ctx, tableID)
		if err != nil {
			return err
		}
		target, err := r.derive(ctx, tx, table, r.now())
		if err != nil {
			return err
		}
		if target == table.Status {
			updated = table
			return nil
		}
		changed = true
		updated, err = r.setStatus(ctx, tx, table, target, false, &changes)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	r.notify(changes)
	return updated, changed, nil
}

// ResyncAll re-derives every active table's status, correcting drift from
// missed events. Only tables whose persisted status disagrees with the
// derivation are written, so an immediate second sweep changes nothing. A
// failure on one table is logged and skipped rather than aborting the sweep.
func (r *Reconciler) ResyncAll(ctx context.Context) ([]models.Table, error) {
	tables, err := r.facts.ListActiveTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active tables: %w", err)
	}

	var updated []models.Table
	for _, t := range tables {
		table, changed, err := r.ReconcileTable(ctx, t.ID)
		if err != nil {
			log.Printf("Resync skipped table %s: %v", t.TableNumber, err)
			continue
		}
		if changed {
			updated = append(updated, *table)
		}
	}
	return updated, nil
}

// SetMaintenance places a table under, or releases it from, the manual
// maintenance hold. Maintenance is only entered and exited here; automated
// transitions never overwrite it.
func (r *Reconciler) SetMaintenance(ctx context.Context, tableID uint, on bool) (*models.Table, error) {
	var updated *models.Table
	var changes []transition
	err := r.facts.InTransaction(ctx, func(tx Facts) error {
		table, err := tx.GetTable(ctx, tableID)
		if err != nil {
			return err
		}
		if on {
			updated, err = r.setStatus(ctx, tx, table, models.TableStatusMaintenance, true, &changes)
			return err
		}
		if table.Status != models.TableStatusMaintenance {
			return fmt.Errorf("table %s is %s, not maintenance: %w", table.TableNumber, table.Status, ErrInvalidState)
		}
		target, err := r.derive(ctx, tx, table, r.now())
		if err != nil {
			return err
		}
		// derive preserves the current maintenance hold; leaving it means
		// falling back to available unless the facts say otherwise.
		if target == models.TableStatusMaintenance {
			target = models.TableStatusAvailable
		}
		updated, err = r.setStatus(ctx, tx, table, target, true, &changes)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.notify(changes)
	return updated, nil
}

// StatusSummary counts active tables per status, for dashboards
func (r *Reconciler) StatusSummary(ctx context.Context) (map[models.TableStatus]int, error) {
	tables, err := r.facts.ListActiveTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active tables: %w", err)
	}
	summary := make(map[models.TableStatus]int, len(models.AllTableStatuses))
	for _, s := range models.AllTableStatuses {
		summary[s] = 0
	}
	for _, t := range tables {
		summary[t.Status]++
	}
	return summary, nil
}

// derive computes what a table's status should be from current facts, in
// strict priority order: an active order means occupied; a confirmed
// reservation covering now (with the lookahead) means reserved; a manual
// maintenance hold is preserved; otherwise the table is available.
func (r *Reconciler) derive(ctx context.Context, tx Facts, table *models.Table, now time.Time) (models.TableStatus, error) {
	orders, err := tx.ListOrders(ctx, table.ID, models.ActiveOrderStatuses)
	if err != nil {
		return "", fmt.Errorf("listing orders for table %d: %w", table.ID, err)
	}
	if len(orders) > 0 {
		return models.TableStatusOccupied, nil
	}

	covering, err := r.coveringReservations(ctx, tx, table.ID, now)
	if err != nil {
		return "", err
	}
	if len(covering) > 0 {
		return models.TableStatusReserved, nil
	}

	if table.Status == models.TableStatusMaintenance {
		return models.TableStatusMaintenance, nil
	}
	return models.TableStatusAvailable, nil
}

// coveringReservations returns the confirmed reservations whose window
// contains now, extended forward by the reservation lookahead:
// scheduled_start <= now+lookahead and estimated_end >= now.
func (r *Reconciler) coveringReservations(ctx context.Context, tx Facts, tableID uint, now time.Time) ([]models.Reservation, error) {
	confirmed, err := tx.ListReservations(ctx, tableID,
		[]models.ReservationStatus{models.ReservationStatusConfirmed}, nil)
	if err != nil {
		return nil, fmt.Errorf("listing reservations for table %d: %w", tableID, err)
	}
	horizon := now.Add(r.policy.ReservationLookahead)
	var covering []models.Reservation
	for _, res := range confirmed {
		if !res.ScheduledStart.After(horizon) && !res.EstimatedEnd.Before(now) {
			covering = append(covering, res)
		}
	}
	return covering, nil
}

// afterRelease decides a table's status once a reservation stops holding it
// (cancellation, no-show, completion): reserved if another confirmed
// reservation still runs past now, occupied if an active order remains,
// available otherwise.
func (r *Reconciler) afterRelease(ctx context.Context, tx Facts, tableID uint, now time.Time) (models.TableStatus, error) {
	confirmed, err := tx.ListReservations(ctx, tableID,
		[]models.ReservationStatus{models.ReservationStatusConfirmed}, nil)
	if err != nil {
		return "", fmt.Errorf("listing reservations for table %d: %w", tableID, err)
	}
	for _, res := range confirmed {
		if !res.EstimatedEnd.Before(now) {
			return models.TableStatusReserved, nil
		}
	}

	orders, err := tx.ListOrders(ctx, tableID, models.ActiveOrderStatuses)
	if err != nil {
		return "", fmt.Errorf("listing orders for table %d: %w", tableID, err)
	}
	if len(orders) > 0 {
		return models.TableStatusOccupied, nil
	}
	return models.TableStatusAvailable, nil
}

// nextAfterCleaning decides what follows the cleaning state: reserved when a
// confirmed reservation starts within the lookahead window, else available.
func (r *Reconciler) nextAfterCleaning(ctx context.Context, tx Facts, tableID uint, now time.Time) (models.TableStatus, error) {
	horizon := now.Add(r.policy.ReservationLookahead)
	upcoming, err := tx.ListReservations(ctx, tableID,
		[]models.ReservationStatus{models.ReservationStatusConfirmed},
		&TimeRange{Start: &now, End: &horizon})
	if err != nil {
		return "", fmt.Errorf("listing upcoming reservations for table %d: %w", tableID, err)
	}
	if len(upcoming) > 0 {
		return models.TableStatusReserved, nil
	}
	return models.TableStatusAvailable, nil
}

// pendingHolds reports whether a pending reservation is close enough to its
// slot to place a provisional hold on the table.
func (r *Reconciler) pendingHolds(res *models.Reservation, now time.Time) bool {
	return !res.ScheduledStart.After(now.Add(r.policy.ReservationLookahead)) &&
		!res.ScheduledStart.Before(now.Add(-r.policy.PendingHoldGrace))
}

// setStatus is the single writer for table status. Every transition in this
// package ends here, so changes are logged and observed in one place. A
// maintenance hold is never overwritten unless force is set, which only the
// explicit administrative operations use.
func (r *Reconciler) setStatus(ctx context.Context, tx Facts, table *models.Table, status models.TableStatus, force bool, changes *[]transition) (*models.Table, error) {
	if table.Status == status {
		return table, nil
	}
	if table.Status == models.TableStatusMaintenance && !force {
		log.Printf("Table %s is under maintenance, keeping hold instead of %s", table.TableNumber, status)
		return table, nil
	}

	from := table.Status
	updated, err := tx.SetTableStatus(ctx, table.ID, status)
	if err != nil {
		return nil, fmt.Errorf("setting table %d status: %w", table.ID, err)
	}
	log.Printf("Table %s status updated to %s", updated.TableNumber, status)
	*changes = append(*changes, transition{table: *updated, from: from, to: status})
	return updated, nil
}

// notify delivers committed transitions to subscribed observers
func (r *Reconciler) notify(changes []transition) {
	for _, ch := range changes {
		for _, ob := range r.observers {
			ob(ch.table, ch.from, ch.to)
		}
	}
}
