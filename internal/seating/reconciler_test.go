package seating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huyng1801/restobot/internal/models"
)

// noon is the fixed clock used by the reconciler tests
var noon = at(12, 0)

func newTestReconciler(facts Facts) *Reconciler {
	r := NewReconciler(facts, DefaultPolicy())
	r.now = func() time.Time { return noon }
	return r
}

func TestReconcileTableOrderBeatsReservation(t *testing.T) {
	facts := newMemFacts()
	table := facts.addTable("T1", 4, models.TableStatusAvailable)
	facts.addReservation(table.ID, models.ReservationStatusConfirmed, at(12, 15), 2)
	facts.addOrder(table.ID, models.OrderStatusConfirmed)

	r := newTestReconciler(facts)

	updated, changed, err := r.ReconcileTable(context.Background(), table.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.TableStatusOccupied, updated.Status, "an active order outranks a covering reservation")
}

func TestReconcileTableReservationLookahead(t *testing.T) {
	facts := newMemFacts()
	r := newTestReconciler(facts)
	ctx := context.Background()

	// Starts 20 minutes out, inside the 30 minute lookahead
	soon := facts.addTable("T1", 4, models.TableStatusAvailable)
	facts.addReservation(soon.ID, models.ReservationStatusConfirmed, at(12, 20), 2)

	// Starts 45 minutes out, beyond the lookahead
	later := facts.addTable("T2", 4, models.TableStatusAvailable)
	facts.addReservation(later.ID, models.ReservationStatusConfirmed, at(12, 45), 2)

	updated, changed, err := r.ReconcileTable(ctx, soon.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.TableStatusReserved, updated.Status)

	updated, changed, err = r.ReconcileTable(ctx, later.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.TableStatusAvailable, updated.Status)
}

func TestReconcileTablePreservesMaintenance(t *testing.T) {
	facts := newMemFacts()
	table := facts.addTable("T1", 4, models.TableStatusMaintenance)

	r := newTestReconciler(facts)

	updated, changed, err := r.ReconcileTable(context.Background(), table.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.TableStatusMaintenance, updated.Status)
}

func TestReconcileTableNotFound(t *testing.T) {
	r := newTestReconciler(newMemFacts())

	_, _, err := r.ReconcileTable(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResyncAllIdempotent(t *testing.T) {
	facts := newMemFacts()
	// Persisted statuses drifted away from the facts
	drifted := facts.addTable("T1", 4, models.TableStatusReserved)
	occupied := facts.addTable("T2", 4, models.TableStatusAvailable)
	facts.addOrder(occupied.ID, models.OrderStatusServed)
	fine := facts.addTable("T3", 4, models.TableStatusAvailable)

	r := newTestReconciler(facts)
	ctx := context.Background()

	updated, err := r.ResyncAll(ctx)
	require.NoError(t, err)
	require.Len(t, updated, 2)

	got, err := facts.GetTable(ctx, drifted.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusAvailable, got.Status)

	got, err = facts.GetTable(ctx, occupied.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, got.Status)

	got, err = facts.GetTable(ctx, fine.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusAvailable, got.Status)

	// A second sweep finds nothing left to correct
	updated, err = r.ResyncAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, updated)
}

func TestOnReservationChangedConfirmed(t *testing.T) {
	facts := newMemFacts()
	table := facts.addTable("T1", 4, models.TableStatusAvailable)
	res := facts.addReservation(table.ID, models.ReservationStatusConfirmed, at(19, 0), 2)

	r := newTestReconciler(facts)

	updated, err := r.OnReservationChanged(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusReserved, updated.Status)
}

func TestOnReservationChangedCancelled(t *testing.T) {
	ctx := context.Background()

	t.Run("released to available", func(t *testing.T) {
		facts := newMemFacts()
		table := facts.addTable("T1", 4, models.TableStatusReserved)
		res := facts.addReservation(table.ID, models.ReservationStatusCancelled, at(12, 15), 2)

		r := newTestReconciler(facts)
		updated, err := r.OnReservationChanged(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TableStatusAvailable, updated.Status)
	})

	t.Run("another reservation still covers", func(t *testing.T) {
		facts := newMemFacts()
		table := facts.addTable("T1", 4, models.TableStatusReserved)
		res := facts.addReservation(table.ID, models.ReservationStatusCancelled, at(12, 15), 2)
		facts.addReservation(table.ID, models.ReservationStatusConfirmed, at(13, 0), 2)

		r := newTestReconciler(facts)
		updated, err := r.OnReservationChanged(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TableStatusReserved, updated.Status)
	})

	t.Run("active order keeps it occupied", func(t *testing.T) {
		facts := newMemFacts()
		table := facts.addTable("T1", 4, models.TableStatusReserved)
		res := facts.addReservation(table.ID, models.ReservationStatusCancelled, at(12, 15), 2)
		facts.addOrder(table.ID, models.OrderStatusPending)

		r := newTestReconciler(facts)
		updated, err := r.OnReservationChanged(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TableStatusOccupied, updated.Status)
	})
}

func TestOnReservationChangedPendingHold(t *testing.T) {
	ctx := context.Background()

	t.Run("imminent pending holds the table", func(t *testing.T) {
		facts := newMemFacts()
		table := facts.addTable("T1", 4, models.TableStatusAvailable)
		res := facts.addReservation(table.ID, models.ReservationStatusPending, at(12, 20), 2)

		r := newTestReconciler(facts)
		updated, err := r.OnReservationChanged(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TableStatusReserved, updated.Status)
	})

	t.Run("distant pending leaves it alone", func(t *testing.T) {
		facts := newMemFacts()
		table := facts.addTable("T1", 4, models.TableStatusAvailable)
		res := facts.addReservation(table.ID, models.ReservationStatusPending, at(19, 0), 2)

		r := newTestReconciler(facts)
		updated, err := r.OnReservationChanged(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TableStatusAvailable, updated.Status)
	})
}

func TestOnArrival(t *testing.T) {
	ctx := context.Background()

	t.Run("covering reservation justifies occupancy", func(t *testing.T) {
		facts := newMemFacts()
		table := facts.addTable("T1", 4, models.TableStatusReserved)
		facts.addReservation(table.ID, models.ReservationStatusConfirmed, at(12, 15), 2)

		r := newTestReconciler(facts)
		updated, err := r.OnArrival(ctx, table.ID, nil)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, models.TableStatusOccupied, updated.Status)
	})

	t.Run("linked active order justifies occupancy", func(t *testing.T) {
		facts := newMemFacts()
		table := facts.addTable("T1", 4, models.TableStatusAvailable)
		order := facts.addOrder(table.ID, models.OrderStatusConfirmed)

		r := newTestReconciler(facts)
		updated, err := r.OnArrival(ctx, table.ID, &order.ID)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, models.TableStatusOccupied, updated.Status)
	})

	t.Run("unjustified arrival is a no-op", func(t *testing.T) {
		facts := newMemFacts()
		table := facts.addTable("T1", 4, models.TableStatusAvailable)

		r := newTestReconciler(facts)
		updated, err := r.OnArrival(ctx, table.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, updated)

		got, err := facts.GetTable(ctx, table.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TableStatusAvailable, got.Status)
	})
}

func TestDepartureCleaningCycle(t *testing.T) {
	facts := newMemFacts()
	table := facts.addTable("T1", 4, models.TableStatusOccupied)

	r := newTestReconciler(facts)
	ctx := context.Background()

	updated, err := r.OnDeparture(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusCleaning, updated.Status)

	updated, err = r.CompleteCleaning(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusAvailable, updated.Status)
}

func TestCompleteCleaningWithUpcomingReservation(t *testing.T) {
	facts := newMemFacts()
	table := facts.addTable("T1", 4, models.TableStatusCleaning)
	facts.addReservation(table.ID, models.ReservationStatusConfirmed, at(12, 20), 2)

	r := newTestReconciler(facts)

	updated, err := r.CompleteCleaning(context.Background(), table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusReserved, updated.Status)
}

func TestCompleteCleaningRequiresCleaning(t *testing.T) {
	facts := newMemFacts()
	table := facts.addTable("T1", 4, models.TableStatusAvailable)

	r := newTestReconciler(facts)

	_, err := r.CompleteCleaning(context.Background(), table.ID)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestSetMaintenance(t *testing.T) {
	facts := newMemFacts()
	table := facts.addTable("T1", 4, models.TableStatusAvailable)

	r := newTestReconciler(facts)
	ctx := context.Background()

	updated, err := r.SetMaintenance(ctx, table.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusMaintenance, updated.Status)

	// Automated transitions cannot displace the hold
	_, changed, err := r.ReconcileTable(ctx, table.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	updated, err = r.SetMaintenance(ctx, table.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusAvailable, updated.Status)
}

func TestSetMaintenanceOffRequiresMaintenance(t *testing.T) {
	facts := newMemFacts()
	table := facts.addTable("T1", 4, models.TableStatusAvailable)

	r := newTestReconciler(facts)

	_, err := r.SetMaintenance(context.Background(), table.ID, false)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestSetMaintenanceOffRederives(t *testing.T) {
	facts := newMemFacts()
	table := facts.addTable("T1", 4, models.TableStatusMaintenance)
	facts.addOrder(table.ID, models.OrderStatusReady)

	r := newTestReconciler(facts)

	updated, err := r.SetMaintenance(context.Background(), table.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, updated.Status)
}

func TestStatusSummary(t *testing.T) {
	facts := newMemFacts()
	facts.addTable("T1", 4, models.TableStatusAvailable)
	facts.addTable("T2", 4, models.TableStatusAvailable)
	facts.addTable("T3", 4, models.TableStatusOccupied)
	facts.addTable("T4", 4, models.TableStatusMaintenance)

	r := newTestReconciler(facts)

	summary, err := r.StatusSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary[models.TableStatusAvailable])
	assert.Equal(t, 1, summary[models.TableStatusOccupied])
	assert.Equal(t, 1, summary[models.TableStatusMaintenance])
	assert.Equal(t, 0, summary[models.TableStatusReserved])
	assert.Equal(t, 0, summary[models.TableStatusCleaning])
}

func TestObserversSeeCommittedTransitions(t *testing.T) {
	facts := newMemFacts()
	table := facts.addTable("T1", 4, models.TableStatusOccupied)

	r := newTestReconciler(facts)
	var froms, tos []models.TableStatus
	r.Subscribe(func(tbl models.Table, from, to models.TableStatus) {
		froms = append(froms, from)
		tos = append(tos, to)
	})

	_, err := r.OnDeparture(context.Background(), table.ID)
	require.NoError(t, err)

	require.Len(t, froms, 1)
	assert.Equal(t, models.TableStatusOccupied, froms[0])
	assert.Equal(t, models.TableStatusCleaning, tos[0])

	// A same-status write produces no notification
	_, err = r.OnDeparture(context.Background(), table.ID)
	require.NoError(t, err)
	assert.Len(t, froms, 1)
}
