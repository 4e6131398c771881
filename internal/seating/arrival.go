package seating

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/huyng1801/restobot/internal/models"
)

// ArrivalRecord is an immutable snapshot of a recorded arrival. It is a
// value, not a live reference to the reservation.
type ArrivalRecord struct {
	ReservationID     uint                         `json:"reservation_id"`
	ArrivalTime       time.Time                    `json:"arrival_time"`
	ScheduledStart    time.Time                    `json:"scheduled_start"`
	Classification    models.ArrivalClassification `json:"classification"`
	MinutesDifference int                          `json:"minutes_difference"`
	TableID           uint                         `json:"table_id"`
	CustomerName      string                       `json:"customer_name"`
	PartySize         int                          `json:"party_size"`
}

// ArrivalStatistics aggregates recorded arrivals by classification
type ArrivalStatistics struct {
	TotalArrivals            int     `json:"total_arrivals"`
	Early                    int     `json:"early"`
	OnTime                   int     `json:"on_time"`
	Late                     int     `json:"late"`
	VeryLate                 int     `json:"very_late"`
	NoShow                   int     `json:"no_show"`
	AverageDifferenceMinutes float64 `json:"average_difference_minutes"`
}

// ArrivalTracker records actual arrivals against scheduled times,
// classifies lateness, and sweeps for no-shows. Status effects are routed
// through the reconciler; the tracker never writes table status itself.
type ArrivalTracker struct {
	facts      Facts
	reconciler *Reconciler
	policy     Policy
	now        func() time.Time
}

// NewArrivalTracker creates an arrival tracker that reports status effects
// to the given reconciler
func NewArrivalTracker(facts Facts, reconciler *Reconciler, policy Policy) *ArrivalTracker {
	return &ArrivalTracker{
		facts:      facts,
		reconciler: reconciler,
		policy:     policy,
		now:        time.Now,
	}
}

// RecordArrival records that the party for a reservation has arrived. The
// arrival time defaults to now. The reservation's arrival fields are written
// once; a pending reservation is promoted to confirmed, since arrival proves
// the booking is real. The table is then asserted occupied via the
// reconciler.
func (t *ArrivalTracker) RecordArrival(ctx context.Context, reservationID uint, actualTime *time.Time) (*ArrivalRecord, error) {
	at := t.now()
	if actualTime != nil {
		at = *actualTime
	}

	var record *ArrivalRecord
	err := t.facts.InTransaction(ctx, func(tx Facts) error {
		res, err := tx.GetReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.IsTerminal() {
			return fmt.Errorf("reservation %d is %s: %w", reservationID, res.Status, ErrInvalidState)
		}
		if res.HasArrival() {
			return fmt.Errorf("reservation %d already has an arrival recorded: %w", reservationID, ErrInvalidState)
		}

		diff := at.Sub(res.ScheduledStart)
		classification := t.classify(diff)

		if err := tx.SetReservationArrival(ctx, reservationID, at, classification); err != nil {
			return fmt.Errorf("recording arrival for reservation %d: %w", reservationID, err)
		}
		if res.Status == models.ReservationStatusPending {
			if err := tx.SetReservationStatus(ctx, reservationID, models.ReservationStatusConfirmed); err != nil {
				return fmt.Errorf("confirming reservation %d: %w", reservationID, err)
			}
		}

		record = &ArrivalRecord{
			ReservationID:     res.ID,
			ArrivalTime:       at,
			ScheduledStart:    res.ScheduledStart,
			Classification:    classification,
			MinutesDifference: int(diff.Minutes()),
			TableID:           res.TableID,
			CustomerName:      res.CustomerDisplayName(),
			PartySize:         res.PartySize,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := t.reconciler.OnArrival(ctx, record.TableID, nil); err != nil {
		return nil, fmt.Errorf("updating table %d for arrival: %w", record.TableID, err)
	}

	log.Printf("Customer arrival recorded: reservation %d, %s, %d minutes from scheduled",
		record.ReservationID, record.Classification, record.MinutesDifference)
	return record, nil
}

// ScanNoShows finds confirmed reservations whose scheduled start is more
// than threshold in the past with no recorded arrival, marks them cancelled
// with a no-show classification, and re-derives each affected table's status
// through the reconciler. A zero threshold uses the policy default. Returns
// the reservations that were marked.
func (t *ArrivalTracker) ScanNoShows(ctx context.Context, threshold time.Duration) ([]models.Reservation, error) {
	if threshold == 0 {
		threshold = t.policy.NoShowThreshold
	}

	var noShows []models.Reservation
	err := t.facts.InTransaction(ctx, func(tx Facts) error {
		cutoff := t.now().Add(-threshold)
		confirmed, err := tx.ListReservations(ctx, 0,
			[]models.ReservationStatus{models.ReservationStatusConfirmed},
			&TimeRange{End: &cutoff})
		if err != nil {
			return fmt.Errorf("listing overdue reservations: %w", err)
		}

		for _, res := range confirmed {
			if res.HasArrival() {
				continue
			}
			if err := tx.SetReservationStatus(ctx, res.ID, models.ReservationStatusCancelled); err != nil {
				return fmt.Errorf("cancelling no-show reservation %d: %w", res.ID, err)
			}
			if err := tx.SetReservationArrival(ctx, res.ID, time.Time{}, models.ArrivalNoShow); err != nil {
				return fmt.Errorf("marking reservation %d as no-show: %w", res.ID, err)
			}
			res.Status = models.ReservationStatusCancelled
			res.ArrivalClassification = models.ArrivalNoShow
			noShows = append(noShows, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(noShows) == 0 {
		return nil, nil
	}

	// Re-derive each affected table rather than releasing reserved tables
	// directly, so another covering reservation or an active order is not
	// clobbered to available.
	seen := make(map[uint]bool)
	for _, res := range noShows {
		if seen[res.TableID] {
			continue
		}
		seen[res.TableID] = true
		if _, _, err := t.reconciler.ReconcileTable(ctx, res.TableID); err != nil {
			log.Printf("No-show sweep could not reconcile table %d: %v", res.TableID, err)
		}
	}

	log.Printf("Marked %d reservations as no-show", len(noShows))
	return noShows, nil
}

// Statistics aggregates arrival counts per classification and the mean
// minute delta over reservations with a recorded arrival, optionally
// restricted to a scheduled-start window. An empty result set yields a
// zeroed aggregate, never an error.
func (t *ArrivalTracker) Statistics(ctx context.Context, start, end *time.Time) (*ArrivalStatistics, error) {
	var window *TimeRange
	if start != nil || end != nil {
		window = &TimeRange{Start: start, End: end}
	}

	reservations, err := t.facts.ListReservations(ctx, 0, nil, window)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}

	stats := &ArrivalStatistics{}
	var totalMinutes float64
	for _, res := range reservations {
		if !res.HasArrival() {
			continue
		}
		stats.TotalArrivals++
		switch res.ArrivalClassification {
		case models.ArrivalEarly:
			stats.Early++
		case models.ArrivalLate:
			stats.Late++
		case models.ArrivalVeryLate:
			stats.VeryLate++
		case models.ArrivalNoShow:
			stats.NoShow++
		default:
			stats.OnTime++
		}
		totalMinutes += res.ActualArrivalTime.Sub(res.ScheduledStart).Minutes()
	}
	if stats.TotalArrivals > 0 {
		stats.AverageDifferenceMinutes = totalMinutes / float64(stats.TotalArrivals)
	}
	return stats, nil
}

// Upcoming returns confirmed reservations starting within the window that
// have no arrival recorded yet, for pre-arrival notification. A zero window
// uses the reservation lookahead.
func (t *ArrivalTracker) Upcoming(ctx context.Context, window time.Duration) ([]models.Reservation, error) {
	if window == 0 {
		window = t.policy.ReservationLookahead
	}
	now := t.now()
	horizon := now.Add(window)

	reservations, err := t.facts.ListReservations(ctx, 0,
		[]models.ReservationStatus{models.ReservationStatusConfirmed},
		&TimeRange{Start: &now, End: &horizon})
	if err != nil {
		return nil, fmt.Errorf("listing upcoming reservations: %w", err)
	}

	var upcoming []models.Reservation
	for _, res := range reservations {
		if !res.HasArrival() {
			upcoming = append(upcoming, res)
		}
	}
	return upcoming, nil
}

// TodaysArrivals returns arrival records for reservations whose party
// arrived today, most recent first.
func (t *ArrivalTracker) TodaysArrivals(ctx context.Context) ([]ArrivalRecord, error) {
	now := t.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	reservations, err := t.facts.ListReservations(ctx, 0, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}

	var records []ArrivalRecord
	for _, res := range reservations {
		if !res.HasArrival() {
			continue
		}
		at := *res.ActualArrivalTime
		if at.Before(dayStart) || !at.Before(dayEnd) {
			continue
		}
		records = append(records, ArrivalRecord{
			ReservationID:     res.ID,
			ArrivalTime:       at,
			ScheduledStart:    res.ScheduledStart,
			Classification:    res.ArrivalClassification,
			MinutesDifference: int(at.Sub(res.ScheduledStart).Minutes()),
			TableID:           res.TableID,
			CustomerName:      res.CustomerDisplayName(),
			PartySize:         res.PartySize,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ArrivalTime.After(records[j].ArrivalTime)
	})
	return records, nil
}

// classify maps the arrival delta (actual minus scheduled) to a
// classification. The on-time window is inclusive on both sides: exactly
// the window boundary still counts as on time.
func (t *ArrivalTracker) classify(diff time.Duration) models.ArrivalClassification {
	abs := diff
	if abs < 0 {
		abs = -abs
	}
	switch {
	case diff < -t.policy.EarlyThreshold:
		return models.ArrivalEarly
	case abs <= t.policy.OnTimeWindow:
		return models.ArrivalOnTime
	case diff <= t.policy.LateThreshold:
		return models.ArrivalLate
	case diff <= t.policy.NoShowThreshold:
		return models.ArrivalVeryLate
	default:
		return models.ArrivalNoShow
	}
}
