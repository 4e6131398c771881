package models

import (
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	// Reservation statuses. Transitions are forward-only except cancelled
	// and no_show, which are terminal.
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusNoShow    ReservationStatus = "no_show"
)

// ArrivalClassification classifies an actual arrival against the scheduled time
type ArrivalClassification string

const (
	// Arrival classifications
	ArrivalEarly    ArrivalClassification = "early"
	ArrivalOnTime   ArrivalClassification = "on_time"
	ArrivalLate     ArrivalClassification = "late"
	ArrivalVeryLate ArrivalClassification = "very_late"
	ArrivalNoShow   ArrivalClassification = "no_show"
)

// DefaultServiceDuration is how long a reservation is assumed to hold a table
// when no explicit end is supplied.
const DefaultServiceDuration = 2 * time.Hour

// Reservation represents a booking of a table for a time window.
// EstimatedEnd is persisted (ScheduledStart + service duration) so window
// queries can run against stored columns. Arrival fields are written at most
// once, by the arrival tracker.
type Reservation struct {
	gorm.Model
	CustomerID            *uint                 `json:"customer_id,omitempty"` // nil for walk-ins
	TableID               uint                  `gorm:"not null;index" json:"table_id"`
	ScheduledStart        time.Time             `gorm:"not null;index" json:"scheduled_start"`
	EstimatedEnd          time.Time             `gorm:"not null" json:"estimated_end"`
	PartySize             int                   `gorm:"not null" json:"party_size"`
	Status                ReservationStatus     `gorm:"not null;default:'pending'" json:"status"`
	SpecialRequests       string                `json:"special_requests,omitempty"`
	Notes                 string                `json:"notes,omitempty"`
	ActualArrivalTime     *time.Time            `json:"actual_arrival_time,omitempty"`
	ArrivalClassification ArrivalClassification `json:"arrival_classification,omitempty"`

	Customer *Customer `json:"customer,omitempty"`
	Table    *Table    `json:"table,omitempty"`
}

// ValidateReservation validates a reservation before creation
func ValidateReservation(r *Reservation) error {
	if r.TableID == 0 {
		return fmt.Errorf("reservation table is required")
	}
	if r.PartySize <= 0 {
		return fmt.Errorf("party size must be greater than 0")
	}
	if r.ScheduledStart.IsZero() {
		return fmt.Errorf("scheduled start is required")
	}
	if !r.EstimatedEnd.After(r.ScheduledStart) {
		return fmt.Errorf("estimated end must be after scheduled start")
	}
	return nil
}

// IsTerminal reports whether the reservation is in a terminal state
func (r *Reservation) IsTerminal() bool {
	return r.Status == ReservationStatusCancelled || r.Status == ReservationStatusNoShow
}

// HasArrival reports whether an arrival has been recorded
func (r *Reservation) HasArrival() bool {
	return r.ActualArrivalTime != nil
}

// CustomerDisplayName returns the customer's name, or "Guest" for walk-ins
func (r *Reservation) CustomerDisplayName() string {
	if r.Customer != nil && r.Customer.FullName != "" {
		return r.Customer.FullName
	}
	return "Guest"
}
