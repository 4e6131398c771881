package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huyng1801/restobot/internal/models"
	"github.com/huyng1801/restobot/internal/seating"
)

// BookingRequest is the payload for booking a table. TableID is optional;
// when absent the best-fitting available table is assigned.
type BookingRequest struct {
	CustomerID      *uint     `json:"customer_id"`
	TableID         *uint     `json:"table_id"`
	ScheduledStart  time.Time `json:"scheduled_start" binding:"required"`
	PartySize       int       `json:"party_size" binding:"required"`
	SpecialRequests string    `json:"special_requests"`
}

// BookTable books a table for a customer: validates business hours and
// capacity, auto-assigns the smallest sufficient table when none is chosen,
// and rejects windows that overlap an existing reservation.
func (s *Server) BookTable(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PartySize <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party size must be greater than 0"})
		return
	}
	if err := s.schedule.ValidateReservationTime(req.ScheduledStart); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	end := req.ScheduledStart.Add(s.policy.ServiceDuration)

	var tableID uint
	if req.TableID != nil {
		table, err := s.store.GetTable(ctx, *req.TableID)
		if err != nil {
			respondError(c, err)
			return
		}
		if table.Capacity < req.PartySize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("table capacity (%d) is insufficient for party size (%d)", table.Capacity, req.PartySize),
			})
			return
		}
		conflict, err := s.checker.Conflicts(ctx, table.ID, req.ScheduledStart, end, 0)
		if err != nil {
			respondError(c, err)
			return
		}
		if conflict {
			respondError(c, fmt.Errorf("table %s is already reserved for this time slot: %w", table.TableNumber, seating.ErrConflict))
			return
		}
		tableID = table.ID
	} else {
		available, err := s.checker.FindAvailable(ctx, req.PartySize, req.ScheduledStart, end)
		if err != nil {
			respondError(c, err)
			return
		}
		if len(available) == 0 {
			respondError(c, fmt.Errorf("no available tables for the requested time and party size: %w", seating.ErrConflict))
			return
		}
		// FindAvailable orders smallest sufficient capacity first.
		tableID = available[0].ID
	}

	reservation := models.Reservation{
		CustomerID:      req.CustomerID,
		TableID:         tableID,
		ScheduledStart:  req.ScheduledStart,
		EstimatedEnd:    end,
		PartySize:       req.PartySize,
		Status:          models.ReservationStatusPending,
		SpecialRequests: req.SpecialRequests,
	}
	if err := s.store.CreateReservation(ctx, &reservation); err != nil {
		respondError(c, err)
		return
	}

	if _, err := s.reconciler.OnReservationChanged(ctx, reservation.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// ConfirmReservation promotes a pending reservation to confirmed
func (s *Server) ConfirmReservation(c *gin.Context) {
	s.changeReservationStatus(c, models.ReservationStatusConfirmed)
}

// CancelReservation cancels a reservation and releases its table hold
func (s *Server) CancelReservation(c *gin.Context) {
	s.changeReservationStatus(c, models.ReservationStatusCancelled)
}

func (s *Server) changeReservationStatus(c *gin.Context, status models.ReservationStatus) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	reservation, err := s.store.GetReservation(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if reservation.IsTerminal() {
		respondError(c, fmt.Errorf("reservation %d is %s: %w", id, reservation.Status, seating.ErrInvalidState))
		return
	}
	if status == models.ReservationStatusConfirmed && reservation.Status != models.ReservationStatusPending {
		respondError(c, fmt.Errorf("reservation %d is %s, not pending: %w", id, reservation.Status, seating.ErrInvalidState))
		return
	}

	if err := s.store.SetReservationStatus(ctx, id, status); err != nil {
		respondError(c, err)
		return
	}
	table, err := s.reconciler.OnReservationChanged(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	reservation.Status = status
	c.JSON(http.StatusOK, gin.H{"reservation": reservation, "table": table})
}
