package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RecordArrival records that the party for a reservation has arrived
func (s *Server) RecordArrival(c *gin.Context) {
	var req struct {
		ReservationID uint       `json:"reservation_id" binding:"required"`
		ActualTime    *time.Time `json:"actual_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := s.tracker.RecordArrival(c.Request.Context(), req.ReservationID, req.ActualTime)
	if err != nil {
		respondError(c, err)
		return
	}
	s.metrics.ObserveArrival(record.Classification)
	c.JSON(http.StatusOK, record)
}

// ScanNoShows sweeps for overdue reservations with no recorded arrival
func (s *Server) ScanNoShows(c *gin.Context) {
	minutes, err := strconv.Atoi(c.DefaultQuery("threshold_minutes", "60"))
	if err != nil || minutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid threshold_minutes"})
		return
	}

	noShows, err := s.tracker.ScanNoShows(c.Request.Context(), time.Duration(minutes)*time.Minute)
	if err != nil {
		respondError(c, err)
		return
	}
	s.metrics.ObserveNoShows(len(noShows))
	c.JSON(http.StatusOK, gin.H{"no_shows": noShows, "count": len(noShows)})
}

// ArrivalStatistics aggregates arrival classifications over an optional
// scheduled-start window.
func (s *Server) ArrivalStatistics(c *gin.Context) {
	var start, end *time.Time
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start time"})
			return
		}
		start = &parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end time"})
			return
		}
		end = &parsed
	}

	stats, err := s.tracker.Statistics(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// UpcomingArrivals returns confirmed reservations starting soon with no
// arrival yet, for pre-arrival notification.
func (s *Server) UpcomingArrivals(c *gin.Context) {
	minutes, err := strconv.Atoi(c.DefaultQuery("minutes_ahead", "30"))
	if err != nil || minutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minutes_ahead"})
		return
	}

	upcoming, err := s.tracker.Upcoming(c.Request.Context(), time.Duration(minutes)*time.Minute)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upcoming)
}

// TodaysArrivals returns today's arrival records, most recent first
func (s *Server) TodaysArrivals(c *gin.Context) {
	records, err := s.tracker.TodaysArrivals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
