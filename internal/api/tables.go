package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huyng1801/restobot/internal/models"
)

// ListTables returns every table with its current status
func (s *Server) ListTables(c *gin.Context) {
	tables, err := s.store.ListTables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// CreateTable adds a table to the floor plan
func (s *Server) CreateTable(c *gin.Context) {
	var table models.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	table.IsActive = true
	if err := s.store.CreateTable(c.Request.Context(), &table); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, table)
}

// FindAvailableTables returns tables free for a party and window, best fit
// first.
func (s *Server) FindAvailableTables(c *gin.Context) {
	partySize, err := strconv.Atoi(c.DefaultQuery("party_size", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid party_size"})
		return
	}
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}

	tables, err := s.checker.FindAvailable(c.Request.Context(), partySize, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// StatusSummary returns the count of active tables per status
func (s *Server) StatusSummary(c *gin.Context) {
	summary, err := s.reconciler.StatusSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	s.metrics.SetStatusSummary(summary)
	c.JSON(http.StatusOK, summary)
}

// SyncTableStatuses re-derives every table's status, correcting drift
func (s *Server) SyncTableStatuses(c *gin.Context) {
	updated, err := s.reconciler.ResyncAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	s.metrics.ObserveResync(len(updated))
	c.JSON(http.StatusOK, gin.H{"updated": updated, "count": len(updated)})
}

// CheckIn marks a guest as seated at a table. Rejected when no reservation
// or order backs the arrival.
func (s *Server) CheckIn(c *gin.Context) {
	tableID, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		OrderID *uint `json:"order_id"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	table, err := s.reconciler.OnArrival(c.Request.Context(), tableID, req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	if table == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot check in to this table - no valid reservation or order found"})
		return
	}
	c.JSON(http.StatusOK, table)
}

// CheckOut marks a party as departed; the table moves to cleaning
func (s *Server) CheckOut(c *gin.Context) {
	tableID, ok := pathID(c)
	if !ok {
		return
	}
	table, err := s.reconciler.OnDeparture(c.Request.Context(), tableID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// CompleteCleaning moves a cleaning table to its next status
func (s *Server) CompleteCleaning(c *gin.Context) {
	tableID, ok := pathID(c)
	if !ok {
		return
	}
	table, err := s.reconciler.CompleteCleaning(c.Request.Context(), tableID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// SetMaintenance places or releases the manual maintenance hold
func (s *Server) SetMaintenance(c *gin.Context) {
	tableID, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		On bool `json:"on"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, err := s.reconciler.SetMaintenance(c.Request.Context(), tableID, req.On)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// pathID parses the :id path parameter, responding 400 on failure
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// parseWindow reads optional start/end RFC3339 query parameters, defaulting
// start to now.
func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	start := time.Now()
	var end time.Time

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start time"})
			return start, end, false
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end time"})
			return start, end, false
		}
		end = parsed
	}
	return start, end, true
}
