// Package api exposes the seating engine over HTTP for the front-of-house
// dashboard and the conversational bot.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huyng1801/restobot/internal/bot"
	"github.com/huyng1801/restobot/internal/hours"
	"github.com/huyng1801/restobot/internal/monitoring"
	"github.com/huyng1801/restobot/internal/seating"
	"github.com/huyng1801/restobot/internal/store"
)

// Server wires the HTTP routes to the seating core
type Server struct {
	Router *gin.Engine

	store      *store.Store
	checker    *seating.ConflictChecker
	reconciler *seating.Reconciler
	tracker    *seating.ArrivalTracker
	policy     seating.Policy
	schedule   *hours.Schedule
	metrics    *monitoring.MetricsCollector
	feed       *StatusFeed
	assistant  *bot.Assistant
}

// NewServer creates the API server. assistant may be nil when the bot is
// disabled.
func NewServer(
	st *store.Store,
	checker *seating.ConflictChecker,
	reconciler *seating.Reconciler,
	tracker *seating.ArrivalTracker,
	policy seating.Policy,
	schedule *hours.Schedule,
	metrics *monitoring.MetricsCollector,
	assistant *bot.Assistant,
) *Server {
	s := &Server{
		Router:     gin.Default(),
		store:      st,
		checker:    checker,
		reconciler: reconciler,
		tracker:    tracker,
		policy:     policy,
		schedule:   schedule,
		metrics:    metrics,
		feed:       NewStatusFeed(),
		assistant:  assistant,
	}
	reconciler.Subscribe(s.feed.ObserveTransition)
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "RestoBot API is running"})
	})

	s.Router.GET("/ws/tables", s.feed.Handle)

	v1 := s.Router.Group("/api/v1")
	{
		// Table lifecycle
		v1.GET("/tables", s.ListTables)
		v1.POST("/tables", s.CreateTable)
		v1.GET("/tables/available", s.FindAvailableTables)
		v1.GET("/tables/status-summary", s.StatusSummary)
		v1.POST("/tables/sync", s.SyncTableStatuses)
		v1.POST("/tables/:id/check-in", s.CheckIn)
		v1.POST("/tables/:id/check-out", s.CheckOut)
		v1.POST("/tables/:id/cleaning-complete", s.CompleteCleaning)
		v1.POST("/tables/:id/maintenance", s.SetMaintenance)

		// Reservations
		v1.POST("/reservations/book", s.BookTable)
		v1.POST("/reservations/:id/confirm", s.ConfirmReservation)
		v1.POST("/reservations/:id/cancel", s.CancelReservation)

		// Arrival tracking
		v1.POST("/arrivals/record", s.RecordArrival)
		v1.POST("/arrivals/no-show-scan", s.ScanNoShows)
		v1.GET("/arrivals/statistics", s.ArrivalStatistics)
		v1.GET("/arrivals/upcoming", s.UpcomingArrivals)
		v1.GET("/arrivals/today", s.TodaysArrivals)

		// Orders and menu
		v1.POST("/orders", s.CreateOrder)
		v1.GET("/orders/:id", s.GetOrder)
		v1.PUT("/orders/:id/status", s.UpdateOrderStatus)
		v1.GET("/menu", s.GetMenu)

		// Conversational assistant
		if s.assistant != nil {
			v1.POST("/bot/message", s.BotMessage)
		}
	}
}

// respondError maps the seating error taxonomy to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, seating.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, seating.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, seating.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, seating.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
