package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huyng1801/restobot/internal/models"
)

// CreateOrder processes a new customer order. An order placed against a
// table marks it occupied through the reconciler.
func (s *Server) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := s.store.CreateOrder(ctx, &order); err != nil {
		respondError(c, err)
		return
	}

	if order.TableID != nil {
		if _, _, err := s.reconciler.ReconcileTable(ctx, *order.TableID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder returns an order with its line items
func (s *Server) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := s.store.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus applies an order lifecycle transition. Completing or
// cancelling an order re-derives its table's status, since the table may no
// longer be occupied.
func (s *Server) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	order, err := s.store.UpdateOrderStatus(ctx, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	if order.TableID != nil && !order.IsActive() {
		if _, _, err := s.reconciler.ReconcileTable(ctx, *order.TableID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, order)
}

// GetMenu returns the available menu items
func (s *Server) GetMenu(c *gin.Context) {
	items, err := s.store.ListMenuItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
