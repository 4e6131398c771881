package store

import (
	"context"
	"fmt"

	"github.com/jinzhu/gorm"

	"github.com/huyng1801/restobot/internal/models"
	"github.com/huyng1801/restobot/internal/seating"
)

// CreateTable persists a new table
func (s *Store) CreateTable(ctx context.Context, table *models.Table) error {
	if err := models.ValidateTable(table); err != nil {
		return fmt.Errorf("%v: %w", err, seating.ErrInvalidInput)
	}
	if table.Status == "" {
		table.Status = models.TableStatusAvailable
	}
	return s.db.Create(table).Error
}

// ListTables returns all tables, active and inactive
func (s *Store) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.Order("table_number").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// CreateReservation persists a new reservation. The estimated end must
// already be set; the booking flow derives it from the service duration.
func (s *Store) CreateReservation(ctx context.Context, res *models.Reservation) error {
	if err := models.ValidateReservation(res); err != nil {
		return fmt.Errorf("%v: %w", err, seating.ErrInvalidInput)
	}
	if res.Status == "" {
		res.Status = models.ReservationStatusPending
	}
	return s.db.Create(res).Error
}

// CreateOrder persists a new order with its line items
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := models.ValidateOrder(order); err != nil {
		return fmt.Errorf("%v: %w", err, seating.ErrInvalidInput)
	}
	if order.OrderNumber == "" {
		order.OrderNumber = models.NewOrderNumber()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentStatusPending
	}
	for i := range order.Items {
		order.Items[i].TotalPrice = float64(order.Items[i].Quantity) * order.Items[i].UnitPrice
	}
	order.TotalAmount = order.Subtotal() + order.TaxAmount - order.DiscountAmount
	return s.db.Create(order).Error
}

// GetOrder returns an order with its items loaded
func (s *Store) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("order %d: %w", id, seating.ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus applies a lifecycle transition to an order, enforcing
// forward-only movement with cancellation allowed before served.
func (s *Store) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.CanTransitionTo(status) {
		return nil, fmt.Errorf("order %s cannot move from %s to %s: %w",
			order.OrderNumber, order.Status, status, seating.ErrInvalidState)
	}
	if err := s.db.Model(order).Update("status", status).Error; err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

// GetCustomer returns a customer by id
func (s *Store) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.Where("id = ?", id).First(&customer).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("customer %d: %w", id, seating.ErrNotFound)
		}
		return nil, err
	}
	return &customer, nil
}

// ListMenuItems returns available menu items ordered by category and name
func (s *Store) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.db.Where("is_available = ?", true).Order("category, name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
