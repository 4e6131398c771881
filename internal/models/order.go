package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	// Order statuses, in lifecycle order. An order may be cancelled from
	// any state before served.
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ActiveOrderStatuses are the statuses that signal a party is physically at
// the table: the order exists and has not been completed or cancelled.
var ActiveOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusReady,
	OrderStatusServed,
}

// orderRank maps statuses to their position in the forward lifecycle
var orderRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusConfirmed: 1,
	OrderStatusPreparing: 2,
	OrderStatusReady:     3,
	OrderStatusServed:    4,
	OrderStatusCompleted: 5,
}

// Order represents a customer order, dine-in or walk-in
type Order struct {
	gorm.Model
	OrderNumber    string        `gorm:"unique_index;not null" json:"order_number"`
	CustomerID     *uint         `json:"customer_id,omitempty"` // nil for walk-in customers
	TableID        *uint         `gorm:"index" json:"table_id,omitempty"`
	Status         OrderStatus   `gorm:"not null;default:'pending'" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"not null;default:'pending'" json:"payment_status"`
	PaymentMethod  string        `json:"payment_method,omitempty"`
	TotalAmount    float64       `gorm:"not null;default:0" json:"total_amount"`
	TaxAmount      float64       `gorm:"not null;default:0" json:"tax_amount"`
	DiscountAmount float64       `gorm:"not null;default:0" json:"discount_amount"`
	Notes          string        `json:"notes,omitempty"`
	Items          []OrderItem   `json:"items"`
}

// OrderItem represents a single line item on an order
type OrderItem struct {
	gorm.Model
	OrderID             uint    `gorm:"not null;index" json:"order_id"`
	MenuItemID          uint    `gorm:"not null" json:"menu_item_id"`
	Quantity            int     `gorm:"not null" json:"quantity"`
	UnitPrice           float64 `gorm:"not null" json:"unit_price"`
	TotalPrice          float64 `gorm:"not null" json:"total_price"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
}

// NewOrderNumber generates a unique order number
func NewOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

// ValidateOrder validates an order before creation
func ValidateOrder(o *Order) error {
	if len(o.Items) == 0 {
		return fmt.Errorf("order must have at least one item")
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("order item quantity must be greater than 0")
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("order item unit price must not be negative")
		}
	}
	return nil
}

// IsActive reports whether the order still holds its table
func (o *Order) IsActive() bool {
	for _, s := range ActiveOrderStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether an order status change is legal:
// forward-only through the lifecycle, or cancellation before served.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	if o.Status == OrderStatusCancelled || o.Status == OrderStatusCompleted {
		return false
	}
	if next == OrderStatusCancelled {
		return orderRank[o.Status] < orderRank[OrderStatusServed]
	}
	nextRank, ok := orderRank[next]
	if !ok {
		return false
	}
	return nextRank > orderRank[o.Status]
}

// Subtotal returns the sum of line item totals
func (o *Order) Subtotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.TotalPrice
	}
	return total
}
