// Package store implements the seating facts provider and the CRUD surface
// the API layer uses, backed by GORM.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"

	"github.com/huyng1801/restobot/internal/models"
	"github.com/huyng1801/restobot/internal/seating"
)

// Store wraps a gorm connection (or transaction) with the query surface the
// seating core and the API layer need.
type Store struct {
	db *gorm.DB
}

// New creates a store over an open database connection
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InTransaction runs fn against a transactional store, committing on nil
// and rolling back otherwise.
func (s *Store) InTransaction(ctx context.Context, fn func(seating.Facts) error) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("beginning transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&Store{db: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetTable returns a table by id
func (s *Store) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := s.db.Where("id = ?", id).First(&table).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("table %d: %w", id, seating.ErrNotFound)
		}
		return nil, err
	}
	return &table, nil
}

// GetTableByNumber returns a table by its display number
func (s *Store) GetTableByNumber(ctx context.Context, number string) (*models.Table, error) {
	var table models.Table
	if err := s.db.Where("table_number = ?", number).First(&table).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("table %q: %w", number, seating.ErrNotFound)
		}
		return nil, err
	}
	return &table, nil
}

// ListActiveTables returns all active tables ordered by table number
func (s *Store) ListActiveTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.Where("is_active = ?", true).Order("table_number").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// GetReservation returns a reservation with its customer loaded
func (s *Store) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.db.Preload("Customer").Where("id = ?", id).First(&res).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("reservation %d: %w", id, seating.ErrNotFound)
		}
		return nil, err
	}
	return &res, nil
}

// ListReservations returns reservations filtered by table, status, and
// scheduled-start window. tableID 0 means all tables; nil statuses means any.
func (s *Store) ListReservations(ctx context.Context, tableID uint, statuses []models.ReservationStatus, window *seating.TimeRange) ([]models.Reservation, error) {
	q := s.db.Preload("Customer")
	if tableID != 0 {
		q = q.Where("table_id = ?", tableID)
	}
	if len(statuses) > 0 {
		q = q.Where("status IN (?)", statuses)
	}
	if window != nil {
		if window.Start != nil {
			q = q.Where("scheduled_start >= ?", *window.Start)
		}
		if window.End != nil {
			q = q.Where("scheduled_start <= ?", *window.End)
		}
	}

	var reservations []models.Reservation
	if err := q.Order("scheduled_start").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListOrders returns orders for a table filtered by status. tableID 0 means
// all tables.
func (s *Store) ListOrders(ctx context.Context, tableID uint, statuses []models.OrderStatus) ([]models.Order, error) {
	q := s.db.Preload("Items")
	if tableID != 0 {
		q = q.Where("table_id = ?", tableID)
	}
	if len(statuses) > 0 {
		q = q.Where("status IN (?)", statuses)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SetTableStatus updates a table's status. Only the seating reconciler
// calls this.
func (s *Store) SetTableStatus(ctx context.Context, id uint, status models.TableStatus) (*models.Table, error) {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(table).Update("status", status).Error; err != nil {
		return nil, err
	}
	table.Status = status
	return table, nil
}

// SetReservationStatus updates a reservation's lifecycle status
func (s *Store) SetReservationStatus(ctx context.Context, id uint, status models.ReservationStatus) error {
	result := s.db.Model(&models.Reservation{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("reservation %d: %w", id, seating.ErrNotFound)
	}
	return nil
}

// SetReservationArrival records a reservation's arrival fields. A zero time
// stores the classification only, which is how no-shows are marked.
func (s *Store) SetReservationArrival(ctx context.Context, id uint, at time.Time, classification models.ArrivalClassification) error {
	updates := map[string]interface{}{"arrival_classification": classification}
	if !at.IsZero() {
		updates["actual_arrival_time"] = at
	}
	result := s.db.Model(&models.Reservation{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("reservation %d: %w", id, seating.ErrNotFound)
	}
	return nil
}
