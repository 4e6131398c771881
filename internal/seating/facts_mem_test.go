package seating

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/huyng1801/restobot/internal/models"
)

// memFacts is an in-memory facts provider for exercising the core without a
// database.
type memFacts struct {
	mu           sync.Mutex
	tables       map[uint]*models.Table
	reservations map[uint]*models.Reservation
	orders       map[uint]*models.Order
	nextID       uint
}

func newMemFacts() *memFacts {
	return &memFacts{
		tables:       make(map[uint]*models.Table),
		reservations: make(map[uint]*models.Reservation),
		orders:       make(map[uint]*models.Order),
	}
}

func (m *memFacts) addTable(number string, capacity int, status models.TableStatus) *models.Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t := &models.Table{TableNumber: number, Capacity: capacity, Status: status, IsActive: true}
	t.ID = m.nextID
	m.tables[t.ID] = t
	return t
}

func (m *memFacts) addReservation(tableID uint, status models.ReservationStatus, start time.Time, partySize int) *models.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r := &models.Reservation{
		TableID:        tableID,
		Status:         status,
		ScheduledStart: start,
		EstimatedEnd:   start.Add(2 * time.Hour),
		PartySize:      partySize,
	}
	r.ID = m.nextID
	m.reservations[r.ID] = r
	return r
}

func (m *memFacts) addOrder(tableID uint, status models.OrderStatus) *models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	o := &models.Order{OrderNumber: models.NewOrderNumber(), TableID: &tableID, Status: status}
	o.ID = m.nextID
	m.orders[o.ID] = o
	return o
}

func (m *memFacts) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok {
		return nil, fmt.Errorf("table %d: %w", id, ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (m *memFacts) ListActiveTables(ctx context.Context) ([]models.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Table
	for _, t := range m.tables {
		if t.IsActive {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFacts) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (m *memFacts) ListReservations(ctx context.Context, tableID uint, statuses []models.ReservationStatus, window *TimeRange) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Reservation
	for _, r := range m.reservations {
		if tableID != 0 && r.TableID != tableID {
			continue
		}
		if len(statuses) > 0 && !containsReservationStatus(statuses, r.Status) {
			continue
		}
		if window != nil && !window.Contains(r.ScheduledStart) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledStart.Before(out[j].ScheduledStart) })
	return out, nil
}

func (m *memFacts) ListOrders(ctx context.Context, tableID uint, statuses []models.OrderStatus) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if tableID != 0 && (o.TableID == nil || *o.TableID != tableID) {
			continue
		}
		if len(statuses) > 0 && !containsOrderStatus(statuses, o.Status) {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFacts) SetTableStatus(ctx context.Context, id uint, status models.TableStatus) (*models.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok {
		return nil, fmt.Errorf("table %d: %w", id, ErrNotFound)
	}
	t.Status = status
	cp := *t
	return &cp, nil
}

func (m *memFacts) SetReservationStatus(ctx context.Context, id uint, status models.ReservationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	r.Status = status
	return nil
}

func (m *memFacts) SetReservationArrival(ctx context.Context, id uint, at time.Time, classification models.ArrivalClassification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	if !at.IsZero() {
		r.ActualArrivalTime = &at
	}
	r.ArrivalClassification = classification
	return nil
}

func (m *memFacts) InTransaction(ctx context.Context, fn func(Facts) error) error {
	return fn(m)
}

func containsReservationStatus(statuses []models.ReservationStatus, s models.ReservationStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func containsOrderStatus(statuses []models.OrderStatus, s models.OrderStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}
