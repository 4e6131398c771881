package models

import (
	"fmt"

	"github.com/jinzhu/gorm"
)

// TableStatus represents the physical state of a dining table
type TableStatus string

const (
	// Table statuses
	TableStatusAvailable   TableStatus = "available"
	TableStatusOccupied    TableStatus = "occupied"
	TableStatusReserved    TableStatus = "reserved"
	TableStatusCleaning    TableStatus = "cleaning"
	TableStatusMaintenance TableStatus = "maintenance"
)

// AllTableStatuses lists every table status, in dashboard display order
var AllTableStatuses = []TableStatus{
	TableStatusAvailable,
	TableStatusOccupied,
	TableStatusReserved,
	TableStatusCleaning,
	TableStatusMaintenance,
}

// Table represents a dining table in the restaurant.
// Status is mutated exclusively through the status reconciler; no other
// code path writes it directly.
type Table struct {
	gorm.Model
	TableNumber string      `gorm:"unique_index;not null" json:"table_number"`
	Capacity    int         `gorm:"not null" json:"capacity"`
	Status      TableStatus `gorm:"not null;default:'available'" json:"status"`
	Location    string      `json:"location,omitempty"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`
}

// ValidateTable validates a table before creation
func ValidateTable(t *Table) error {
	if t.TableNumber == "" {
		return fmt.Errorf("table number is required")
	}
	if t.Capacity <= 0 {
		return fmt.Errorf("table capacity must be greater than 0")
	}
	return nil
}

// IsValidTableStatus reports whether s is a known table status
func IsValidTableStatus(s TableStatus) bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved,
		TableStatusCleaning, TableStatusMaintenance:
		return true
	}
	return false
}
