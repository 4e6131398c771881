package models

import "github.com/jinzhu/gorm"

// Customer represents a registered customer. Walk-ins have no customer row.
type Customer struct {
	gorm.Model
	FullName string `gorm:"not null" json:"full_name"`
	Email    string `gorm:"unique_index" json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
