package models

import (
	"fmt"

	"github.com/jinzhu/gorm"
)

// MenuCategory represents the category of a menu item
type MenuCategory string

const (
	// Menu categories
	MenuCategoryAppetizer MenuCategory = "appetizer"
	MenuCategoryMain      MenuCategory = "main"
	MenuCategorySide      MenuCategory = "side"
	MenuCategoryDessert   MenuCategory = "dessert"
	MenuCategoryBeverage  MenuCategory = "beverage"
)

// MenuItem represents a dish offered on the menu
type MenuItem struct {
	gorm.Model
	Name        string       `gorm:"not null" json:"name"`
	Description string       `json:"description,omitempty"`
	Category    MenuCategory `gorm:"not null" json:"category"`
	Price       float64      `gorm:"not null" json:"price"`
	IsAvailable bool         `gorm:"default:true" json:"is_available"`
}

// ValidateMenuItem validates a menu item before creation
func ValidateMenuItem(item *MenuItem) error {
	if item.Name == "" {
		return fmt.Errorf("menu item name is required")
	}
	if item.Price <= 0 {
		return fmt.Errorf("menu item price must be greater than 0")
	}
	return nil
}
