package database

import (
	"log"

	"github.com/jinzhu/gorm"

	"github.com/huyng1801/restobot/internal/models"
)

// Migrate creates and updates the schema for all persisted entities
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Table{},
		&models.Reservation{},
		&models.Order{},
		&models.OrderItem{},
		&models.Customer{},
		&models.MenuItem{},
	).Error
}

// Seed ensures a minimal floor plan and menu exist so a fresh database is
// immediately usable.
func Seed(db *gorm.DB) {
	var tableCount int64
	db.Model(&models.Table{}).Count(&tableCount)
	if tableCount == 0 {
		defaultTables := []models.Table{
			{TableNumber: "T1", Capacity: 2, Status: models.TableStatusAvailable, Location: "Window side", IsActive: true},
			{TableNumber: "T2", Capacity: 2, Status: models.TableStatusAvailable, Location: "Window side", IsActive: true},
			{TableNumber: "T3", Capacity: 4, Status: models.TableStatusAvailable, Location: "Main hall", IsActive: true},
			{TableNumber: "T4", Capacity: 4, Status: models.TableStatusAvailable, Location: "Main hall", IsActive: true},
			{TableNumber: "T5", Capacity: 6, Status: models.TableStatusAvailable, Location: "Main hall", IsActive: true},
			{TableNumber: "T6", Capacity: 8, Status: models.TableStatusAvailable, Location: "VIP area", IsActive: true},
		}
		for _, table := range defaultTables {
			db.Create(&table)
		}
		log.Printf("Seeded %d default tables", len(defaultTables))
	}

	var menuCount int64
	db.Model(&models.MenuItem{}).Count(&menuCount)
	if menuCount == 0 {
		defaultMenu := []models.MenuItem{
			{Name: "Spring Rolls", Category: models.MenuCategoryAppetizer, Price: 5.50, IsAvailable: true},
			{Name: "Pho Bo", Category: models.MenuCategoryMain, Price: 12.00, IsAvailable: true},
			{Name: "Grilled Chicken Rice", Category: models.MenuCategoryMain, Price: 10.50, IsAvailable: true},
			{Name: "Papaya Salad", Category: models.MenuCategorySide, Price: 6.00, IsAvailable: true},
			{Name: "Che Ba Mau", Category: models.MenuCategoryDessert, Price: 4.50, IsAvailable: true},
			{Name: "Iced Coffee", Category: models.MenuCategoryBeverage, Price: 3.50, IsAvailable: true},
		}
		for _, item := range defaultMenu {
			db.Create(&item)
		}
		log.Printf("Seeded %d default menu items", len(defaultMenu))
	}
}
