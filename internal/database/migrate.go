package database

import (
	"log"

	"github.com/jinzhu/gorm"

	"provision/internal/models"
)

// InitializeSchema creates and configures all required database tables for
// the procurement workflow: chef requests and their items, the supplier
// catalog, supplier quotes and the committed purchase orders.
func InitializeSchema() {
	db := GetDB()
	db.AutoMigrate(
		&models.ChefRequest{},
		&models.RequestItem{},
		&models.Supplier{},
		&models.Product{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
	)

	seedDefaultData(db)
}

// seedDefaultData ensures a starter supplier catalog exists so a fresh
// install has something to match requests against.
func seedDefaultData(db *gorm.DB) {
	var supplierCount int64
	db.Model(&models.Supplier{}).Count(&supplierCount)
	if supplierCount > 0 {
		return
	}

	produce := 2.50
	lettuce := 1.80
	suppliers := []models.Supplier{
		{
			SupplierID:    "sup-fresh-farms",
			Name:          "Fresh Farms",
			ContactPerson: "M. Garnier",
			Email:         "orders@freshfarms.example",
			Phone:         "555-0199",
			IsActive:      true,
			Rating:        4,
			Products: []models.Product{
				{Name: "Tomatoes", Unit: "kg", DefaultPrice: &produce, InStock: true},
				{Name: "Lettuce", Unit: "kg", DefaultPrice: &lettuce, InStock: true},
				{Name: "Basil", Unit: "bunch", InStock: true},
			},
		},
		{
			SupplierID: "sup-metro-wholesale",
			Name:       "Metro Wholesale",
			Email:      "sales@metrowholesale.example",
			IsActive:   true,
			Rating:     3,
			Products: []models.Product{
				{Name: "Olive Oil", Unit: "l", InStock: true},
				{Name: "Flour", Unit: "kg", InStock: true},
				{Name: "Tomatoes", Unit: "kg", InStock: false},
			},
		},
	}

	for i := range suppliers {
		if err := db.Create(&suppliers[i]).Error; err != nil {
			log.Printf("Failed to seed supplier %s: %v", suppliers[i].Name, err)
		}
	}
}
