package models

import (
	"github.com/jinzhu/gorm"
)

// Supplier represents a vendor the purchasing department buys from.
// Contact details feed the validation engine's profile-completeness checks.
type Supplier struct {
	gorm.Model
	SupplierID    string    `json:"supplierId" gorm:"unique_index"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	Rating        int       `json:"rating"`
	IsActive      bool      `json:"isActive"`
	Products      []Product `json:"products" gorm:"foreignkey:SupplierRecordID"`
}

// Product is a catalog entry a supplier can deliver. DefaultPrice is the
// supplier's standing price before a concrete quote exists; nil means the
// supplier quotes on request.
type Product struct {
	gorm.Model
	SupplierRecordID uint     `json:"-"`
	Name             string   `json:"name"`
	Unit             string   `json:"unit,omitempty"`
	DefaultPrice     *float64 `json:"defaultPrice,omitempty"`
	InStock          bool     `json:"inStock"`
}
