package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// PurchaseOrder is a committed, supplier-scoped order produced by the
// reconciliation engine's submission step. One reconciliation submit creates
// one purchase order per supplier group.
type PurchaseOrder struct {
	gorm.Model
	OrderID      string              `json:"orderId" gorm:"unique_index"`
	SupplierID   string              `json:"supplierId" gorm:"index"`
	SupplierName string              `json:"supplierName"`
	Status       string              `json:"status"`
	TotalValue   float64             `json:"totalValue"`
	ItemCount    int                 `json:"itemCount"`
	PlacedAt     time.Time           `json:"placedAt"`
	PlacedBy     string              `json:"placedBy,omitempty"`
	Items        []PurchaseOrderItem `json:"items" gorm:"foreignkey:PurchaseOrderID"`
}

// PurchaseOrderItem is a committed line item on a purchase order.
type PurchaseOrderItem struct {
	gorm.Model
	PurchaseOrderID uint    `json:"-"`
	ItemName        string  `json:"itemName"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit"`
	Price           float64 `json:"price"`
	TotalPrice      float64 `json:"totalPrice"`
	RequestID       string  `json:"requestId"`
	IsOptional      bool    `json:"isOptional"`
}

// OrderStatus represents the possible states of a purchase order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusOrdered   OrderStatus = "ordered"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)
