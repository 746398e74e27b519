package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Quote represents a priced response from one supplier covering one or more
// requested items. Purchasing confirms quote items into the selected set
// that the reconciliation engine works on.
type Quote struct {
	gorm.Model
	QuoteID    string      `json:"quoteId" gorm:"unique_index"`
	SupplierID string      `json:"supplierId" gorm:"index"`
	Status     string      `json:"status"`
	IssuedAt   time.Time   `json:"issuedAt"`
	ValidUntil time.Time   `json:"validUntil"`
	Items      []QuoteItem `json:"items" gorm:"foreignkey:QuoteRecordID"`
}

// QuoteItem is a single priced line on a supplier quote.
type QuoteItem struct {
	gorm.Model
	QuoteRecordID uint    `json:"-"`
	ItemName      string  `json:"itemName"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	Price         float64 `json:"price"`
	RequestID     string  `json:"requestId" gorm:"index"`
	IsOptional    bool    `json:"isOptional"`
	Confirmed     bool    `json:"confirmed"`
}

// QuoteStatus represents the lifecycle states of a supplier quote
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusReceived  QuoteStatus = "received"
	QuoteStatusConfirmed QuoteStatus = "confirmed"
	QuoteStatusExpired   QuoteStatus = "expired"
)
