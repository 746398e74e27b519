package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
)

// ChefRequest represents an ingredient request submitted by a chef.
// Purchasing reviews pending requests, approves or rejects them, and
// solicits supplier quotes for the approved ones.
type ChefRequest struct {
	gorm.Model
	RequestID string        `json:"requestId" gorm:"unique_index"`
	Title     string        `json:"title"`
	Status    string        `json:"status"`
	DueDate   time.Time     `json:"dueDate"`
	Category  string        `json:"category"`
	Notes     string        `json:"notes,omitempty"`
	CreatedBy string        `json:"createdBy,omitempty"`
	Items     []RequestItem `json:"items" gorm:"foreignkey:ChefRequestID"`
}

// RequestItem is a single ingredient line on a chef request. Items are
// immutable once created; edits create new items.
type RequestItem struct {
	gorm.Model
	ChefRequestID uint     `json:"-"`
	ItemID        string   `json:"itemId" gorm:"index"`
	Name          string   `json:"name"`
	Quantity      Quantity `json:"quantity"`
	Unit          string   `json:"unit"`
	StockStatus   string   `json:"stockStatus,omitempty"`
	StockValue    float64  `json:"stockValue,omitempty"`
}

// RequestStatus represents the lifecycle states of a chef request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusQuoting   RequestStatus = "quotes_solicited"
	RequestStatusOrdered   RequestStatus = "ordered"
	RequestStatusDelivered RequestStatus = "delivered"
)

// Quantity is a numeric amount that tolerates string-encoded numbers on the
// wire. Chef request payloads arrive with quantities like 5, "5" or "5.5";
// anything non-numeric decodes to zero so it can be flagged downstream
// instead of propagating NaN.
type Quantity float64

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*q = Quantity(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			*q = 0
			return nil
		}
		*q = Quantity(parsed)
	default:
		*q = 0
	}
	return nil
}

// Float64 returns the quantity as a plain float64.
func (q Quantity) Float64() float64 {
	return float64(q)
}
