// Package reconcile implements the purchasing reconciliation engine: it
// aggregates chef-requested items, matches them against supplier catalogs,
// detects requested items not covered by any confirmed quote, groups
// selected items into per-supplier orders, validates those groups against a
// battery of business rules, and merges manual overrides into the
// server-confirmed selection before an order is submitted.
package reconcile

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ItemSource tags where a selected item came from. Server items are
// re-fetched and immutable on the client side; manual and override items
// live in the local override store until submission.
type ItemSource string

const (
	SourceServer   ItemSource = "server"
	SourceManual   ItemSource = "manual"
	SourceOverride ItemSource = "override"
)

// overridePrefix is kept on override item IDs for wire compatibility with
// clients that key on the derived id.
const overridePrefix = "local-override-"

// SelectedQuoteItem is one line item the purchasing agent has chosen to
// include in the final order. TotalPrice must equal round(Price*Quantity, 2)
// whenever the item is read by grouping or validation; every mutation path
// in this package recomputes it.
type SelectedQuoteItem struct {
	ID                 string     `json:"id"`
	ItemName           string     `json:"itemName"`
	Quantity           float64    `json:"quantity"`
	Unit               string     `json:"unit"`
	SupplierID         string     `json:"supplierId"`
	SupplierName       string     `json:"supplierName"`
	Price              float64    `json:"price"`
	TotalPrice         float64    `json:"totalPrice"`
	RequestID          string     `json:"requestId"`
	RequestTitle       string     `json:"requestTitle"`
	QuotedAt           time.Time  `json:"quotedAt,omitempty"`
	IsOptional         bool       `json:"isOptional"`
	IsManuallySelected bool       `json:"isManuallySelected,omitempty"`
	Source             ItemSource `json:"source,omitempty"`
	OriginalID         string     `json:"originalId,omitempty"`
}

// SupplierQuoteRef names a supplier able to quote a missing item, with the
// supplier's default catalog price when one exists.
type SupplierQuoteRef struct {
	SupplierID   string   `json:"supplierId"`
	SupplierName string   `json:"supplierName"`
	Price        *float64 `json:"price,omitempty"`
}

// MissingItem is a requested item with no corresponding confirmed quote
// line. Derived, never persisted; recomputed from the current requests and
// selected items on every read. An empty QuotedBy list is a valid state,
// not an error.
type MissingItem struct {
	Name         string             `json:"name"`
	Quantity     float64            `json:"quantity"`
	Unit         string             `json:"unit"`
	RequestID    string             `json:"requestId"`
	RequestTitle string             `json:"requestTitle"`
	QuotedBy     []SupplierQuoteRef `json:"quotedBy"`
}

// Key returns the identity key used for missing-item and skip tracking.
func (m MissingItem) Key() string {
	return ItemKey(m.Name, m.RequestID)
}

// ItemKey builds the identity key joining requested items to confirmed
// quote lines: lowercased item name plus owning request id. Supplier quote
// lines arrive keyed by item name on the wire, so the join stays name-based
// even though request items carry minted ids.
func ItemKey(name, requestID string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "_" + requestID
}

// SupplierGroup is a derived per-supplier aggregate over the selected item
// set, recomputed whenever the selection changes.
type SupplierGroup struct {
	SupplierID   string              `json:"supplierId"`
	SupplierName string              `json:"supplierName"`
	Items        []SelectedQuoteItem `json:"items"`
	TotalValue   float64             `json:"totalValue"`
	ItemCount    int                 `json:"itemCount"`
	IsSmallOrder bool                `json:"isSmallOrder"`
}

// IssueKind classifies a validation finding.
type IssueKind string

const (
	IssueIncompleteProfile IssueKind = "incomplete_profile"
	IssueQuoteExpired      IssueKind = "quote_expired"
	IssueNotInCatalog      IssueKind = "not_in_catalog"
	IssueOutOfStock        IssueKind = "out_of_stock"
	IssueSmallOrder        IssueKind = "small_order"
)

// Issue is a single structured validation finding. Message carries the
// user-visible text.
type Issue struct {
	SupplierID string    `json:"supplierId,omitempty"`
	Kind       IssueKind `json:"kind"`
	Message    string    `json:"message"`
}

// ValidationResult is the stateless output of the validation engine.
// Issues are advisory: they are shown to the user but do not block
// submission unless the blocking gate is enabled.
type ValidationResult struct {
	IsValid bool    `json:"isValid"`
	Issues  []Issue `json:"issues"`
}

// Errors surfaced synchronously to callers. Validation issues are never
// errors.
var (
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrSupplierInfoNotFound = errors.New("supplier has no quote for this item")
	ErrCommitFailed         = errors.New("order commit failed")
)

// round2 rounds a monetary value to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round2 exposes cent rounding for callers building line items outside the
// merge layer.
func Round2(v float64) float64 {
	return round2(v)
}
