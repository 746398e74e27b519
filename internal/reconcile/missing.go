package reconcile

import (
	"sync"

	"provision/internal/models"
)

// SkipSet tracks supplier quotes the purchasing agent has rejected for a
// given missing item, keyed the same way as MissingItem. Skipped suppliers
// are excluded from QuotedBy on subsequent detector runs. Process-local,
// cleared together with the override store after a successful submission.
type SkipSet struct {
	mu      sync.RWMutex
	skipped map[string]map[string]bool
}

// NewSkipSet creates an empty skip set.
func NewSkipSet() *SkipSet {
	return &SkipSet{skipped: make(map[string]map[string]bool)}
}

// Skip records that the supplier's quote for the item is rejected.
func (s *SkipSet) Skip(name, requestID, supplierID string) {
	key := ItemKey(name, requestID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.skipped[key] == nil {
		s.skipped[key] = make(map[string]bool)
	}
	s.skipped[key][supplierID] = true
}

// IsSkipped reports whether the supplier is rejected for the item.
func (s *SkipSet) IsSkipped(name, requestID, supplierID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skipped[ItemKey(name, requestID)][supplierID]
}

// Clear empties the skip set. Safe to call repeatedly.
func (s *SkipSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped = make(map[string]map[string]bool)
}

// FindMissingItems computes which requested items have no corresponding
// line in the selected set. Coverage is keyed by lowercased item name plus
// request id; a selected line with zero quantity still counts as covered.
// Each missing item's QuotedBy is populated from the catalog snapshot,
// minus suppliers skipped for that item. A nil skip set means no skips.
func FindMissingItems(selected []SelectedQuoteItem, requests []models.ChefRequest, catalog *Catalog, skips *SkipSet) []MissingItem {
	covered := make(map[string]bool, len(selected))
	for _, item := range selected {
		covered[ItemKey(item.ItemName, item.RequestID)] = true
	}

	var missing []MissingItem
	for _, request := range requests {
		for _, item := range request.Items {
			if covered[ItemKey(item.Name, request.RequestID)] {
				continue
			}

			m := MissingItem{
				Name:         item.Name,
				Quantity:     item.Quantity.Float64(),
				Unit:         item.Unit,
				RequestID:    request.RequestID,
				RequestTitle: request.Title,
				QuotedBy:     []SupplierQuoteRef{},
			}

			for _, supplier := range catalog.FindSuppliersForProduct(item.Name) {
				if skips != nil && skips.IsSkipped(item.Name, request.RequestID, supplier.SupplierID) {
					continue
				}
				m.QuotedBy = append(m.QuotedBy, SupplierQuoteRef{
					SupplierID:   supplier.SupplierID,
					SupplierName: supplier.Name,
					Price:        catalog.DefaultPrice(supplier.SupplierID, item.Name),
				})
			}

			missing = append(missing, m)
		}
	}
	return missing
}

// ConfirmMissingItem turns a missing item into a selected line for the
// given supplier, using the supplier's quoted price from the item's
// QuotedBy list. Returns ErrSupplierInfoNotFound when the supplier is not
// among the item's quoting suppliers.
func ConfirmMissingItem(item MissingItem, supplierID string) (SelectedQuoteItem, error) {
	for _, ref := range item.QuotedBy {
		if ref.SupplierID != supplierID {
			continue
		}

		price := 0.0
		if ref.Price != nil {
			price = *ref.Price
		}
		return SelectedQuoteItem{
			ItemName:           item.Name,
			Quantity:           item.Quantity,
			Unit:               item.Unit,
			SupplierID:         ref.SupplierID,
			SupplierName:       ref.SupplierName,
			Price:              price,
			TotalPrice:         round2(price * item.Quantity),
			RequestID:          item.RequestID,
			RequestTitle:       item.RequestTitle,
			IsManuallySelected: true,
			Source:             SourceManual,
		}, nil
	}
	return SelectedQuoteItem{}, ErrSupplierInfoNotFound
}
