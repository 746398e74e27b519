package reconcile

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// OverrideStore holds the process-local manual additions and quantity
// overrides, separate from the server-fetched selection. Implementations
// decide where overrides actually live (memory, disk, database row).
type OverrideStore interface {
	List() []SelectedQuoteItem
	Put(item SelectedQuoteItem)
	Remove(id string)
	Clear()
}

// MemoryOverrideStore is the default in-process OverrideStore.
type MemoryOverrideStore struct {
	mu    sync.RWMutex
	items []SelectedQuoteItem
}

// NewMemoryOverrideStore creates an empty in-memory store.
func NewMemoryOverrideStore() *MemoryOverrideStore {
	return &MemoryOverrideStore{}
}

// List returns a copy of the stored items in insertion order.
func (s *MemoryOverrideStore) List() []SelectedQuoteItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SelectedQuoteItem, len(s.items))
	copy(out, s.items)
	return out
}

// Put inserts the item, replacing any stored item with the same id.
func (s *MemoryOverrideStore) Put(item SelectedQuoteItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}

// Remove deletes the item with the given id, if present.
func (s *MemoryOverrideStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Clear empties the store. Safe to call repeatedly.
func (s *MemoryOverrideStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// OverrideLayer reconciles server-fetched selected items with local manual
// additions and quantity overrides. All mutation recomputes TotalPrice so
// the round(price*quantity, 2) invariant holds on every read.
type OverrideLayer struct {
	store OverrideStore
}

// NewOverrideLayer wraps the given store. A nil store gets an in-memory one.
func NewOverrideLayer(store OverrideStore) *OverrideLayer {
	if store == nil {
		store = NewMemoryOverrideStore()
	}
	return &OverrideLayer{store: store}
}

// Store exposes the underlying override store.
func (l *OverrideLayer) Store() OverrideStore {
	return l.store
}

// AddManualItem stores an ad-hoc line item. An id is minted when absent.
// Returns the stored copy. Fails with ErrInvalidQuantity when the quantity
// is not positive; no state changes on failure.
func (l *OverrideLayer) AddManualItem(item SelectedQuoteItem) (SelectedQuoteItem, error) {
	if item.Quantity <= 0 {
		return SelectedQuoteItem{}, ErrInvalidQuantity
	}

	if item.ID == "" {
		item.ID = "local-" + uuid.New().String()
	}
	if item.Source == "" {
		item.Source = SourceManual
	}
	item.IsManuallySelected = true
	item.TotalPrice = round2(item.Price * item.Quantity)

	l.store.Put(item)
	return item, nil
}

// UpdateQuantity changes the quantity of a selected item. Local items are
// mutated in place under the same id. Server items get a synthesized
// override item keyed local-override-<id>; any earlier override for the
// same original is evicted first, so at most one override per original item
// is active. Fails with ErrInvalidQuantity when the new quantity is not
// positive; no state changes on failure.
func (l *OverrideLayer) UpdateQuantity(item SelectedQuoteItem, newQuantity float64) (SelectedQuoteItem, error) {
	if newQuantity <= 0 {
		return SelectedQuoteItem{}, ErrInvalidQuantity
	}

	// Local item: mutate in place.
	for _, stored := range l.store.List() {
		if stored.ID == item.ID {
			stored.Quantity = newQuantity
			stored.TotalPrice = round2(stored.Price * newQuantity)
			l.store.Put(stored)
			return stored, nil
		}
	}

	// Server item: synthesize an override, evicting any prior one for the
	// same original.
	originalID := item.ID
	if item.Source == SourceOverride && item.OriginalID != "" {
		originalID = item.OriginalID
	}

	override := item
	override.ID = overridePrefix + originalID
	override.OriginalID = originalID
	override.Source = SourceOverride
	override.Quantity = newQuantity
	override.TotalPrice = round2(override.Price * newQuantity)
	override.IsManuallySelected = true

	l.store.Remove(override.ID)
	l.store.Put(override)
	return override, nil
}

// Merge combines server-fetched items with the local collection. Server
// items that have an active local override are excluded before
// concatenation, so the merged list carries at most one item per original
// identity and overrides take precedence over stale server values.
func Merge(serverItems, localItems []SelectedQuoteItem) []SelectedQuoteItem {
	overridden := make(map[string]bool)
	for _, item := range localItems {
		switch {
		case item.OriginalID != "":
			overridden[item.OriginalID] = true
		case strings.HasPrefix(item.ID, overridePrefix):
			overridden[strings.TrimPrefix(item.ID, overridePrefix)] = true
		}
	}

	merged := make([]SelectedQuoteItem, 0, len(serverItems)+len(localItems))
	for _, item := range serverItems {
		if overridden[item.ID] {
			continue
		}
		merged = append(merged, item)
	}
	return append(merged, localItems...)
}

// MergedItems merges the given server items with this layer's local
// collection.
func (l *OverrideLayer) MergedItems(serverItems []SelectedQuoteItem) []SelectedQuoteItem {
	return Merge(serverItems, l.store.List())
}

// Clear empties the local collection. Called after a successful order
// submission; idempotent.
func (l *OverrideLayer) Clear() {
	l.store.Clear()
}
