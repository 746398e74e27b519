package reconcile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serverItem(id string, qty, price float64) SelectedQuoteItem {
	return SelectedQuoteItem{
		ID:           id,
		ItemName:     "Item " + id,
		Quantity:     qty,
		Unit:         "kg",
		SupplierID:   "sup-1",
		SupplierName: "Fresh Farms",
		Price:        price,
		TotalPrice:   round2(price * qty),
		RequestID:    "req-1",
		Source:       SourceServer,
	}
}

func TestAddManualItem(t *testing.T) {
	layer := NewOverrideLayer(nil)

	stored, err := layer.AddManualItem(SelectedQuoteItem{
		ItemName: "Basil", Quantity: 3, Price: 1.10, SupplierID: "sup-1",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.ID, "local-"))
	assert.True(t, stored.IsManuallySelected)
	assert.Equal(t, SourceManual, stored.Source)
	assert.Equal(t, 3.30, stored.TotalPrice)
	assert.Len(t, layer.Store().List(), 1)
}

func TestAddManualItemRejectsNonPositiveQuantity(t *testing.T) {
	layer := NewOverrideLayer(nil)

	_, err := layer.AddManualItem(SelectedQuoteItem{ItemName: "Basil", Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = layer.AddManualItem(SelectedQuoteItem{ItemName: "Basil", Quantity: -2})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// No state mutation on failure.
	assert.Empty(t, layer.Store().List())
}

func TestUpdateQuantityOnLocalItemMutatesInPlace(t *testing.T) {
	layer := NewOverrideLayer(nil)
	stored, err := layer.AddManualItem(SelectedQuoteItem{ItemName: "Basil", Quantity: 3, Price: 1.10})
	require.NoError(t, err)

	updated, err := layer.UpdateQuantity(stored, 5)
	require.NoError(t, err)

	assert.Equal(t, stored.ID, updated.ID)
	assert.Equal(t, 5.0, updated.Quantity)
	assert.Equal(t, 5.50, updated.TotalPrice)
	assert.Len(t, layer.Store().List(), 1)
}

func TestUpdateQuantityOnServerItemSynthesizesOverride(t *testing.T) {
	layer := NewOverrideLayer(nil)
	server := serverItem("srv-42", 10, 2.50)

	override, err := layer.UpdateQuantity(server, 7)
	require.NoError(t, err)

	assert.Equal(t, "local-override-srv-42", override.ID)
	assert.Equal(t, "srv-42", override.OriginalID)
	assert.Equal(t, SourceOverride, override.Source)
	assert.Equal(t, 7.0, override.Quantity)
	assert.Equal(t, 17.50, override.TotalPrice)
	assert.True(t, override.IsManuallySelected)

	// A second override for the same original replaces the first.
	again, err := layer.UpdateQuantity(server, 9)
	require.NoError(t, err)
	assert.Equal(t, override.ID, again.ID)

	local := layer.Store().List()
	require.Len(t, local, 1)
	assert.Equal(t, 9.0, local[0].Quantity)
}

func TestUpdateQuantityRejectsNonPositive(t *testing.T) {
	layer := NewOverrideLayer(nil)

	_, err := layer.UpdateQuantity(serverItem("srv-1", 10, 2.50), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, layer.Store().List())
}

// Override precedence: after overriding a server item's quantity, the
// merged list carries exactly one item for that original identity, with the
// overridden quantity. Plain concatenation would leak the stale server line
// and double-count the total.
func TestMergeOverridePrecedence(t *testing.T) {
	layer := NewOverrideLayer(nil)
	server := []SelectedQuoteItem{
		serverItem("srv-1", 10, 2.50),
		serverItem("srv-2", 4, 3.00),
	}

	_, err := layer.UpdateQuantity(server[0], 7)
	require.NoError(t, err)

	merged := layer.MergedItems(server)
	require.Len(t, merged, 2)

	var matches []SelectedQuoteItem
	for _, item := range merged {
		if item.ID == "srv-1" || item.OriginalID == "srv-1" {
			matches = append(matches, item)
		}
	}
	require.Len(t, matches, 1, "exactly one line for the overridden identity")
	assert.Equal(t, 7.0, matches[0].Quantity)
	assert.Equal(t, 17.50, matches[0].TotalPrice)
}

func TestMergeNoDuplicateIDs(t *testing.T) {
	layer := NewOverrideLayer(nil)
	server := []SelectedQuoteItem{
		serverItem("srv-1", 10, 2.50),
		serverItem("srv-2", 4, 3.00),
	}
	_, err := layer.UpdateQuantity(server[0], 3)
	require.NoError(t, err)
	_, err = layer.AddManualItem(SelectedQuoteItem{ItemName: "Basil", Quantity: 2, Price: 1})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, item := range layer.MergedItems(server) {
		assert.False(t, seen[item.ID], "duplicate id %s in merged list", item.ID)
		seen[item.ID] = true
	}
}

// Merge understands the bare local-override- id convention even when the
// tagged OriginalID field is absent (items round-tripped through older
// clients).
func TestMergeHandlesPrefixOnlyOverrides(t *testing.T) {
	server := []SelectedQuoteItem{serverItem("srv-1", 10, 2.50)}
	local := []SelectedQuoteItem{{
		ID:       "local-override-srv-1",
		ItemName: "Item srv-1",
		Quantity: 2,
		Price:    2.50,
	}}

	merged := Merge(server, local)
	require.Len(t, merged, 1)
	assert.Equal(t, 2.0, merged[0].Quantity)
}

// Total-price invariant across every mutation path in the layer.
func TestTotalPriceInvariant(t *testing.T) {
	layer := NewOverrideLayer(nil)

	stored, err := layer.AddManualItem(SelectedQuoteItem{ItemName: "Basil", Quantity: 3, Price: 1.115})
	require.NoError(t, err)
	assert.Equal(t, round2(1.115*3), stored.TotalPrice)

	updated, err := layer.UpdateQuantity(stored, 7)
	require.NoError(t, err)
	assert.Equal(t, round2(1.115*7), updated.TotalPrice)

	override, err := layer.UpdateQuantity(serverItem("srv-1", 10, 0.333), 3)
	require.NoError(t, err)
	assert.Equal(t, round2(0.333*3), override.TotalPrice)

	for _, item := range layer.Store().List() {
		assert.Equal(t, round2(item.Price*item.Quantity), item.TotalPrice)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	layer := NewOverrideLayer(nil)
	_, err := layer.AddManualItem(SelectedQuoteItem{ItemName: "Basil", Quantity: 2, Price: 1})
	require.NoError(t, err)

	layer.Clear()
	assert.Empty(t, layer.Store().List())
	layer.Clear()
	assert.Empty(t, layer.Store().List())
}
