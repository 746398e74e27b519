package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provision/internal/models"
)

func testRequests() []models.ChefRequest {
	return []models.ChefRequest{
		{
			RequestID: "req-1",
			Title:     "Weekend prep",
			Items: []models.RequestItem{
				{ItemID: "itm-1", Name: "Tomatoes", Quantity: 20, Unit: "kg"},
				{ItemID: "itm-2", Name: "Lettuce", Quantity: 10, Unit: "kg"},
			},
		},
	}
}

func TestFindMissingItems(t *testing.T) {
	selected := []SelectedQuoteItem{
		{ID: "sel-1", ItemName: "Tomatoes", RequestID: "req-1", Quantity: 20, SupplierID: "sup-1"},
	}

	missing := FindMissingItems(selected, testRequests(), testCatalog(), nil)
	require.Len(t, missing, 1)

	m := missing[0]
	assert.Equal(t, "Lettuce", m.Name)
	assert.Equal(t, "req-1", m.RequestID)
	assert.Equal(t, "Weekend prep", m.RequestTitle)
	assert.Equal(t, 10.0, m.Quantity)

	// Only Fresh Farms carries lettuce.
	require.Len(t, m.QuotedBy, 1)
	assert.Equal(t, "sup-1", m.QuotedBy[0].SupplierID)
	require.NotNil(t, m.QuotedBy[0].Price)
	assert.Equal(t, 1.80, *m.QuotedBy[0].Price)
}

func TestFindMissingItemsKeyIsCaseInsensitiveNamePlusRequest(t *testing.T) {
	selected := []SelectedQuoteItem{
		{ID: "sel-1", ItemName: "TOMATOES", RequestID: "req-1"},
		// Same name under a different request does not cover req-1's item.
		{ID: "sel-2", ItemName: "Lettuce", RequestID: "req-2"},
	}

	missing := FindMissingItems(selected, testRequests(), testCatalog(), nil)
	require.Len(t, missing, 1)
	assert.Equal(t, "Lettuce", missing[0].Name)
}

func TestFindMissingItemsZeroQuantityStillCovers(t *testing.T) {
	// Quantity is not checked: a zero-quantity selected line counts as
	// covered.
	selected := []SelectedQuoteItem{
		{ID: "sel-1", ItemName: "Tomatoes", RequestID: "req-1", Quantity: 0},
		{ID: "sel-2", ItemName: "Lettuce", RequestID: "req-1", Quantity: 10},
	}

	missing := FindMissingItems(selected, testRequests(), testCatalog(), nil)
	assert.Empty(t, missing)
}

func TestFindMissingItemsExcludesSkippedSuppliers(t *testing.T) {
	skips := NewSkipSet()
	skips.Skip("Tomatoes", "req-1", "sup-2")

	missing := FindMissingItems(nil, testRequests(), testCatalog(), skips)
	require.Len(t, missing, 2)

	tomatoes := missing[0]
	require.Equal(t, "Tomatoes", tomatoes.Name)
	require.Len(t, tomatoes.QuotedBy, 1)
	assert.Equal(t, "sup-1", tomatoes.QuotedBy[0].SupplierID)

	skips.Clear()
	missing = FindMissingItems(nil, testRequests(), testCatalog(), skips)
	assert.Len(t, missing[0].QuotedBy, 2)
}

func TestFindMissingItemsNoQuotingSuppliersIsValid(t *testing.T) {
	requests := []models.ChefRequest{
		{
			RequestID: "req-9",
			Title:     "Specials",
			Items:     []models.RequestItem{{Name: "Saffron", Quantity: 1, Unit: "g"}},
		},
	}

	missing := FindMissingItems(nil, requests, testCatalog(), nil)
	require.Len(t, missing, 1)
	assert.Empty(t, missing[0].QuotedBy)
}

func TestConfirmMissingItem(t *testing.T) {
	missing := FindMissingItems(
		[]SelectedQuoteItem{{ID: "sel-1", ItemName: "Tomatoes", RequestID: "req-1", Quantity: 20}},
		testRequests(), testCatalog(), nil)
	require.Len(t, missing, 1)

	item, err := ConfirmMissingItem(missing[0], "sup-1")
	require.NoError(t, err)
	assert.Equal(t, "Lettuce", item.ItemName)
	assert.Equal(t, "sup-1", item.SupplierID)
	assert.Equal(t, 1.80, item.Price)
	assert.Equal(t, 18.0, item.TotalPrice)
	assert.True(t, item.IsManuallySelected)
	assert.Equal(t, SourceManual, item.Source)

	// Confirming against a supplier that never quoted the item fails.
	_, err = ConfirmMissingItem(missing[0], "sup-2")
	assert.ErrorIs(t, err, ErrSupplierInfoNotFound)
}

// End-to-end: detect the gap, confirm it, and verify the detector goes
// quiet once the confirmed line joins the selected set.
func TestMissingItemRoundTrip(t *testing.T) {
	selected := []SelectedQuoteItem{
		{ID: "sel-1", ItemName: "Tomatoes", RequestID: "req-1", Quantity: 20},
	}

	missing := FindMissingItems(selected, testRequests(), testCatalog(), nil)
	require.Len(t, missing, 1)

	confirmed, err := ConfirmMissingItem(missing[0], "sup-1")
	require.NoError(t, err)

	layer := NewOverrideLayer(nil)
	stored, err := layer.AddManualItem(confirmed)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)

	merged := layer.MergedItems(selected)
	missing = FindMissingItems(merged, testRequests(), testCatalog(), nil)
	assert.Empty(t, missing)
}
