package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuesOfKind(result ValidationResult, kind IssueKind) []Issue {
	var out []Issue
	for _, issue := range result.Issues {
		if issue.Kind == kind {
			out = append(out, issue)
		}
	}
	return out
}

func TestValidateCleanSelectionHasNoIssues(t *testing.T) {
	validator := NewValidator(testCatalog(), DefaultValidationConfig())

	items := []SelectedQuoteItem{
		{ID: "a", ItemName: "Tomatoes", SupplierID: "sup-1", SupplierName: "Fresh Farms", Quantity: 20, Price: 2.50, TotalPrice: 50, QuotedAt: time.Now()},
		{ID: "b", ItemName: "Lettuce", SupplierID: "sup-1", SupplierName: "Fresh Farms", Quantity: 10, Price: 1.80, TotalPrice: 18, QuotedAt: time.Now()},
	}

	result := validator.ValidateSupplierData(items)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
}

func TestValidateUnknownSupplier(t *testing.T) {
	validator := NewValidator(testCatalog(), DefaultValidationConfig())

	result := validator.ValidateSupplierData([]SelectedQuoteItem{
		{ID: "a", ItemName: "Tomatoes", SupplierID: "sup-9", SupplierName: "Ghost Foods", Quantity: 30, Price: 2, TotalPrice: 60},
	})

	assert.False(t, result.IsValid)
	profile := issuesOfKind(result, IssueIncompleteProfile)
	require.Len(t, profile, 1)
	assert.Equal(t, "sup-9", profile[0].SupplierID)
	assert.Contains(t, profile[0].Message, "not in the catalog")
}

func TestValidateQuoteExpiry(t *testing.T) {
	cfg := DefaultValidationConfig()
	validator := NewValidator(testCatalog(), cfg)

	stale := time.Now().Add(-15 * 24 * time.Hour)
	fresh := time.Now().Add(-24 * time.Hour)

	result := validator.ValidateSupplierData([]SelectedQuoteItem{
		{ID: "a", ItemName: "Tomatoes", SupplierID: "sup-1", SupplierName: "Fresh Farms", Quantity: 30, Price: 2.5, TotalPrice: 75, QuotedAt: stale},
		{ID: "b", ItemName: "Lettuce", SupplierID: "sup-1", SupplierName: "Fresh Farms", Quantity: 10, Price: 1.8, TotalPrice: 18, QuotedAt: fresh},
	})

	expired := issuesOfKind(result, IssueQuoteExpired)
	require.Len(t, expired, 1)
	assert.Contains(t, expired[0].Message, "Tomatoes")

	// A zero QuoteMaxAge disables the rule.
	cfg.QuoteMaxAge = 0
	validator = NewValidator(testCatalog(), cfg)
	result = validator.ValidateSupplierData([]SelectedQuoteItem{
		{ID: "a", ItemName: "Tomatoes", SupplierID: "sup-1", SupplierName: "Fresh Farms", Quantity: 30, Price: 2.5, TotalPrice: 75, QuotedAt: stale},
	})
	assert.Empty(t, issuesOfKind(result, IssueQuoteExpired))
}

func TestValidateCatalogPresenceAndStock(t *testing.T) {
	validator := NewValidator(testCatalog(), DefaultValidationConfig())

	result := validator.ValidateSupplierData([]SelectedQuoteItem{
		// Metro Wholesale carries tomatoes but is out of stock.
		{ID: "a", ItemName: "Tomatoes", SupplierID: "sup-2", SupplierName: "Metro Wholesale", Quantity: 40, Price: 2.2, TotalPrice: 88, QuotedAt: time.Now()},
		// Fresh Farms does not carry olive oil at all.
		{ID: "b", ItemName: "Olive Oil", SupplierID: "sup-1", SupplierName: "Fresh Farms", Quantity: 12, Price: 8, TotalPrice: 96, QuotedAt: time.Now()},
	})

	stock := issuesOfKind(result, IssueOutOfStock)
	require.Len(t, stock, 1)
	assert.Equal(t, "sup-2", stock[0].SupplierID)

	catalog := issuesOfKind(result, IssueNotInCatalog)
	require.Len(t, catalog, 1)
	assert.Equal(t, "sup-1", catalog[0].SupplierID)
	assert.Contains(t, catalog[0].Message, "Olive Oil")
}

func TestValidateSmallOrderConsolidation(t *testing.T) {
	validator := NewValidator(testCatalog(), DefaultValidationConfig())

	// Two small orders: both get a consolidation suggestion.
	result := validator.ValidateSupplierData([]SelectedQuoteItem{
		{ID: "a", ItemName: "Tomatoes", SupplierID: "sup-1", SupplierName: "Fresh Farms", Quantity: 4, Price: 2.5, TotalPrice: 10, QuotedAt: time.Now()},
		{ID: "b", ItemName: "Tomatoes", SupplierID: "sup-2", SupplierName: "Metro Wholesale", Quantity: 5, Price: 2.2, TotalPrice: 11, QuotedAt: time.Now()},
	})
	assert.Len(t, issuesOfKind(result, IssueSmallOrder), 2)

	// A single small order gets no suggestion: there is nothing to
	// consolidate it with.
	result = validator.ValidateSupplierData([]SelectedQuoteItem{
		{ID: "a", ItemName: "Tomatoes", SupplierID: "sup-1", SupplierName: "Fresh Farms", Quantity: 4, Price: 2.5, TotalPrice: 10, QuotedAt: time.Now()},
	})
	assert.Empty(t, issuesOfKind(result, IssueSmallOrder))
}

func TestValidatorRulesAreExtensible(t *testing.T) {
	validator := NewValidator(testCatalog(), DefaultValidationConfig())
	validator.AddGroupRule(func(group SupplierGroup, ctx *RuleContext) []Issue {
		if group.TotalValue > 1000 {
			return []Issue{{SupplierID: group.SupplierID, Kind: "budget_exceeded", Message: "order exceeds budget"}}
		}
		return nil
	})

	result := validator.ValidateSupplierData([]SelectedQuoteItem{
		{ID: "a", ItemName: "Tomatoes", SupplierID: "sup-1", SupplierName: "Fresh Farms", Quantity: 600, Price: 2.5, TotalPrice: 1500, QuotedAt: time.Now()},
	})

	found := false
	for _, issue := range result.Issues {
		if issue.Kind == "budget_exceeded" {
			found = true
		}
	}
	assert.True(t, found, "custom rule should run alongside the standard battery")
}

// All rules run; no short-circuiting after the first failure.
func TestValidateCollectsAllIssues(t *testing.T) {
	validator := NewValidator(testCatalog(), DefaultValidationConfig())

	stale := time.Now().Add(-30 * 24 * time.Hour)
	result := validator.ValidateSupplierData([]SelectedQuoteItem{
		{ID: "a", ItemName: "Olive Oil", SupplierID: "sup-1", SupplierName: "Fresh Farms", Quantity: 2, Price: 8, TotalPrice: 16, QuotedAt: stale},
		{ID: "b", ItemName: "Tomatoes", SupplierID: "sup-2", SupplierName: "Metro Wholesale", Quantity: 2, Price: 2.2, TotalPrice: 4.4, QuotedAt: stale},
	})

	assert.NotEmpty(t, issuesOfKind(result, IssueQuoteExpired))
	assert.NotEmpty(t, issuesOfKind(result, IssueNotInCatalog))
	assert.NotEmpty(t, issuesOfKind(result, IssueOutOfStock))
	assert.NotEmpty(t, issuesOfKind(result, IssueSmallOrder))
	assert.False(t, result.IsValid)
}
