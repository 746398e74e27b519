package reconcile

import (
	"fmt"
	"time"
)

// ValidationConfig controls the rule battery.
type ValidationConfig struct {
	// QuoteMaxAge is how long a quoted price stays fresh. Zero disables
	// the expiry rule.
	QuoteMaxAge time.Duration `yaml:"-"`
	// Blocking makes validation failures reject order submission instead
	// of being advisory.
	Blocking bool           `yaml:"blocking_validation"`
	Grouping GroupingConfig `yaml:"-"`
}

// DefaultValidationConfig returns a 14-day quote window, advisory mode and
// the standard grouping thresholds.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		QuoteMaxAge: 14 * 24 * time.Hour,
		Grouping:    DefaultGroupingConfig(),
	}
}

// RuleContext carries the shared inputs a rule may consult.
type RuleContext struct {
	Catalog *Catalog
	Now     time.Time
	Config  ValidationConfig
}

// GroupRule checks one supplier group. CrossRule checks the whole set of
// groups for cross-cutting findings. Rules are independent: all run, every
// applicable issue surfaces, no short-circuiting.
type (
	GroupRule func(group SupplierGroup, ctx *RuleContext) []Issue
	CrossRule func(groups []SupplierGroup, ctx *RuleContext) []Issue
)

// Validator runs the business-rule battery over supplier groups. The rule
// sets are ordered slices so new rules can be appended without touching the
// aggregation logic.
type Validator struct {
	catalog    *Catalog
	config     ValidationConfig
	groupRules []GroupRule
	crossRules []CrossRule
	now        func() time.Time
}

// NewValidator builds a validator with the standard rule battery.
func NewValidator(catalog *Catalog, config ValidationConfig) *Validator {
	return &Validator{
		catalog: catalog,
		config:  config,
		groupRules: []GroupRule{
			ruleSupplierProfile,
			ruleQuoteExpiry,
			ruleCatalogPresence,
			ruleStockAvailability,
		},
		crossRules: []CrossRule{
			ruleSmallOrderConsolidation,
		},
		now: time.Now,
	}
}

// AddGroupRule appends a custom per-group rule to the battery.
func (v *Validator) AddGroupRule(rule GroupRule) {
	v.groupRules = append(v.groupRules, rule)
}

// AddCrossRule appends a custom cross-group rule to the battery.
func (v *Validator) AddCrossRule(rule CrossRule) {
	v.crossRules = append(v.crossRules, rule)
}

// ValidateSupplierData groups the selected items and runs every rule over
// the result. Synchronous and pure given the catalog snapshot; issues are
// advisory unless the blocking gate is on.
func (v *Validator) ValidateSupplierData(items []SelectedQuoteItem) ValidationResult {
	groups := GroupItemsBySupplier(items, v.config.Grouping)
	return v.ValidateGroups(groups)
}

// ValidateGroups runs the rule battery over pre-computed supplier groups.
func (v *Validator) ValidateGroups(groups []SupplierGroup) ValidationResult {
	ctx := &RuleContext{
		Catalog: v.catalog,
		Now:     v.now(),
		Config:  v.config,
	}

	issues := []Issue{}
	for _, group := range groups {
		for _, rule := range v.groupRules {
			issues = append(issues, rule(group, ctx)...)
		}
	}
	for _, rule := range v.crossRules {
		issues = append(issues, rule(groups, ctx)...)
	}

	return ValidationResult{
		IsValid: len(issues) == 0,
		Issues:  issues,
	}
}

// ruleSupplierProfile flags suppliers missing from the catalog or missing
// the contact details purchasing needs to place an order.
func ruleSupplierProfile(group SupplierGroup, ctx *RuleContext) []Issue {
	supplier, ok := ctx.Catalog.SupplierByID(group.SupplierID)
	if !ok {
		return []Issue{{
			SupplierID: group.SupplierID,
			Kind:       IssueIncompleteProfile,
			Message:    fmt.Sprintf("Supplier %s is not in the catalog", group.SupplierName),
		}}
	}

	var issues []Issue
	if supplier.Email == "" && supplier.Phone == "" {
		issues = append(issues, Issue{
			SupplierID: group.SupplierID,
			Kind:       IssueIncompleteProfile,
			Message:    fmt.Sprintf("Supplier %s has no contact details on file", group.SupplierName),
		})
	}
	if !supplier.IsActive {
		issues = append(issues, Issue{
			SupplierID: group.SupplierID,
			Kind:       IssueIncompleteProfile,
			Message:    fmt.Sprintf("Supplier %s is marked inactive", group.SupplierName),
		})
	}
	return issues
}

// ruleQuoteExpiry flags line items whose quoted price is older than the
// configured freshness window. Items without a quote timestamp are skipped.
func ruleQuoteExpiry(group SupplierGroup, ctx *RuleContext) []Issue {
	if ctx.Config.QuoteMaxAge <= 0 {
		return nil
	}

	var issues []Issue
	for _, item := range group.Items {
		if item.QuotedAt.IsZero() {
			continue
		}
		if ctx.Now.Sub(item.QuotedAt) > ctx.Config.QuoteMaxAge {
			issues = append(issues, Issue{
				SupplierID: group.SupplierID,
				Kind:       IssueQuoteExpired,
				Message:    fmt.Sprintf("Quote for %s from %s has expired", item.ItemName, group.SupplierName),
			})
		}
	}
	return issues
}

// ruleCatalogPresence flags line items the supplier's catalog does not
// carry.
func ruleCatalogPresence(group SupplierGroup, ctx *RuleContext) []Issue {
	if _, ok := ctx.Catalog.SupplierByID(group.SupplierID); !ok {
		// Profile rule already reports the missing supplier.
		return nil
	}

	var issues []Issue
	for _, item := range group.Items {
		if !ctx.Catalog.HasProduct(group.SupplierID, item.ItemName) {
			issues = append(issues, Issue{
				SupplierID: group.SupplierID,
				Kind:       IssueNotInCatalog,
				Message:    fmt.Sprintf("%s is not in %s's catalog", item.ItemName, group.SupplierName),
			})
		}
	}
	return issues
}

// ruleStockAvailability warns about line items the supplier carries but
// reports out of stock.
func ruleStockAvailability(group SupplierGroup, ctx *RuleContext) []Issue {
	var issues []Issue
	for _, item := range group.Items {
		inStock, carried := ctx.Catalog.ProductInStock(group.SupplierID, item.ItemName)
		if carried && !inStock {
			issues = append(issues, Issue{
				SupplierID: group.SupplierID,
				Kind:       IssueOutOfStock,
				Message:    fmt.Sprintf("%s reports %s out of stock", group.SupplierName, item.ItemName),
			})
		}
	}
	return issues
}

// ruleSmallOrderConsolidation suggests consolidating when more than one
// supplier group falls under the small-order thresholds.
func ruleSmallOrderConsolidation(groups []SupplierGroup, ctx *RuleContext) []Issue {
	var small []SupplierGroup
	for _, group := range groups {
		if group.IsSmallOrder {
			small = append(small, group)
		}
	}
	if len(small) < 2 {
		return nil
	}

	var issues []Issue
	for _, group := range small {
		issues = append(issues, Issue{
			SupplierID: group.SupplierID,
			Kind:       IssueSmallOrder,
			Message:    fmt.Sprintf("Order for %s is small (%d items, $%.2f); consider consolidating with another supplier", group.SupplierName, group.ItemCount, group.TotalValue),
		})
	}
	return issues
}
