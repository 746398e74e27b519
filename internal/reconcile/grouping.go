package reconcile

import (
	"sort"
)

// GroupingConfig carries the small-order heuristic thresholds. A group is a
// small order when it has at most SmallOrderMaxItems lines and its total
// value is strictly below SmallOrderMinValue.
type GroupingConfig struct {
	SmallOrderMaxItems int     `yaml:"small_order_max_items"`
	SmallOrderMinValue float64 `yaml:"small_order_min_value"`
}

// DefaultGroupingConfig returns the standard thresholds: two items, $50.
func DefaultGroupingConfig() GroupingConfig {
	return GroupingConfig{
		SmallOrderMaxItems: 2,
		SmallOrderMinValue: 50,
	}
}

// GroupItemsBySupplier partitions the selected items by supplier and
// computes per-supplier totals and item counts. Groups are sorted
// descending by total value; ties keep first-seen order (stable sort), so
// output is deterministic for a fixed input order.
func GroupItemsBySupplier(items []SelectedQuoteItem, cfg GroupingConfig) []SupplierGroup {
	var (
		groups  []SupplierGroup
		indexes = make(map[string]int)
	)

	for _, item := range items {
		idx, ok := indexes[item.SupplierID]
		if !ok {
			groups = append(groups, SupplierGroup{
				SupplierID:   item.SupplierID,
				SupplierName: item.SupplierName,
			})
			idx = len(groups) - 1
			indexes[item.SupplierID] = idx
		}

		groups[idx].Items = append(groups[idx].Items, item)
		groups[idx].TotalValue = round2(groups[idx].TotalValue + item.TotalPrice)
		groups[idx].ItemCount++
	}

	for i := range groups {
		groups[i].IsSmallOrder = groups[i].ItemCount <= cfg.SmallOrderMaxItems &&
			groups[i].TotalValue < cfg.SmallOrderMinValue
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalValue > groups[j].TotalValue
	})

	return groups
}
