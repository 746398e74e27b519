package reconcile

import (
	"fmt"
	"strings"

	"provision/internal/models"
)

// AggregateItems merges the item lists of multiple chef requests into one
// list, summing quantities for items sharing the same name and unit
// (case-insensitive). Output preserves the insertion order of each item's
// first occurrence.
//
// Quantities that failed numeric parsing upstream arrive as zero; they are
// counted as zero and reported in the returned warnings rather than
// silently dropped.
func AggregateItems(requestItemLists [][]models.RequestItem) ([]models.RequestItem, []string) {
	type bucket struct {
		index int
		total float64
	}

	var (
		merged   []models.RequestItem
		warnings []string
		buckets  = make(map[string]*bucket)
	)

	for _, items := range requestItemLists {
		for _, item := range items {
			key := strings.ToLower(strings.TrimSpace(item.Name)) + ":" + strings.ToLower(strings.TrimSpace(item.Unit))

			qty := item.Quantity.Float64()
			if qty <= 0 {
				warnings = append(warnings, fmt.Sprintf("item %q has no usable quantity, counted as 0", item.Name))
			}

			if b, ok := buckets[key]; ok {
				b.total += qty
				merged[b.index].Quantity = models.Quantity(b.total)
				continue
			}

			copied := item
			copied.Quantity = models.Quantity(qty)
			merged = append(merged, copied)
			buckets[key] = &bucket{index: len(merged) - 1, total: qty}
		}
	}

	return merged, warnings
}
