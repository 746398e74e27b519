package reconcile

import (
	"strings"

	"provision/internal/models"
)

// Catalog is a read-only snapshot of the supplier catalog, injected into
// the engine so lookups never touch shared mutable state.
type Catalog struct {
	suppliers []models.Supplier
}

// NewCatalog builds a catalog snapshot from the given suppliers.
func NewCatalog(suppliers []models.Supplier) *Catalog {
	return &Catalog{suppliers: suppliers}
}

// Suppliers returns the suppliers in the snapshot.
func (c *Catalog) Suppliers() []models.Supplier {
	return c.suppliers
}

// FindSuppliersForProduct returns every supplier whose catalog contains the
// named product. Matching is exact on the trimmed, lowercased name; no
// fuzzy matching. An empty result is a valid answer, never an error.
func (c *Catalog) FindSuppliersForProduct(name string) []models.Supplier {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}

	var matches []models.Supplier
	for _, supplier := range c.suppliers {
		for _, product := range supplier.Products {
			if strings.ToLower(strings.TrimSpace(product.Name)) == needle {
				matches = append(matches, supplier)
				break
			}
		}
	}
	return matches
}

// SupplierByID looks up a supplier in the snapshot by its public id.
func (c *Catalog) SupplierByID(id string) (models.Supplier, bool) {
	for _, supplier := range c.suppliers {
		if supplier.SupplierID == id {
			return supplier, true
		}
	}
	return models.Supplier{}, false
}

// DefaultPrice returns the supplier's standing catalog price for the named
// product, or nil when the supplier quotes on request or does not carry it.
func (c *Catalog) DefaultPrice(supplierID, name string) *float64 {
	supplier, ok := c.SupplierByID(supplierID)
	if !ok {
		return nil
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	for _, product := range supplier.Products {
		if strings.ToLower(strings.TrimSpace(product.Name)) == needle {
			return product.DefaultPrice
		}
	}
	return nil
}

// HasProduct reports whether the supplier's catalog carries the named
// product.
func (c *Catalog) HasProduct(supplierID, name string) bool {
	supplier, ok := c.SupplierByID(supplierID)
	if !ok {
		return false
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	for _, product := range supplier.Products {
		if strings.ToLower(strings.TrimSpace(product.Name)) == needle {
			return true
		}
	}
	return false
}

// ProductInStock reports whether the supplier carries the product and has
// it in stock. The second return value is false when the product is not in
// the supplier's catalog at all.
func (c *Catalog) ProductInStock(supplierID, name string) (inStock, carried bool) {
	supplier, ok := c.SupplierByID(supplierID)
	if !ok {
		return false, false
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	for _, product := range supplier.Products {
		if strings.ToLower(strings.TrimSpace(product.Name)) == needle {
			return product.InStock, true
		}
	}
	return false, false
}
