package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"provision/internal/models"
	"provision/internal/reconcile"
)

// ListSuppliers retrieves the supplier catalog with products.
func (s *Server) ListSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	s.db.Preload("Products").Find(&suppliers)
	c.JSON(http.StatusOK, suppliers)
}

// GetSupplier retrieves a single supplier by its public id.
func (s *Server) GetSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := s.db.Preload("Products").Where("supplier_id = ?", c.Param("id")).First(&supplier).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// CreateSupplier adds a supplier and its product catalog.
func (s *Server) CreateSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if supplier.SupplierID == "" {
		supplier.SupplierID = "sup-" + uuid.New().String()
	}

	if err := s.db.Create(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier replaces a supplier's profile and product list.
func (s *Server) UpdateSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := s.db.Where("supplier_id = ?", c.Param("id")).First(&supplier).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}

	var update models.Supplier
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier.Name = update.Name
	supplier.ContactPerson = update.ContactPerson
	supplier.Email = update.Email
	supplier.Phone = update.Phone
	supplier.Address = update.Address
	supplier.Rating = update.Rating
	supplier.IsActive = update.IsActive

	if err := s.db.Save(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if update.Products != nil {
		if err := s.db.Where("supplier_record_id = ?", supplier.ID).Delete(&models.Product{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for i := range update.Products {
			update.Products[i].SupplierRecordID = supplier.ID
			if err := s.db.Create(&update.Products[i]).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		supplier.Products = update.Products
	}

	c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier soft-deletes a supplier.
func (s *Server) DeleteSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := s.db.Where("supplier_id = ?", c.Param("id")).First(&supplier).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}

	if err := s.db.Delete(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted"})
}

// MatchSuppliers returns the suppliers able to fulfill the named product,
// using the catalog matcher over a fresh snapshot.
func (s *Server) MatchSuppliers(c *gin.Context) {
	name := c.Query("product")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product query parameter required"})
		return
	}

	catalog := s.loadCatalog()
	matches := catalog.FindSuppliersForProduct(name)
	if matches == nil {
		matches = []models.Supplier{}
	}
	c.JSON(http.StatusOK, matches)
}

// loadCatalog reads the current supplier catalog into an immutable
// snapshot for the reconciliation engine.
func (s *Server) loadCatalog() *reconcile.Catalog {
	var suppliers []models.Supplier
	s.db.Preload("Products").Find(&suppliers)
	return reconcile.NewCatalog(suppliers)
}
