package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"provision/internal/models"
	"provision/internal/notify"
	"provision/internal/reconcile"
)

// ListQuotes retrieves all supplier quotes with their line items.
func (s *Server) ListQuotes(c *gin.Context) {
	var quotes []models.Quote
	query := s.db.Preload("Items")
	if supplierID := c.Query("supplier"); supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	query.Find(&quotes)
	c.JSON(http.StatusOK, quotes)
}

// GetQuote retrieves a single quote by its public id.
func (s *Server) GetQuote(c *gin.Context) {
	var quote models.Quote
	if err := s.db.Preload("Items").Where("quote_id = ?", c.Param("id")).First(&quote).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// CreateQuote records a priced quote returned by a supplier.
func (s *Server) CreateQuote(c *gin.Context) {
	var quote models.Quote
	if err := c.ShouldBindJSON(&quote); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if quote.QuoteID == "" {
		quote.QuoteID = "quo-" + uuid.New().String()
	}
	if quote.Status == "" {
		quote.Status = string(models.QuoteStatusReceived)
	}
	if quote.IssuedAt.IsZero() {
		quote.IssuedAt = time.Now()
	}

	if err := s.db.Create(&quote).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.hub.Broadcast(notify.EventQuoteReceived, gin.H{"quoteId": quote.QuoteID, "supplierId": quote.SupplierID})
	c.JSON(http.StatusCreated, quote)
}

// GenerateQuoteBatch aggregates the items of the given approved requests
// and drafts one quote request per supplier able to fulfill at least one
// aggregated item. Aggregation warnings (unparseable quantities) are
// returned alongside the drafts.
func (s *Server) GenerateQuoteBatch(c *gin.Context) {
	var payload struct {
		RequestIDs []string `json:"requestIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var requests []models.ChefRequest
	s.db.Preload("Items").Where("request_id IN (?)", payload.RequestIDs).Find(&requests)
	if len(requests) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No matching requests"})
		return
	}

	itemLists := make([][]models.RequestItem, 0, len(requests))
	for _, request := range requests {
		itemLists = append(itemLists, request.Items)
	}
	aggregated, warnings := reconcile.AggregateItems(itemLists)

	catalog := s.loadCatalog()
	drafts := make(map[string]*models.Quote)
	for _, item := range aggregated {
		for _, supplier := range catalog.FindSuppliersForProduct(item.Name) {
			draft, ok := drafts[supplier.SupplierID]
			if !ok {
				draft = &models.Quote{
					QuoteID:    "quo-" + uuid.New().String(),
					SupplierID: supplier.SupplierID,
					Status:     string(models.QuoteStatusDraft),
					IssuedAt:   time.Now(),
				}
				drafts[supplier.SupplierID] = draft
			}

			price := 0.0
			if p := catalog.DefaultPrice(supplier.SupplierID, item.Name); p != nil {
				price = *p
			}
			draft.Items = append(draft.Items, models.QuoteItem{
				ItemName: item.Name,
				Quantity: item.Quantity.Float64(),
				Unit:     item.Unit,
				Price:    price,
			})
		}
	}

	created := make([]models.Quote, 0, len(drafts))
	for _, draft := range drafts {
		if err := s.db.Create(draft).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		created = append(created, *draft)
	}

	for i := range requests {
		requests[i].Status = string(models.RequestStatusQuoting)
		s.db.Save(&requests[i])
	}

	c.JSON(http.StatusCreated, gin.H{
		"quotes":   created,
		"warnings": warnings,
	})
}

// ConfirmQuoteItem marks one quote line as confirmed, adding it to the
// selected set the reconciliation engine works on.
func (s *Server) ConfirmQuoteItem(c *gin.Context) {
	var quote models.Quote
	if err := s.db.Preload("Items").Where("quote_id = ?", c.Param("id")).First(&quote).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}
	for i := range quote.Items {
		if uint64(quote.Items[i].ID) != itemID {
			continue
		}
		quote.Items[i].Confirmed = true
		if err := s.db.Save(&quote.Items[i]).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		s.generation.Next()
		s.hub.Broadcast(notify.EventSelectionChange, gin.H{"quoteId": quote.QuoteID})
		c.JSON(http.StatusOK, quote.Items[i])
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Quote item not found"})
}
