package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"provision/internal/models"
	"provision/internal/notify"
	"provision/internal/reconcile"
)

// fetchSelectedItems builds the server-side selected set from confirmed
// quote lines, joined with supplier names and request titles.
func (s *Server) fetchSelectedItems() []reconcile.SelectedQuoteItem {
	var quotes []models.Quote
	s.db.Preload("Items").Find(&quotes)

	supplierNames := make(map[string]string)
	var suppliers []models.Supplier
	s.db.Find(&suppliers)
	for _, supplier := range suppliers {
		supplierNames[supplier.SupplierID] = supplier.Name
	}

	requestTitles := make(map[string]string)
	var requests []models.ChefRequest
	s.db.Find(&requests)
	for _, request := range requests {
		requestTitles[request.RequestID] = request.Title
	}

	var selected []reconcile.SelectedQuoteItem
	for _, quote := range quotes {
		for _, item := range quote.Items {
			if !item.Confirmed {
				continue
			}
			selected = append(selected, reconcile.SelectedQuoteItem{
				ID:           "qli-" + quote.QuoteID + "-" + itoa(item.ID),
				ItemName:     item.ItemName,
				Quantity:     item.Quantity,
				Unit:         item.Unit,
				SupplierID:   quote.SupplierID,
				SupplierName: supplierNames[quote.SupplierID],
				Price:        item.Price,
				TotalPrice:   reconcile.Round2(item.Price * item.Quantity),
				RequestID:    item.RequestID,
				RequestTitle: requestTitles[item.RequestID],
				QuotedAt:     quote.IssuedAt,
				IsOptional:   item.IsOptional,
				Source:       reconcile.SourceServer,
			})
		}
	}
	return selected
}

// mergedSelection returns server-confirmed items merged with the local
// override collection.
func (s *Server) mergedSelection() []reconcile.SelectedQuoteItem {
	return s.overrides.MergedItems(s.fetchSelectedItems())
}

// reconciliationSnapshot is one full derived view of the purchasing
// state: the merged selection plus the missing-item report, supplier
// groups and validation result computed from it.
type reconciliationSnapshot struct {
	items   []reconcile.SelectedQuoteItem
	missing []reconcile.MissingItem
	groups  []reconcile.SupplierGroup
	result  reconcile.ValidationResult
}

// reconcileSnapshot recomputes the derived view and records it with the
// monitor and the prometheus collector.
func (s *Server) reconcileSnapshot() reconciliationSnapshot {
	gen := s.generation.Current()
	catalog := s.loadCatalog()
	items := s.mergedSelection()

	var requests []models.ChefRequest
	s.db.Preload("Items").Where("status IN (?)", []string{
		string(models.RequestStatusApproved),
		string(models.RequestStatusQuoting),
	}).Find(&requests)

	snap := reconciliationSnapshot{
		items:   items,
		missing: reconcile.FindMissingItems(items, requests, catalog, s.skips),
		groups:  reconcile.GroupItemsBySupplier(items, s.cfg.GroupingConfig()),
		result:  reconcile.NewValidator(catalog, s.cfg.ValidationConfig()).ValidateSupplierData(items),
	}

	// A selection change mid-computation means this snapshot is stale;
	// serve it but leave the gauges to the current generation's reader.
	if s.generation.IsCurrent(gen) {
		s.monitor.RecordReconciliation(len(snap.missing), len(snap.groups), len(snap.result.Issues))
		s.metrics.RecordMissingItems(len(snap.missing))
		counts := make(map[string]int)
		for _, issue := range snap.result.Issues {
			counts[string(issue.Kind)]++
		}
		s.metrics.RecordValidationIssues(counts)
	}

	return snap
}

// GetSelectedItems returns the merged selected-item set.
func (s *Server) GetSelectedItems(c *gin.Context) {
	items := s.mergedSelection()
	if items == nil {
		items = []reconcile.SelectedQuoteItem{}
	}
	c.JSON(http.StatusOK, items)
}

// GetMissingItems recomputes the missing-item report from the current
// requests, selection and catalog snapshot.
func (s *Server) GetMissingItems(c *gin.Context) {
	missing := s.reconcileSnapshot().missing
	if missing == nil {
		missing = []reconcile.MissingItem{}
	}
	c.JSON(http.StatusOK, missing)
}

// GetSupplierGroups returns the per-supplier order summaries for the
// merged selection, sorted by total value.
func (s *Server) GetSupplierGroups(c *gin.Context) {
	groups := s.reconcileSnapshot().groups
	if groups == nil {
		groups = []reconcile.SupplierGroup{}
	}
	c.JSON(http.StatusOK, groups)
}

// ValidateSelection runs the business-rule battery over the merged
// selection and returns the structured issue list.
func (s *Server) ValidateSelection(c *gin.Context) {
	c.JSON(http.StatusOK, s.reconcileSnapshot().result)
}

// AddManualItem stores an ad-hoc line item in the local override
// collection.
func (s *Server) AddManualItem(c *gin.Context) {
	var item reconcile.SelectedQuoteItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := s.overrides.AddManualItem(item)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.generation.Next()
	s.hub.Broadcast(notify.EventSelectionChange, gin.H{"itemId": stored.ID})
	c.JSON(http.StatusCreated, stored)
}

// UpdateItemQuantity overrides the quantity of a selected item. Server
// items get a local override; local items are edited in place.
func (s *Server) UpdateItemQuantity(c *gin.Context) {
	var payload struct {
		Quantity float64 `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	var target *reconcile.SelectedQuoteItem
	for _, item := range s.mergedSelection() {
		if item.ID == id {
			found := item
			target = &found
			break
		}
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Selected item not found"})
		return
	}

	updated, err := s.overrides.UpdateQuantity(*target, payload.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.generation.Next()
	s.hub.Broadcast(notify.EventSelectionChange, gin.H{"itemId": updated.ID})
	c.JSON(http.StatusOK, updated)
}

// ConfirmMissingItem selects a supplier's quote for a missing item,
// adding the resulting line to the local collection.
func (s *Server) ConfirmMissingItem(c *gin.Context) {
	var payload struct {
		Item       reconcile.MissingItem `json:"item" binding:"required"`
		SupplierID string                `json:"supplierId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := reconcile.ConfirmMissingItem(payload.Item, payload.SupplierID)
	if err != nil {
		if errors.Is(err, reconcile.ErrSupplierInfoNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := s.overrides.AddManualItem(item)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.generation.Next()
	s.hub.Broadcast(notify.EventSelectionChange, gin.H{"itemId": stored.ID})
	c.JSON(http.StatusCreated, stored)
}

// SkipSupplier rejects a supplier's quote for a missing item so later
// missing-item reports stop suggesting it.
func (s *Server) SkipSupplier(c *gin.Context) {
	var payload struct {
		Name       string `json:"name" binding:"required"`
		RequestID  string `json:"requestId" binding:"required"`
		SupplierID string `json:"supplierId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.skips.Skip(payload.Name, payload.RequestID, payload.SupplierID)
	c.JSON(http.StatusOK, gin.H{"message": "Supplier skipped for item"})
}

// SubmitOrder validates and commits the merged selection as one purchase
// order per supplier group. Overrides survive a failed commit so the
// purchasing agent can retry without losing edits.
func (s *Server) SubmitOrder(c *gin.Context) {
	items := s.mergedSelection()
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No items selected"})
		return
	}

	committer := &gormCommitter{db: s.db, placedBy: roleOf(c)}
	validator := reconcile.NewValidator(s.loadCatalog(), s.cfg.ValidationConfig())
	submitter := reconcile.NewSubmitter(validator, s.overrides, s.skips, committer)

	result, err := submitter.PlaceOrder(c.Request.Context(), items)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "validation": result})
		return
	}

	for _, order := range committer.created {
		s.metrics.RecordOrderSubmitted(order.SupplierName, order.TotalValue)
	}
	s.monitor.IncrementMetric("orders_submitted", len(committer.created))
	s.generation.Next()
	s.hub.Broadcast(notify.EventOrderSubmitted, gin.H{"orders": len(committer.created)})

	c.JSON(http.StatusCreated, gin.H{
		"orders":     committer.created,
		"validation": result,
	})
}

// ListOrders retrieves committed purchase orders with their line items.
func (s *Server) ListOrders(c *gin.Context) {
	var orders []models.PurchaseOrder
	s.db.Preload("Items").Find(&orders)
	c.JSON(http.StatusOK, orders)
}

// gormCommitter persists one purchase order per supplier group and moves
// involved requests to the ordered state.
type gormCommitter struct {
	db       *gorm.DB
	placedBy string
	created  []models.PurchaseOrder
}

func (g *gormCommitter) CommitOrder(ctx context.Context, groups []reconcile.SupplierGroup) error {
	tx := g.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	requestIDs := make(map[string]bool)
	for _, group := range groups {
		order := models.PurchaseOrder{
			OrderID:      "ord-" + uuid.New().String(),
			SupplierID:   group.SupplierID,
			SupplierName: group.SupplierName,
			Status:       string(models.OrderStatusOrdered),
			TotalValue:   group.TotalValue,
			ItemCount:    group.ItemCount,
			PlacedAt:     time.Now(),
			PlacedBy:     g.placedBy,
		}
		for _, item := range group.Items {
			order.Items = append(order.Items, models.PurchaseOrderItem{
				ItemName:   item.ItemName,
				Quantity:   item.Quantity,
				Unit:       item.Unit,
				Price:      item.Price,
				TotalPrice: item.TotalPrice,
				RequestID:  item.RequestID,
				IsOptional: item.IsOptional,
			})
			if item.RequestID != "" {
				requestIDs[item.RequestID] = true
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			tx.Rollback()
			return err
		}
		g.created = append(g.created, order)
	}

	for requestID := range requestIDs {
		if err := tx.Model(&models.ChefRequest{}).
			Where("request_id = ?", requestID).
			Update("status", string(models.RequestStatusOrdered)).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		g.created = nil
		return err
	}
	return nil
}

func roleOf(c *gin.Context) string {
	role, _ := c.Get(roleContextKey)
	if s, ok := role.(string); ok {
		return s
	}
	return ""
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
