package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"provision/internal/models"
	"provision/internal/notify"
)

// ListRequests retrieves all chef requests with their items. An optional
// status query parameter filters by lifecycle state.
func (s *Server) ListRequests(c *gin.Context) {
	var requests []models.ChefRequest
	query := s.db.Preload("Items")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Find(&requests)
	c.JSON(http.StatusOK, requests)
}

// GetRequest retrieves a single chef request by its public id.
func (s *Server) GetRequest(c *gin.Context) {
	var request models.ChefRequest
	if err := s.db.Preload("Items").Where("request_id = ?", c.Param("id")).First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	c.JSON(http.StatusOK, request)
}

// CreateRequest accepts a new chef request. Missing request and item ids
// are minted so every item has a stable identity from creation on.
func (s *Server) CreateRequest(c *gin.Context) {
	var request models.ChefRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.RequestID == "" {
		request.RequestID = "req-" + uuid.New().String()
	}
	request.Status = string(models.RequestStatusPending)
	for i := range request.Items {
		if request.Items[i].ItemID == "" {
			request.Items[i].ItemID = "itm-" + uuid.New().String()
		}
	}

	if err := s.db.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.RecordRequestCreated()
	s.monitor.IncrementMetric("requests_created", 1)
	s.hub.Broadcast(notify.EventRequestCreated, gin.H{"requestId": request.RequestID})

	c.JSON(http.StatusCreated, request)
}

// UpdateRequestStatus moves a request through its lifecycle
// (pending, approved, rejected, quotes_solicited, ordered, delivered).
func (s *Server) UpdateRequestStatus(c *gin.Context) {
	var request models.ChefRequest
	if err := s.db.Where("request_id = ?", c.Param("id")).First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	var update struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validRequestStatus(update.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status: " + update.Status})
		return
	}

	request.Status = update.Status
	if err := s.db.Save(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.hub.Broadcast(notify.EventRequestUpdated, gin.H{"requestId": request.RequestID, "status": request.Status})
	c.JSON(http.StatusOK, request)
}

// DeleteRequest soft-deletes a chef request.
func (s *Server) DeleteRequest(c *gin.Context) {
	var request models.ChefRequest
	if err := s.db.Where("request_id = ?", c.Param("id")).First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	if err := s.db.Delete(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
}

func validRequestStatus(status string) bool {
	switch models.RequestStatus(status) {
	case models.RequestStatusPending, models.RequestStatusApproved, models.RequestStatusRejected,
		models.RequestStatusQuoting, models.RequestStatusOrdered, models.RequestStatusDelivered:
		return true
	}
	return false
}
