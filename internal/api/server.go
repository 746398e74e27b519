// Package api exposes the procurement workflow over HTTP: chef request
// CRUD, the supplier catalog, supplier quotes, and the reconciliation
// endpoints backed by internal/reconcile.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"provision/internal/config"
	"provision/internal/monitoring"
	"provision/internal/notify"
	"provision/internal/reconcile"
)

// Server wires the HTTP surface to the reconciliation engine and its
// collaborators. Override and skip state is per-process: one purchasing
// session per deployment, matching the single-writer model of the engine.
type Server struct {
	router     *gin.Engine
	cfg        *config.Config
	db         *gorm.DB
	overrides  *reconcile.OverrideLayer
	skips      *reconcile.SkipSet
	generation reconcile.Generation
	monitor    *monitoring.Monitor
	metrics    *monitoring.MetricsCollector
	hub        *notify.Hub
}

// NewServer creates the API server and registers all routes.
func NewServer(cfg *config.Config, db *gorm.DB) *Server {
	s := &Server{
		router:    gin.Default(),
		cfg:       cfg,
		db:        db,
		overrides: reconcile.NewOverrideLayer(nil),
		skips:     reconcile.NewSkipSet(),
		monitor:   monitoring.NewMonitor(),
		metrics:   monitoring.NewMetricsCollector(),
		hub:       notify.NewHub(),
	}

	s.setupRoutes()
	return s
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Metrics returns the prometheus collector for the metrics server.
func (s *Server) Metrics() *monitoring.MetricsCollector {
	return s.metrics
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Provision API is running"})
	})

	s.router.GET("/ws", s.hub.HandleWebSocket)

	v1 := s.router.Group("/api/v1")
	v1.Use(AuthMiddleware(s.cfg.Auth.JWTSecret))
	{
		// Chef requests
		requests := v1.Group("/requests")
		{
			requests.GET("", s.ListRequests)
			requests.GET("/:id", s.GetRequest)
			requests.POST("", RequireRole(RoleChef, RolePurchasing), s.CreateRequest)
			requests.PUT("/:id/status", RequireRole(RolePurchasing), s.UpdateRequestStatus)
			requests.DELETE("/:id", RequireRole(RolePurchasing), s.DeleteRequest)
		}

		// Supplier catalog
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", s.ListSuppliers)
			suppliers.GET("/:id", s.GetSupplier)
			suppliers.POST("", RequireRole(RolePurchasing), s.CreateSupplier)
			suppliers.PUT("/:id", RequireRole(RolePurchasing), s.UpdateSupplier)
			suppliers.DELETE("/:id", RequireRole(RolePurchasing), s.DeleteSupplier)
			suppliers.GET("/match", s.MatchSuppliers)
		}

		// Supplier quotes
		quotes := v1.Group("/quotes")
		{
			quotes.GET("", s.ListQuotes)
			quotes.GET("/:id", s.GetQuote)
			quotes.POST("", RequireRole(RolePurchasing), s.CreateQuote)
			quotes.POST("/batch", RequireRole(RolePurchasing), s.GenerateQuoteBatch)
			quotes.PUT("/:id/items/:itemId/confirm", RequireRole(RolePurchasing), s.ConfirmQuoteItem)
		}

		// Reconciliation
		procurement := v1.Group("/procurement", RequireRole(RolePurchasing))
		{
			procurement.GET("/selected-items", s.GetSelectedItems)
			procurement.GET("/missing-items", s.GetMissingItems)
			procurement.GET("/supplier-groups", s.GetSupplierGroups)
			procurement.POST("/validate", s.ValidateSelection)
			procurement.POST("/items", s.AddManualItem)
			procurement.PUT("/items/:id/quantity", s.UpdateItemQuantity)
			procurement.POST("/missing-items/confirm", s.ConfirmMissingItem)
			procurement.POST("/missing-items/skip", s.SkipSupplier)
			procurement.POST("/orders", s.SubmitOrder)
			procurement.GET("/orders", s.ListOrders)
		}

		v1.GET("/stats", s.GetStats)
	}
}

// GetStats returns the in-process monitor snapshot.
func (s *Server) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetMetrics())
}
