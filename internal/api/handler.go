package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"warehouse-service/internal/service"
	"warehouse-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger reports whether a backing dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services holds the components this process mounts. A nil service leaves
// its routes unregistered.
type Services struct {
	Warehouses *service.WarehouseService
	Suppliers  *service.SupplierService
	Products   *service.ProductService
	Inventory  *service.InventoryService
	Orders     *service.OrderService
	Reporting  *service.ReportingService
}

// Handler contains HTTP handlers
type Handler struct {
	services Services
	db       Pinger
}

// NewHandler creates a new HTTP handler. db is checked by /ready.
func NewHandler(services Services, db Pinger) *Handler {
	return &Handler{
		services: services,
		db:       db,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	group := router.Group("/api")
	if h.services.Warehouses != nil {
		h.warehouseRoutes(group.Group("/warehouses"))
	}
	if h.services.Suppliers != nil {
		h.supplierRoutes(group.Group("/suppliers"))
	}
	if h.services.Products != nil {
		h.productRoutes(group.Group("/products"))
	}
	if h.services.Inventory != nil {
		h.inventoryRoutes(group.Group("/inventory"))
	}
	if h.services.Orders != nil {
		h.orderRoutes(group.Group("/orders"))
	}
	if h.services.Reporting != nil {
		group.GET("/dashboard-stats", h.dashboardStats)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "route not found"})
	})
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck answers 503 while the database is unreachable
func (h *Handler) readinessCheck(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  "database unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// bindJSON decodes the request body, answering 400 on malformed input
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// int64Param parses a numeric path parameter, answering 400 when it is not one
func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// requestLogger writes one structured line per request
func requestLogger() gin.HandlerFunc {
	logger := util.GetLogger()
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
		util.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
