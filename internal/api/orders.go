package api

import (
	"warehouse-service/internal/service"

	"github.com/gin-gonic/gin"
)

// IdempotencyHeader lets clients retry order creation safely
const IdempotencyHeader = "Idempotency-Key"

func (h *Handler) orderRoutes(r *gin.RouterGroup) {
	r.GET("", h.listOrders)
	r.GET("/:id", h.getOrder)
	r.POST("", h.createOrder)
	r.PUT("/:id", h.updateOrder)
	r.DELETE("/:id", h.deleteOrder)
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.services.Orders.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, valid := int64Param(c, "id")
	if !valid {
		return
	}

	order, err := h.services.Orders.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, order)
}

// createOrder answers 201 for a new order and 200 when the Idempotency-Key
// matched an earlier request
func (h *Handler) createOrder(c *gin.Context) {
	var req service.OrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, replayed, err := h.services.Orders.Create(c.Request.Context(), &req, c.GetHeader(IdempotencyHeader))
	if err != nil {
		fail(c, err)
		return
	}
	if replayed {
		ok(c, order)
		return
	}
	created(c, order)
}

func (h *Handler) updateOrder(c *gin.Context) {
	id, valid := int64Param(c, "id")
	if !valid {
		return
	}
	var req service.OrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.services.Orders.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, order)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	id, valid := int64Param(c, "id")
	if !valid {
		return
	}

	if err := h.services.Orders.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	message(c, "order deleted")
}

// dashboardStats never fails; unavailable counts are reported as 0
func (h *Handler) dashboardStats(c *gin.Context) {
	ok(c, h.services.Reporting.DashboardStats(c.Request.Context()))
}
