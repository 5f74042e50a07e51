package api

import (
	"strings"

	"warehouse-service/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) warehouseRoutes(r *gin.RouterGroup) {
	r.GET("", h.listWarehouses)
	r.POST("", h.createWarehouse)
	r.PUT("/:id", h.updateWarehouse)
	r.DELETE("/:id", h.deleteWarehouse)
	r.GET("/search/:term", h.searchWarehouses)
}

func (h *Handler) listWarehouses(c *gin.Context) {
	warehouses, err := h.services.Warehouses.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, warehouses)
}

func (h *Handler) createWarehouse(c *gin.Context) {
	var req service.WarehouseRequest
	if !bindJSON(c, &req) {
		return
	}

	w, err := h.services.Warehouses.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, w)
}

func (h *Handler) updateWarehouse(c *gin.Context) {
	id, valid := int64Param(c, "id")
	if !valid {
		return
	}
	var req service.WarehouseRequest
	if !bindJSON(c, &req) {
		return
	}

	w, err := h.services.Warehouses.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, w)
}

func (h *Handler) deleteWarehouse(c *gin.Context) {
	id, valid := int64Param(c, "id")
	if !valid {
		return
	}
	if err := h.services.Warehouses.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	message(c, "warehouse deleted")
}

func (h *Handler) searchWarehouses(c *gin.Context) {
	warehouses, err := h.services.Warehouses.Search(c.Request.Context(), c.Param("term"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, warehouses)
}

func (h *Handler) supplierRoutes(r *gin.RouterGroup) {
	r.GET("", h.listSuppliers)
	r.GET("/:id", h.getSupplier)
	r.POST("", h.createSupplier)
	r.PUT("/:id", h.updateSupplier)
	r.DELETE("/:id", h.deleteSupplier)
	r.GET("/search/:term", h.searchSuppliers)
}

// listSuppliers answers ?active=true with active suppliers only
func (h *Handler) listSuppliers(c *gin.Context) {
	activeOnly := strings.EqualFold(c.Query("active"), "true")

	suppliers, err := h.services.Suppliers.List(c.Request.Context(), activeOnly)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, suppliers)
}

func (h *Handler) getSupplier(c *gin.Context) {
	supplier, err := h.services.Suppliers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, supplier)
}

func (h *Handler) createSupplier(c *gin.Context) {
	var req service.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}

	supplier, err := h.services.Suppliers.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, supplier)
}

func (h *Handler) updateSupplier(c *gin.Context) {
	var req service.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}

	supplier, err := h.services.Suppliers.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, supplier)
}

func (h *Handler) deleteSupplier(c *gin.Context) {
	if err := h.services.Suppliers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	message(c, "supplier deleted")
}

func (h *Handler) searchSuppliers(c *gin.Context) {
	suppliers, err := h.services.Suppliers.Search(c.Request.Context(), c.Param("term"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, suppliers)
}
