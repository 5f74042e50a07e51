package api

import (
	"warehouse-service/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) productRoutes(r *gin.RouterGroup) {
	r.GET("", h.listProducts)
	r.GET("/:id", h.getProduct)
	r.POST("", h.createProduct)
	r.PUT("/:id", h.updateProduct)
	r.DELETE("/:id", h.deleteProduct)
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.services.Products.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.services.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, product)
}

func (h *Handler) createProduct(c *gin.Context) {
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.services.Products.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.services.Products.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.services.Products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	message(c, "product deleted")
}

func (h *Handler) inventoryRoutes(r *gin.RouterGroup) {
	r.GET("", h.listLots)
	r.GET("/:id", h.getLot)
	r.POST("", h.createLot)
	r.PUT("/:id", h.updateLot)
	r.DELETE("/:id", h.deleteLot)
	r.GET("/search/:term", h.searchLots)
}

func (h *Handler) listLots(c *gin.Context) {
	lots, err := h.services.Inventory.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, lots)
}

func (h *Handler) getLot(c *gin.Context) {
	id, valid := int64Param(c, "id")
	if !valid {
		return
	}

	lot, err := h.services.Inventory.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, lot)
}

func (h *Handler) createLot(c *gin.Context) {
	var req service.LotRequest
	if !bindJSON(c, &req) {
		return
	}

	lot, err := h.services.Inventory.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, lot)
}

func (h *Handler) updateLot(c *gin.Context) {
	id, valid := int64Param(c, "id")
	if !valid {
		return
	}
	var req service.LotRequest
	if !bindJSON(c, &req) {
		return
	}

	lot, err := h.services.Inventory.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, lot)
}

func (h *Handler) deleteLot(c *gin.Context) {
	id, valid := int64Param(c, "id")
	if !valid {
		return
	}

	if err := h.services.Inventory.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	message(c, "inventory lot deleted")
}

func (h *Handler) searchLots(c *gin.Context) {
	lots, err := h.services.Inventory.Search(c.Request.Context(), c.Param("term"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, lots)
}
