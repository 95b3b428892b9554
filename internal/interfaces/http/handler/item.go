package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/stockflow/backend/internal/application/catalog"
)

// ItemHandler handles catalog item API endpoints
type ItemHandler struct {
	BaseHandler
	itemService *catalogapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *catalogapp.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// RegisterRoutes registers the item routes
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/:id", h.GetItem)
		items.GET("/sku/:sku", h.GetItemBySKU)
		items.PUT("/:id", h.UpdateItem)
		items.POST("/:id/activate", h.ActivateItem)
		items.POST("/:id/deactivate", h.DeactivateItem)
	}
}

// CreateItem creates a catalog item
func (h *ItemHandler) CreateItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req catalogapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// ListItems lists items for the tenant
func (h *ItemHandler) ListItems(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.ValidationError(c, err)
		return
	}
	if active := c.Query("active"); active != "" {
		filter.Filters["active"] = active == "true"
	}

	page, err := h.itemService.ListItems(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetItem returns an item by ID
func (h *ItemHandler) GetItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// GetItemBySKU returns an item by SKU
func (h *ItemHandler) GetItemBySKU(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.itemService.GetItemBySKU(c.Request.Context(), tenantID, c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// UpdateItem updates item master data
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}

	var req catalogapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), tenantID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ActivateItem reactivates an item
func (h *ItemHandler) ActivateItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}

	if err := h.itemService.ActivateItem(c.Request.Context(), tenantID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DeactivateItem deactivates an item
func (h *ItemHandler) DeactivateItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}

	if err := h.itemService.DeactivateItem(c.Request.Context(), tenantID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
