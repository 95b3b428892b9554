package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stockapp "github.com/stockflow/backend/internal/application/stock"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	ledgerService *stockapp.LedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledgerService *stockapp.LedgerService) *StockHandler {
	return &StockHandler{ledgerService: ledgerService}
}

// RegisterRoutes registers the stock ledger routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.POST("/deltas", h.ApplyDelta)
		stock.GET("/on-hand", h.GetOnHand)
		stock.GET("/warehouses/:id", h.ListByWarehouse)
		stock.GET("/warehouses/:id/value", h.WarehouseValue)
		stock.GET("/items/:id", h.ListByItem)
		stock.GET("/items/:id/total", h.TotalByItem)
		stock.GET("/movements", h.ListMovements)
		stock.GET("/movements/:refType/:refId", h.MovementsByRef)
	}
}

// ApplyDelta applies a direct ledger adjustment
func (h *StockHandler) ApplyDelta(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req stockapp.ApplyDeltaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	movement, err := h.ledgerService.ApplyDelta(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// GetOnHand returns the on-hand state of one location-item key
func (h *StockHandler) GetOnHand(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "invalid warehouse_id")
		return
	}
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		h.BadRequest(c, "invalid item_id")
		return
	}
	var binID *uuid.UUID
	if binStr := c.Query("bin_id"); binStr != "" {
		parsed, err := uuid.Parse(binStr)
		if err != nil {
			h.BadRequest(c, "invalid bin_id")
			return
		}
		binID = &parsed
	}

	onHand, err := h.ledgerService.GetOnHand(c.Request.Context(), tenantID, warehouseID, binID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, onHand)
}

// ListByWarehouse lists stock levels in a warehouse
func (h *StockHandler) ListByWarehouse(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	warehouseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid warehouse ID")
		return
	}
	filter, err := parseFilter(c)
	if err != nil {
		h.ValidationError(c, err)
		return
	}

	levels, err := h.ledgerService.ListByWarehouse(c.Request.Context(), tenantID, warehouseID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, levels)
}

// WarehouseValue returns total inventory value in a warehouse
func (h *StockHandler) WarehouseValue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	warehouseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid warehouse ID")
		return
	}

	value, err := h.ledgerService.WarehouseValue(c.Request.Context(), tenantID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"warehouse_id": warehouseID, "total_value": value})
}

// ListByItem lists stock levels for an item across locations
func (h *StockHandler) ListByItem(c *gin.Context) {
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
	filter, err := parseFilter(c)
	if err != nil {
		h.ValidationError(c, err)
		return
	}

	levels, err := h.ledgerService.ListByItem(c.Request.Context(), tenantID, itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, levels)
}

// TotalByItem returns total on-hand quantity for an item
func (h *StockHandler) TotalByItem(c *gin.Context) {
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

	total, err := h.ledgerService.TotalQuantityByItem(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"item_id": itemID, "total_quantity": total})
}

// ListMovements lists movements for the tenant
func (h *StockHandler) ListMovements(c *gin.Context) {
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
	if movementType := c.Query("type"); movementType != "" {
		filter.Filters["type"] = movementType
	}
	if itemID := c.Query("item_id"); itemID != "" {
		filter.Filters["item_id"] = itemID
	}
	if warehouseID := c.Query("warehouse_id"); warehouseID != "" {
		filter.Filters["warehouse_id"] = warehouseID
	}

	page, err := h.ledgerService.ListMovements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// MovementsByRef lists all movements recorded for a source document
func (h *StockHandler) MovementsByRef(c *gin.Context) {
	if _, err := getTenantID(c); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	refID, err := parseIDParam(c, "refId")
	if err != nil {
		h.BadRequest(c, "invalid ref ID")
		return
	}

	movements, err := h.ledgerService.MovementsByRef(c.Request.Context(), c.Param("refType"), refID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}
