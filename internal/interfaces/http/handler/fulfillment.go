package handler

import (
	"github.com/gin-gonic/gin"
	fulfillmentapp "github.com/stockflow/backend/internal/application/fulfillment"
)

// FulfillmentHandler handles receive and ship API endpoints
type FulfillmentHandler struct {
	BaseHandler
	engine *fulfillmentapp.Engine
}

// NewFulfillmentHandler creates a new FulfillmentHandler
func NewFulfillmentHandler(engine *fulfillmentapp.Engine) *FulfillmentHandler {
	return &FulfillmentHandler{engine: engine}
}

// RegisterRoutes registers the fulfillment routes
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	fulfillment := rg.Group("/fulfillment")
	{
		fulfillment.POST("/receive", h.ReceiveLine)
		fulfillment.POST("/receive-all", h.ReceiveAll)
		fulfillment.POST("/ship", h.ShipLine)
		fulfillment.POST("/ship-all", h.ShipAll)
		fulfillment.POST("/purchase-orders/:id/close", h.ClosePurchaseOrder)
		fulfillment.POST("/sales-orders/:id/close", h.CloseSalesOrder)
	}
}

// ReceiveLine receives a quantity against one purchase order line
func (h *FulfillmentHandler) ReceiveLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req fulfillmentapp.FulfillLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.engine.ReceiveLine(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ReceiveAll receives every outstanding line of a purchase order.
// Per-line failures are reported in the batch result, not as an error.
func (h *FulfillmentHandler) ReceiveAll(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req fulfillmentapp.FulfillAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.engine.ReceiveAll(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ShipLine ships a quantity against one sales order line
func (h *FulfillmentHandler) ShipLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req fulfillmentapp.FulfillLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.engine.ShipLine(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ShipAll ships every outstanding line of a sales order
func (h *FulfillmentHandler) ShipAll(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req fulfillmentapp.FulfillAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.engine.ShipAll(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ClosePurchaseOrder closes a fully received purchase order
func (h *FulfillmentHandler) ClosePurchaseOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	if err := h.engine.ClosePurchaseOrder(c.Request.Context(), tenantID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CloseSalesOrder closes a fully shipped sales order
func (h *FulfillmentHandler) CloseSalesOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	if err := h.engine.CloseSalesOrder(c.Request.Context(), tenantID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
