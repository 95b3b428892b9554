package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/stockflow/backend/internal/application/order"
)

// OrderHandler handles purchase and sales order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers the order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	po := rg.Group("/purchase-orders")
	{
		po.POST("", h.CreatePurchaseOrder)
		po.GET("", h.ListPurchaseOrders)
		po.GET("/:id", h.GetPurchaseOrder)
		po.POST("/:id/lines", h.AddPurchaseOrderLine)
		po.PUT("/:id/lines/:lineId", h.UpdatePurchaseOrderLine)
		po.DELETE("/:id/lines/:lineId", h.RemovePurchaseOrderLine)
		po.POST("/:id/approve", h.ApprovePurchaseOrder)
		po.POST("/:id/cancel", h.CancelPurchaseOrder)
	}

	so := rg.Group("/sales-orders")
	{
		so.POST("", h.CreateSalesOrder)
		so.GET("", h.ListSalesOrders)
		so.GET("/:id", h.GetSalesOrder)
		so.POST("/:id/lines", h.AddSalesOrderLine)
		so.PUT("/:id/lines/:lineId", h.UpdateSalesOrderLine)
		so.DELETE("/:id/lines/:lineId", h.RemoveSalesOrderLine)
		so.POST("/:id/approve", h.ApproveSalesOrder)
		so.POST("/:id/cancel", h.CancelSalesOrder)
	}
}

// CreatePurchaseOrder creates a draft purchase order
func (h *OrderHandler) CreatePurchaseOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req orderapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	po, err := h.orderService.CreatePurchaseOrder(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, po)
}

// ListPurchaseOrders lists purchase orders for the tenant
func (h *OrderHandler) ListPurchaseOrders(c *gin.Context) {
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
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	page, err := h.orderService.ListPurchaseOrders(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetPurchaseOrder returns a purchase order with its lines
func (h *OrderHandler) GetPurchaseOrder(c *gin.Context) {
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

	po, err := h.orderService.GetPurchaseOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// AddPurchaseOrderLine adds a line to a draft purchase order
func (h *OrderHandler) AddPurchaseOrderLine(c *gin.Context) {
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

	var req orderapp.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	po, err := h.orderService.AddPurchaseOrderLine(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// UpdatePurchaseOrderLine updates a line on a draft purchase order
func (h *OrderHandler) UpdatePurchaseOrderLine(c *gin.Context) {
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
	lineID, err := parseIDParam(c, "lineId")
	if err != nil {
		h.BadRequest(c, "invalid line ID")
		return
	}

	var req orderapp.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	po, err := h.orderService.UpdatePurchaseOrderLine(c.Request.Context(), tenantID, orderID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// RemovePurchaseOrderLine removes a line from a draft purchase order
func (h *OrderHandler) RemovePurchaseOrderLine(c *gin.Context) {
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
	lineID, err := parseIDParam(c, "lineId")
	if err != nil {
		h.BadRequest(c, "invalid line ID")
		return
	}

	po, err := h.orderService.RemovePurchaseOrderLine(c.Request.Context(), tenantID, orderID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// ApprovePurchaseOrder approves a draft purchase order
func (h *OrderHandler) ApprovePurchaseOrder(c *gin.Context) {
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

	po, err := h.orderService.ApprovePurchaseOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// CancelPurchaseOrder cancels a draft purchase order
func (h *OrderHandler) CancelPurchaseOrder(c *gin.Context) {
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

	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	po, err := h.orderService.CancelPurchaseOrder(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// CreateSalesOrder creates a draft sales order
func (h *OrderHandler) CreateSalesOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req orderapp.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	so, err := h.orderService.CreateSalesOrder(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, so)
}

// ListSalesOrders lists sales orders for the tenant
func (h *OrderHandler) ListSalesOrders(c *gin.Context) {
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
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	page, err := h.orderService.ListSalesOrders(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetSalesOrder returns a sales order with its lines
func (h *OrderHandler) GetSalesOrder(c *gin.Context) {
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

	so, err := h.orderService.GetSalesOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, so)
}

// AddSalesOrderLine adds a line to a draft sales order
func (h *OrderHandler) AddSalesOrderLine(c *gin.Context) {
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

	var req orderapp.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	so, err := h.orderService.AddSalesOrderLine(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, so)
}

// UpdateSalesOrderLine updates a line on a draft sales order
func (h *OrderHandler) UpdateSalesOrderLine(c *gin.Context) {
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
	lineID, err := parseIDParam(c, "lineId")
	if err != nil {
		h.BadRequest(c, "invalid line ID")
		return
	}

	var req orderapp.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	so, err := h.orderService.UpdateSalesOrderLine(c.Request.Context(), tenantID, orderID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, so)
}

// RemoveSalesOrderLine removes a line from a draft sales order
func (h *OrderHandler) RemoveSalesOrderLine(c *gin.Context) {
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
	lineID, err := parseIDParam(c, "lineId")
	if err != nil {
		h.BadRequest(c, "invalid line ID")
		return
	}

	so, err := h.orderService.RemoveSalesOrderLine(c.Request.Context(), tenantID, orderID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, so)
}

// ApproveSalesOrder approves a draft sales order
func (h *OrderHandler) ApproveSalesOrder(c *gin.Context) {
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

	so, err := h.orderService.ApproveSalesOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, so)
}

// CancelSalesOrder cancels a draft sales order
func (h *OrderHandler) CancelSalesOrder(c *gin.Context) {
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

	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	so, err := h.orderService.CancelSalesOrder(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, so)
}
