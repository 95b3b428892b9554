package handler

import (
	"github.com/gin-gonic/gin"
	uomapp "github.com/stockflow/backend/internal/application/uom"
)

// UOMHandler handles unit-of-measure and conversion API endpoints
type UOMHandler struct {
	BaseHandler
	conversionService *uomapp.ConversionService
}

// NewUOMHandler creates a new UOMHandler
func NewUOMHandler(conversionService *uomapp.ConversionService) *UOMHandler {
	return &UOMHandler{conversionService: conversionService}
}

// RegisterRoutes registers the unit and conversion routes
func (h *UOMHandler) RegisterRoutes(rg *gin.RouterGroup) {
	units := rg.Group("/uom/units")
	{
		units.POST("", h.CreateUnit)
		units.GET("", h.ListUnits)
		units.GET("/:code", h.GetUnit)
		units.PUT("/:id", h.RenameUnit)
		units.DELETE("/:id", h.DeleteUnit)
	}

	edges := rg.Group("/uom/edges")
	{
		edges.POST("", h.CreateEdge)
		edges.GET("", h.ListEdges)
		edges.PUT("/:id", h.UpdateEdge)
		edges.DELETE("/:id", h.DeleteEdge)
	}

	rg.POST("/uom/convert", h.Convert)
}

// CreateUnit creates a unit of measure
func (h *UOMHandler) CreateUnit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req uomapp.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	unit, err := h.conversionService.CreateUnit(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, unit)
}

// ListUnits lists units for the tenant
func (h *UOMHandler) ListUnits(c *gin.Context) {
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

	page, err := h.conversionService.ListUnits(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetUnit returns a unit by code
func (h *UOMHandler) GetUnit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.conversionService.GetUnit(c.Request.Context(), tenantID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// RenameUnit renames a unit
func (h *UOMHandler) RenameUnit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	unitID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid unit ID")
		return
	}

	var req uomapp.RenameUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	unit, err := h.conversionService.RenameUnit(c.Request.Context(), tenantID, unitID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// DeleteUnit deletes a unit
func (h *UOMHandler) DeleteUnit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	unitID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid unit ID")
		return
	}

	if err := h.conversionService.DeleteUnit(c.Request.Context(), tenantID, unitID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateEdge creates a conversion edge
func (h *UOMHandler) CreateEdge(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req uomapp.CreateEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	edge, err := h.conversionService.CreateEdge(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, edge)
}

// ListEdges lists the edges effective for the tenant
func (h *UOMHandler) ListEdges(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	edges, err := h.conversionService.ListEdges(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, edges)
}

// UpdateEdge replaces an edge factor
func (h *UOMHandler) UpdateEdge(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	edgeID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid edge ID")
		return
	}

	var req uomapp.UpdateEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	edge, err := h.conversionService.UpdateEdge(c.Request.Context(), tenantID, edgeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, edge)
}

// DeleteEdge deletes an edge
func (h *UOMHandler) DeleteEdge(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	edgeID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid edge ID")
		return
	}

	if err := h.conversionService.DeleteEdge(c.Request.Context(), tenantID, edgeID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Convert converts a quantity between units
func (h *UOMHandler) Convert(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req uomapp.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.conversionService.Convert(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
