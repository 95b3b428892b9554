package uom

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/shared/valueobject"
	"github.com/stockflow/backend/internal/domain/uom"
	"go.uber.org/zap"
)

// GraphCache caches built conversion graph snapshots per tenant.
// Implementations must be safe for concurrent use.
type GraphCache interface {
	// Get returns the cached snapshot for a tenant, if any
	Get(tenantID uuid.UUID) (*uom.ConversionGraph, bool)
	// Set stores a snapshot for a tenant
	Set(tenantID uuid.UUID, graph *uom.ConversionGraph)
	// Invalidate drops the snapshot for one tenant
	Invalidate(ctx context.Context, tenantID uuid.UUID)
	// InvalidateAll drops every snapshot. Used after global edge writes,
	// which affect all tenants at once.
	InvalidateAll(ctx context.Context)
}

// ConversionService manages unit master data and conversion edges and serves
// conversions from cached graph snapshots.
type ConversionService struct {
	unitRepo uom.UnitRepository
	edgeRepo uom.ConversionEdgeRepository
	cache    GraphCache
	logger   *zap.Logger
}

// NewConversionService creates a new ConversionService
func NewConversionService(unitRepo uom.UnitRepository, edgeRepo uom.ConversionEdgeRepository, cache GraphCache, logger *zap.Logger) *ConversionService {
	return &ConversionService{
		unitRepo: unitRepo,
		edgeRepo: edgeRepo,
		cache:    cache,
		logger:   logger,
	}
}

// CreateUnit creates a new unit of measure for a tenant
func (s *ConversionService) CreateUnit(ctx context.Context, tenantID uuid.UUID, req CreateUnitRequest) (*UnitResponse, error) {
	code := uom.NormalizeUnitCode(req.Code)

	exists, err := s.unitRepo.ExistsByCode(ctx, tenantID, code)
	if err != nil {
		return nil, fmt.Errorf("checking unit code: %w", err)
	}
	if exists {
		return nil, shared.NewDomainErrorf("DUPLICATE_CODE", "Unit code %s already exists", code)
	}

	unit, err := uom.NewUnitOfMeasure(tenantID, code, req.Name, uom.UnitFamily(req.Family))
	if err != nil {
		return nil, err
	}

	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, fmt.Errorf("saving unit: %w", err)
	}

	s.logger.Info("unit created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", unit.Code))

	return NewUnitResponse(unit), nil
}

// RenameUnit updates the display name of a unit
func (s *ConversionService) RenameUnit(ctx context.Context, tenantID, unitID uuid.UUID, req RenameUnitRequest) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}

	if err := unit.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, fmt.Errorf("saving unit: %w", err)
	}

	return NewUnitResponse(unit), nil
}

// GetUnit retrieves a unit by code
func (s *ConversionService) GetUnit(ctx context.Context, tenantID uuid.UUID, code string) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByCode(ctx, tenantID, uom.NormalizeUnitCode(code))
	if err != nil {
		return nil, err
	}
	return NewUnitResponse(unit), nil
}

// ListUnits lists the units of a tenant
func (s *ConversionService) ListUnits(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[UnitResponse], error) {
	units, err := s.unitRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.unitRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]UnitResponse, len(units))
	for i := range units {
		responses[i] = *NewUnitResponse(&units[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DeleteUnit removes a unit from the tenant's master data
func (s *ConversionService) DeleteUnit(ctx context.Context, tenantID, unitID uuid.UUID) error {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return err
	}
	if unit.TenantID != tenantID {
		return shared.ErrNotFound
	}
	return s.unitRepo.Delete(ctx, unitID)
}

// CreateEdge creates a conversion edge. A scoped edge shadows the global
// edge for the same pair; a global edge affects every tenant, so the whole
// snapshot cache is dropped.
func (s *ConversionService) CreateEdge(ctx context.Context, tenantID uuid.UUID, req CreateEdgeRequest) (*ConversionEdgeResponse, error) {
	var scopeID *uuid.UUID
	if req.Scoped {
		scopeID = &tenantID
	}

	edge, err := uom.NewConversionEdge(scopeID, req.FromCode, req.ToCode, req.Factor)
	if err != nil {
		return nil, err
	}

	existing, err := s.edgeRepo.FindByPair(ctx, scopeID, edge.FromCode, edge.ToCode)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("checking edge pair: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainErrorf("DUPLICATE_CODE", "Conversion edge %s already exists in this scope", edge.PairKey())
	}

	if err := s.edgeRepo.Save(ctx, edge); err != nil {
		return nil, fmt.Errorf("saving edge: %w", err)
	}

	s.invalidateAfterEdgeWrite(ctx, edge)
	s.logger.Info("conversion edge created",
		zap.String("pair", edge.PairKey()),
		zap.String("factor", edge.Factor.String()),
		zap.Bool("global", edge.IsGlobal()))

	return NewConversionEdgeResponse(edge), nil
}

// UpdateEdge replaces the factor of an existing edge
func (s *ConversionService) UpdateEdge(ctx context.Context, tenantID, edgeID uuid.UUID, req UpdateEdgeRequest) (*ConversionEdgeResponse, error) {
	edge, err := s.edgeRepo.FindByID(ctx, edgeID)
	if err != nil {
		return nil, err
	}
	if edge.ScopeID != nil && *edge.ScopeID != tenantID {
		return nil, shared.ErrNotFound
	}

	if err := edge.UpdateFactor(req.Factor); err != nil {
		return nil, err
	}
	if err := s.edgeRepo.Save(ctx, edge); err != nil {
		return nil, fmt.Errorf("saving edge: %w", err)
	}

	s.invalidateAfterEdgeWrite(ctx, edge)

	return NewConversionEdgeResponse(edge), nil
}

// DeleteEdge removes an edge
func (s *ConversionService) DeleteEdge(ctx context.Context, tenantID, edgeID uuid.UUID) error {
	edge, err := s.edgeRepo.FindByID(ctx, edgeID)
	if err != nil {
		return err
	}
	if edge.ScopeID != nil && *edge.ScopeID != tenantID {
		return shared.ErrNotFound
	}

	if err := s.edgeRepo.Delete(ctx, edgeID); err != nil {
		return err
	}

	s.invalidateAfterEdgeWrite(ctx, edge)
	return nil
}

// ListEdges lists the effective edges for a tenant: its scoped edges plus
// the global defaults they do not shadow
func (s *ConversionService) ListEdges(ctx context.Context, tenantID uuid.UUID) ([]ConversionEdgeResponse, error) {
	merged, err := s.effectiveEdges(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]ConversionEdgeResponse, len(merged))
	for i := range merged {
		responses[i] = *NewConversionEdgeResponse(&merged[i])
	}
	return responses, nil
}

// GraphForTenant returns the conversion graph snapshot for a tenant,
// building and caching it on a miss
func (s *ConversionService) GraphForTenant(ctx context.Context, tenantID uuid.UUID) (*uom.ConversionGraph, error) {
	if graph, ok := s.cache.Get(tenantID); ok {
		return graph, nil
	}

	merged, err := s.effectiveEdges(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	graph := uom.NewConversionGraph(merged)
	s.cache.Set(tenantID, graph)

	s.logger.Debug("conversion graph rebuilt",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("edges", len(merged)))

	return graph, nil
}

// Convert converts a quantity between two units for a tenant
func (s *ConversionService) Convert(ctx context.Context, tenantID uuid.UUID, req ConvertRequest) (*ConvertResponse, error) {
	input, err := valueobject.NewQuantity(req.Quantity, req.FromCode)
	if err != nil || !input.IsPositive() {
		return nil, shared.NewDomainErrorf("INVALID_QUANTITY", "Quantity must be positive, got %s", req.Quantity)
	}

	graph, err := s.GraphForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	factor, err := graph.Factor(req.FromCode, req.ToCode)
	if err != nil {
		return nil, err
	}
	converted, err := graph.Convert(input.Amount(), input.Unit(), req.ToCode)
	if err != nil {
		return nil, err
	}
	result, err := valueobject.NewQuantity(converted, req.ToCode)
	if err != nil {
		return nil, shared.NewDomainErrorf("INVALID_QUANTITY", "Conversion produced an invalid quantity: %s", err)
	}

	return &ConvertResponse{
		Quantity: input.Amount(),
		FromCode: input.Unit(),
		ToCode:   result.Unit(),
		Result:   result,
		Factor:   factor,
	}, nil
}

// effectiveEdges loads and merges the edge set visible to one tenant
func (s *ConversionService) effectiveEdges(ctx context.Context, tenantID uuid.UUID) ([]uom.ConversionEdge, error) {
	global, err := s.edgeRepo.FindGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global edges: %w", err)
	}
	scoped, err := s.edgeRepo.FindScoped(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("loading scoped edges: %w", err)
	}
	return uom.MergeScopedEdges(global, scoped), nil
}

func (s *ConversionService) invalidateAfterEdgeWrite(ctx context.Context, edge *uom.ConversionEdge) {
	if edge.IsGlobal() {
		s.cache.InvalidateAll(ctx)
		return
	}
	s.cache.Invalidate(ctx, *edge.ScopeID)
}
