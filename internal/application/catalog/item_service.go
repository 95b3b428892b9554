package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/uom"
	"go.uber.org/zap"
)

// ItemService handles item master-data operations
type ItemService struct {
	itemRepo catalog.ItemRepository
	unitRepo uom.UnitRepository
	logger   *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo catalog.ItemRepository, unitRepo uom.UnitRepository, logger *zap.Logger) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		unitRepo: unitRepo,
		logger:   logger,
	}
}

// CreateItem creates a new item. The SKU must be unique within the tenant
// and the base unit must exist in the tenant's unit master data.
func (s *ItemService) CreateItem(ctx context.Context, tenantID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	sku := strings.TrimSpace(strings.ToUpper(req.SKU))

	exists, err := s.itemRepo.ExistsBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, fmt.Errorf("checking SKU: %w", err)
	}
	if exists {
		return nil, shared.NewDomainErrorf("DUPLICATE_CODE", "Item SKU %s already exists", sku)
	}

	baseUnit := uom.NormalizeUnitCode(req.BaseUnitCode)
	unitExists, err := s.unitRepo.ExistsByCode(ctx, tenantID, baseUnit)
	if err != nil {
		return nil, fmt.Errorf("checking base unit: %w", err)
	}
	if !unitExists {
		return nil, shared.NewDomainErrorf("NOT_FOUND", "Base unit %s is not defined", baseUnit)
	}

	item, err := catalog.NewItem(tenantID, sku, req.Name, baseUnit)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		item.Description = req.Description
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}

	s.logger.Info("item created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sku", item.SKU),
		zap.String("base_unit", item.BaseUnitCode))

	return NewItemResponse(item), nil
}

// UpdateItem updates an item's display fields
func (s *ItemService) UpdateItem(ctx context.Context, tenantID, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}

	return NewItemResponse(item), nil
}

// GetItem retrieves an item by ID
func (s *ItemService) GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	return NewItemResponse(item), nil
}

// GetItemBySKU retrieves an item by SKU
func (s *ItemService) GetItemBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindBySKU(ctx, tenantID, strings.TrimSpace(strings.ToUpper(sku)))
	if err != nil {
		return nil, err
	}
	return NewItemResponse(item), nil
}

// ListItems lists the items of a tenant
func (s *ItemService) ListItems(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ItemResponse], error) {
	items, err := s.itemRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = *NewItemResponse(&items[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DeactivateItem marks an item inactive
func (s *ItemService) DeactivateItem(ctx context.Context, tenantID, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return err
	}
	item.Deactivate()
	return s.itemRepo.Save(ctx, item)
}

// ActivateItem marks an item active again
func (s *ItemService) ActivateItem(ctx context.Context, tenantID, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return err
	}
	item.Activate()
	return s.itemRepo.Save(ctx, item)
}
