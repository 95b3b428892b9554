package persistence

import (
	"github.com/stockflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyListFilter applies pagination and whitelisted ordering to a query.
// Repository-specific predicates from filter.Filters are applied by each
// repository before calling this.
func applyListFilter(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, allowedFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}
