package persistence

import (
	"context"

	appfulfillment "github.com/stockflow/backend/internal/application/fulfillment"
	appstock "github.com/stockflow/backend/internal/application/stock"
	"github.com/stockflow/backend/internal/domain/order"
	"github.com/stockflow/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope implements the ledger TransactionScope using
// GORM transactions. The stock level row and its movement record commit or
// roll back together.
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	})
}

type gormLedgerRepositories struct {
	tx *gorm.DB
}

// StockLevels returns the stock level repository scoped to the current transaction
func (r *gormLedgerRepositories) StockLevels() stock.StockLevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

// Movements returns the movement repository scoped to the current transaction
func (r *gormLedgerRepositories) Movements() stock.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// GormFulfillmentTransactionScope implements the fulfillment TransactionScope
// using GORM transactions. One line fulfillment spans the order aggregate,
// the stock level row and the movement log; all three commit together.
type GormFulfillmentTransactionScope struct {
	db *gorm.DB
}

// NewGormFulfillmentTransactionScope creates a new GormFulfillmentTransactionScope
func NewGormFulfillmentTransactionScope(db *gorm.DB) *GormFulfillmentTransactionScope {
	return &GormFulfillmentTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormFulfillmentTransactionScope) Execute(ctx context.Context, fn func(repos appfulfillment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormFulfillmentRepositories{tx: tx})
	})
}

type gormFulfillmentRepositories struct {
	tx *gorm.DB
}

// PurchaseOrders returns the purchase order repository scoped to the current transaction
func (r *gormFulfillmentRepositories) PurchaseOrders() order.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// SalesOrders returns the sales order repository scoped to the current transaction
func (r *gormFulfillmentRepositories) SalesOrders() order.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

// StockLevels returns the stock level repository scoped to the current transaction
func (r *gormFulfillmentRepositories) StockLevels() stock.StockLevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

// Movements returns the movement repository scoped to the current transaction
func (r *gormFulfillmentRepositories) Movements() stock.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

var _ appstock.TransactionScope = (*GormLedgerTransactionScope)(nil)
var _ appstock.TransactionalRepositories = (*gormLedgerRepositories)(nil)
var _ appfulfillment.TransactionScope = (*GormFulfillmentTransactionScope)(nil)
var _ appfulfillment.TransactionalRepositories = (*gormFulfillmentRepositories)(nil)
