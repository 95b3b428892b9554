package fulfillment

import (
	"context"

	"github.com/stockflow/backend/internal/domain/order"
	"github.com/stockflow/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to every repository a
// fulfillment step touches. One line fulfillment spans the order aggregate,
// the stock level row and the movement log; all three must commit together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories scoped to the current
// transaction
type TransactionalRepositories interface {
	// PurchaseOrders returns the purchase order repository scoped to the transaction
	PurchaseOrders() order.PurchaseOrderRepository
	// SalesOrders returns the sales order repository scoped to the transaction
	SalesOrders() order.SalesOrderRepository
	// StockLevels returns the stock level repository scoped to the transaction
	StockLevels() stock.StockLevelRepository
	// Movements returns the movement repository scoped to the transaction
	Movements() stock.MovementRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests where the repositories are in-memory fakes.
type NoOpTransactionScope struct {
	purchaseRepo order.PurchaseOrderRepository
	salesRepo    order.SalesOrderRepository
	stockRepo    stock.StockLevelRepository
	movementRepo stock.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	purchaseRepo order.PurchaseOrderRepository,
	salesRepo order.SalesOrderRepository,
	stockRepo stock.StockLevelRepository,
	movementRepo stock.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		purchaseRepo: purchaseRepo,
		salesRepo:    salesRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function directly, without transaction boundaries
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PurchaseOrders returns the purchase order repository
func (s *NoOpTransactionScope) PurchaseOrders() order.PurchaseOrderRepository {
	return s.purchaseRepo
}

// SalesOrders returns the sales order repository
func (s *NoOpTransactionScope) SalesOrders() order.SalesOrderRepository {
	return s.salesRepo
}

// StockLevels returns the stock level repository
func (s *NoOpTransactionScope) StockLevels() stock.StockLevelRepository {
	return s.stockRepo
}

// Movements returns the movement repository
func (s *NoOpTransactionScope) Movements() stock.MovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
