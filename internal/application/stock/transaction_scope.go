package stock

import (
	"context"

	"github.com/stockflow/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the ledger repositories.
// All repository operations inside one Execute call share a database
// transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the ledger repositories scoped to the
// current transaction. The stock level row and its movement record must land
// in the same transaction, otherwise a crash between the two writes would
// leave the ledger and the audit log disagreeing.
type TransactionalRepositories interface {
	// StockLevels returns the stock level repository scoped to the transaction
	StockLevels() stock.StockLevelRepository
	// Movements returns the movement repository scoped to the transaction
	Movements() stock.MovementRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests where the repositories are in-memory fakes.
type NoOpTransactionScope struct {
	stockRepo    stock.StockLevelRepository
	movementRepo stock.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(stockRepo stock.StockLevelRepository, movementRepo stock.MovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function directly, without transaction boundaries
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
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
