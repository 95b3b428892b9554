package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/stock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func testStockLevel(t *testing.T) *stock.StockLevel {
	t.Helper()

	level, err := stock.NewStockLevel(uuid.New(), uuid.New(), nil, uuid.New())
	require.NoError(t, err)
	return level
}

func TestStockLevelSaveWithLock(t *testing.T) {
	t.Run("applies update when version matches", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockLevelRepository(db)

		level := testStockLevel(t)
		level.OnHandQuantity = decimal.NewFromInt(10)
		level.AvgUnitCost = decimal.RequireFromString("2.5")
		level.Version = 2

		mock.ExpectExec(`UPDATE "stock_levels" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), level)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns concurrency conflict on stale version", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockLevelRepository(db)

		level := testStockLevel(t)
		level.Version = 2

		mock.ExpectExec(`UPDATE "stock_levels" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), level)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStockLevelFindByKey(t *testing.T) {
	t.Run("nil bin queries un-binned stock", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockLevelRepository(db)

		tenantID := uuid.New()
		warehouseID := uuid.New()
		itemID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "version", "tenant_id",
			"warehouse_id", "bin_id", "item_id", "on_hand_quantity", "avg_unit_cost",
		}).AddRow(uuid.New(), now, now, 3, tenantID, warehouseID, nil, itemID, "150.5", "2.4")

		mock.ExpectQuery(`SELECT .* FROM "stock_levels" WHERE .*bin_id IS NULL`).
			WillReturnRows(rows)

		level, err := repo.FindByKey(context.Background(), tenantID, warehouseID, nil, itemID)
		require.NoError(t, err)
		assert.Nil(t, level.BinID)
		assert.True(t, level.OnHandQuantity.Equal(decimal.RequireFromString("150.5")))
		assert.Equal(t, 3, level.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockLevelRepository(db)

		mock.ExpectQuery(`SELECT .* FROM "stock_levels"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByKey(context.Background(), uuid.New(), uuid.New(), nil, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMovementSumLineQuantity(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormMovementRepository(db)

	refID := uuid.New()
	lineID := uuid.New()

	rows := sqlmock.NewRows([]string{"total"}).AddRow("300.5")
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) as total FROM "movements"`).
		WillReturnRows(rows)

	total, err := repo.SumLineQuantity(context.Background(), stock.RefTypePurchaseOrder, refID, lineID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("300.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
