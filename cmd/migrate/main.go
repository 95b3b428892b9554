package main

import (
	"flag"

	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/order"
	"github.com/stockflow/backend/internal/domain/stock"
	"github.com/stockflow/backend/internal/domain/uom"
	"github.com/stockflow/backend/internal/infrastructure/config"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// models lists every persisted type in migration order
var models = []interface{}{
	&uom.UnitOfMeasure{},
	&uom.ConversionEdge{},
	&catalog.Item{},
	&stock.StockLevel{},
	&stock.Movement{},
	&order.PurchaseOrder{},
	&order.PurchaseOrderLine{},
	&order.SalesOrder{},
	&order.SalesOrderLine{},
}

func main() {
	var sqlitePath string
	flag.StringVar(&sqlitePath, "sqlite", "", "Migrate a local SQLite file instead of the configured Postgres database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	var db *gorm.DB
	if sqlitePath != "" {
		log.Info("Migrating SQLite database", zap.String("path", sqlitePath))
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to open SQLite database", zap.Error(err))
		}
	} else {
		log.Info("Migrating Postgres database",
			zap.String("host", cfg.Database.Host),
			zap.String("dbname", cfg.Database.DBName),
		)
		database, err := persistence.NewDatabase(&cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			_ = database.Close()
		}()
		db = database.DB
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migration complete", zap.Int("models", len(models)))
}
