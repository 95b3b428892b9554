package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	catalogapp "github.com/stockflow/backend/internal/application/catalog"
	fulfillmentapp "github.com/stockflow/backend/internal/application/fulfillment"
	orderapp "github.com/stockflow/backend/internal/application/order"
	stockapp "github.com/stockflow/backend/internal/application/stock"
	uomapp "github.com/stockflow/backend/internal/application/uom"
	"github.com/stockflow/backend/internal/infrastructure/cache"
	"github.com/stockflow/backend/internal/infrastructure/config"
	"github.com/stockflow/backend/internal/infrastructure/eventbus"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/infrastructure/persistence"
	"github.com/stockflow/backend/internal/interfaces/http/handler"
	"github.com/stockflow/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting stockflow backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Conversion graph cache, with optional cross-instance invalidation
	var graphCache uomapp.GraphCache
	var redisCache *cache.RedisGraphCache
	if cfg.Cache.RedisInvalidation {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			_ = redisClient.Close()
		}()

		redisCache = cache.NewRedisGraphCache(redisClient, cfg.Cache.InvalidationChannel, log)
		redisCache.Start(context.Background())
		defer redisCache.Close()
		graphCache = redisCache
		log.Info("Graph cache invalidation over Redis enabled",
			zap.String("channel", cfg.Cache.InvalidationChannel))
	} else {
		graphCache = cache.NewMemoryGraphCache()
	}

	// Repositories
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	edgeRepo := persistence.NewGormConversionEdgeRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	stockLevelRepo := persistence.NewGormStockLevelRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)

	// Application services
	conversionService := uomapp.NewConversionService(unitRepo, edgeRepo, graphCache, log)
	itemService := catalogapp.NewItemService(itemRepo, unitRepo, log)
	ledgerService := stockapp.NewLedgerService(
		persistence.NewGormLedgerTransactionScope(db.DB),
		stockLevelRepo, movementRepo, log,
	)
	ledgerService.SetEventPublisher(eventbus.NewZapEventPublisher(log))
	orderService := orderapp.NewOrderService(purchaseOrderRepo, salesOrderRepo, itemRepo, log)
	engine := fulfillmentapp.NewEngine(
		persistence.NewGormFulfillmentTransactionScope(db.DB),
		conversionService, itemRepo,
		fulfillmentapp.Config{AutoClose: cfg.Fulfillment.AutoClose},
		log,
	)

	// HTTP layer
	r := router.New(log)
	r.Register(handler.NewUOMHandler(conversionService)).
		Register(handler.NewItemHandler(itemService)).
		Register(handler.NewStockHandler(ledgerService)).
		Register(handler.NewOrderHandler(orderService)).
		Register(handler.NewFulfillmentHandler(engine))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r.Setup(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
