package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warehouse-service/config"
	"warehouse-service/internal/api"
	"warehouse-service/internal/broker"
	"warehouse-service/internal/redisclient"
	"warehouse-service/internal/service"
	"warehouse-service/internal/store"
	"warehouse-service/internal/util"
	"warehouse-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting warehouse service", zap.Strings("components", cfg.Server.Components))

	if cfg.Observ.TracingEnabled {
		tp, err := util.InitTracer(cfg.Server.Env, cfg.Observ.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Warn("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	db, err := store.NewStore(cfg.Database.URL, store.Schemas{
		Inventory: cfg.Database.InventorySchema,
		Orders:    cfg.Database.OrdersSchema,
		Supplier:  cfg.Database.SupplierSchema,
	}, store.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected")

	var idempotency service.IdempotencyStore
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("Redis unavailable, order idempotency disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			idempotency = redisClient
			logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	var publisher service.EventPublisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicInventory)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicInventory))
	}

	services := api.Services{}
	if cfg.Server.Enabled(config.ComponentWarehouses) {
		services.Warehouses = service.NewWarehouseService(db, publisher)
	}
	if cfg.Server.Enabled(config.ComponentSuppliers) {
		services.Suppliers = service.NewSupplierService(db, publisher)
	}
	if cfg.Server.Enabled(config.ComponentProducts) {
		services.Products = service.NewProductService(db, publisher, cfg.Business.ProductDeleteGuard)
	}
	if cfg.Server.Enabled(config.ComponentInventory) {
		services.Inventory = service.NewInventoryService(db, publisher)
	}
	if cfg.Server.Enabled(config.ComponentOrders) {
		ttl := time.Duration(cfg.Business.IdempotencyTTLSeconds) * time.Second
		services.Orders = service.NewOrderService(db, publisher, idempotency, ttl)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var statsWorker *worker.StatsWorker
	if cfg.Server.Enabled(config.ComponentReports) {
		services.Reporting = service.NewReportingService(db)

		if cfg.Kafka.Enabled {
			consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicInventory, cfg.Kafka.ConsumerGroup)
			interval := time.Duration(cfg.Business.StatsRefreshSeconds) * time.Second
			statsWorker = worker.NewStatsWorker(consumer, services.Reporting, interval)
			go func() {
				if err := statsWorker.Start(workerCtx); err != nil && err != context.Canceled {
					logger.Error("Stats worker error", zap.Error(err))
				}
			}()
		}
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(services, db)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if statsWorker != nil {
		if err := statsWorker.Stop(); err != nil {
			logger.Warn("Error stopping stats worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
