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

	"github.com/yourorg/egx-collector/internal/client"
	"github.com/yourorg/egx-collector/internal/collector"
	"github.com/yourorg/egx-collector/internal/config"
	"github.com/yourorg/egx-collector/internal/handler"
	"github.com/yourorg/egx-collector/internal/kafka"
	"github.com/yourorg/egx-collector/internal/middleware"
	"github.com/yourorg/egx-collector/internal/repository"
	"github.com/yourorg/egx-collector/internal/retry"
	"github.com/yourorg/egx-collector/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database. An unreachable database at boot degrades the
	// service instead of killing it; collections fail until it returns.
	db := openDB(cfg.Database, logger)
	defer db.Close()

	// Initialize repositories
	lookupRepo := repository.NewLookupRepository(logger)
	stockRepo := repository.NewStockRepository(db, lookupRepo, logger)
	fairValueRepo := repository.NewFairValueRepository(db, lookupRepo, stockRepo, logger)
	ipoRepo := repository.NewIPORepository(db, lookupRepo, stockRepo, logger)

	// Initialize upstream client with retry policy
	retryPolicy := retry.NewPolicy(
		cfg.Retry.MaxAttempts,
		cfg.Retry.BaseDelay,
		cfg.Retry.MaxDelay,
		cfg.Retry.BackoffFactor,
		logger,
	)
	mubasherClient := client.NewMubasherClient(cfg.Mubasher, retryPolicy, logger)

	// Initialize collectors
	stockCollector := collector.NewStockCollector(mubasherClient, cfg.Mubasher, logger)
	fairValueCollector := collector.NewFairValueCollector(mubasherClient, cfg.Mubasher, logger)
	ipoCollector := collector.NewIPOCollector(mubasherClient, cfg.Mubasher, logger)

	// Initialize Kafka producer (nil when disabled)
	producer := kafka.NewProducer(cfg.Kafka, logger)
	defer producer.Close()

	// Initialize services
	stockService := service.NewStockService(stockCollector, stockRepo, producer, logger)
	fairValueService := service.NewFairValueService(fairValueCollector, fairValueRepo, producer, logger)
	ipoService := service.NewIPOService(ipoCollector, ipoRepo, producer, logger)

	// Initialize handlers
	stockHandler := handler.NewStockHandler(stockService, logger)
	fairValueHandler := handler.NewFairValueHandler(fairValueService, logger)
	ipoHandler := handler.NewIPOHandler(ipoService, logger)
	healthHandler := handler.NewHealthHandler(db, logger)
	infoHandler := handler.NewInfoHandler(cfg)

	// Set up HTTP server with Gin
	router := setupRouter(
		stockHandler,
		fairValueHandler,
		ipoHandler,
		healthHandler,
		infoHandler,
		newRedisClient(cfg.Cache, logger),
		logger,
		cfg,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// Create logger config
	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

// openDB opens the connection pool without requiring the database to be
// reachable. Migrations run only when the first ping succeeds.
func openDB(dbConfig config.DatabaseConfig, logger *zap.Logger) *sqlx.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName,
		dbConfig.SSLMode,
	)

	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		logger.Fatal("Invalid database configuration", zap.Error(err))
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		logger.Error("Database unreachable at startup, continuing in degraded state", zap.Error(err))
		return db
	}

	if err := repository.RunMigrations(db, dbConfig.MigrationsPath, logger); err != nil {
		logger.Error("Failed to run database migrations", zap.Error(err))
	}

	return db
}

// newRedisClient creates the response cache client, or nil when disabled
func newRedisClient(cacheConfig config.CacheConfig, logger *zap.Logger) *redis.Client {
	if !cacheConfig.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cacheConfig.Address,
		Password: cacheConfig.Password,
		DB:       cacheConfig.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Error("Redis unreachable, response caching disabled", zap.Error(err))
		return nil
	}

	return client
}

func setupRouter(
	stockHandler *handler.StockHandler,
	fairValueHandler *handler.FairValueHandler,
	ipoHandler *handler.IPOHandler,
	healthHandler *handler.HealthHandler,
	infoHandler *handler.InfoHandler,
	redisClient *redis.Client,
	logger *zap.Logger,
	cfg *config.Config,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Service info and health check
	router.GET("/", infoHandler.Root)
	router.GET("/health", healthHandler.Health)

	cacheMiddleware := middleware.RedisCache(redisClient, middleware.CacheConfig{
		Enabled: cfg.Cache.Enabled && redisClient != nil,
		TTL:     cfg.Cache.TTL,
		Prefix:  cfg.Cache.Prefix,
	}, logger)

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/config", infoHandler.Config)

		stocks := v1.Group("/stocks")
		{
			stocks.GET("", cacheMiddleware, stockHandler.GetStocks)
			stocks.POST("/collect", stockHandler.CollectStocks)
			stocks.POST("/collect/sync", stockHandler.CollectStocksSync)
		}

		fairValues := v1.Group("/fair-values")
		{
			fairValues.GET("", cacheMiddleware, fairValueHandler.GetFairValues)
			fairValues.POST("/collect", fairValueHandler.CollectFairValues)
			fairValues.POST("/collect/sync", fairValueHandler.CollectFairValuesSync)
		}

		ipos := v1.Group("/ipos")
		{
			ipos.GET("", cacheMiddleware, ipoHandler.GetIPOs)
			ipos.POST("/collect", ipoHandler.CollectIPOs)
			ipos.POST("/collect/sync", ipoHandler.CollectIPOsSync)
		}
	}

	return router
}
