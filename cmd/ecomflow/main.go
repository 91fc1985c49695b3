package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mqsfps1-maker/ecomflow/internal/config"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/handler"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/repository"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/service"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/sse"
	"github.com/mqsfps1-maker/ecomflow/internal/middleware"
	"github.com/mqsfps1-maker/ecomflow/internal/shared/labelary"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting ecomflow service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.OrderItem{},
		&entity.StockItem{},
		&entity.SkuLink{},
		&entity.CompositeProduct{},
		&entity.SystemConfig{},
		&entity.PrintRecord{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	renderer := labelary.NewClient(cfg.Labelary.BaseURL, cfg.Labelary.Density, cfg.Labelary.Size, cfg.Labelary.Timeout)
	services := service.NewServices(repos, rdb, renderer, sse.GlobalHub, cfg, zapLogger)
	handlers := handler.NewHandlers(services, repos)

	// scheduled purge of print history past retention
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Print.PurgeSchedule, func() {
		if _, err := services.Print.PurgeHistory(context.Background(), cfg.Print.RetentionDays); err != nil {
			zapLogger.Error("Print history purge failed", zap.Error(err))
		}
	}); err != nil {
		zapLogger.Warn("Invalid purge schedule, purge disabled", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // Disable for SSE long-lived connections
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		imports := v1.Group("/imports")
		{
			imports.POST("/spreadsheet", h.Import.Spreadsheet)
			imports.POST("/nfe", h.Import.NFe)
			imports.POST("/nfe-zip", h.Import.NFeZip)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("", h.Order.List)
			orders.PUT("/:id/status", h.Order.UpdateStatus)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/links", h.Catalog.ListLinks)
			catalog.POST("/links", h.Catalog.SaveLink)
			catalog.DELETE("/links/:id", h.Catalog.DeleteLink)
			catalog.GET("/boms", h.Catalog.ListComposites)
			catalog.PUT("/boms", h.Catalog.SaveComposite)
			catalog.GET("/stock-items", h.Catalog.ListStockItems)
			catalog.POST("/stock-items", h.Catalog.CreateStockItem)
			catalog.PUT("/stock-items/:code", h.Catalog.UpdateStockItem)
		}

		materials := v1.Group("/materials")
		{
			materials.GET("/requirements", h.Material.Requirements)
		}

		printing := v1.Group("/print")
		{
			printing.POST("/jobs", h.Print.CreateJob)
			printing.GET("/jobs/:id", h.Print.Job)
			printing.GET("/jobs/:id/events", h.Print.Events)
			printing.GET("/history", h.Print.History)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("/:key", h.Settings.Get)
			settings.PUT("/:key", h.Settings.Put)
		}
	}
}
