// @title           Barangay Projects API
// @version         1.0
// @description     Barangay project tracking: projects, progress updates and their media.

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "barangay-projects-api/docs" // Swagger docs import

	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/config"
	"barangay-projects-api/internal/database"
	"barangay-projects-api/internal/job"
	"barangay-projects-api/internal/metrics"
	"barangay-projects-api/internal/repository"
	"barangay-projects-api/internal/router"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Barangay Projects API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
	)

	db, err := database.NewWithRetry(cfg.Database, 10, 3*time.Second, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrateWithRetry(db, logger, 3); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	if err := database.SeedReferences(db, cfg.References.Tags, cfg.References.Barangays); err != nil {
		logger.Fatal("Failed to seed reference data", zap.Error(err))
	}

	m := metrics.New(logger)
	database.RegisterMetricsCallbacks(db, m)
	stopDBStats := database.StartDBStatsCollector(db, m, 15*time.Second)
	collector := metrics.NewBusinessMetricsCollector(db, m, logger, time.Minute)
	collector.Start()

	var redisClient *redis.Client
	var viewCache repository.ViewCache
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedis(cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis unavailable, view de-duplication uses the database only", zap.Error(err))
		} else {
			viewCache = repository.NewRedisViewCache(redisClient, cfg.Redis.ViewTTL)
		}
	}

	storage, err := client.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.MaxUploadSize)
	if err != nil {
		logger.Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	// Left as a nil interface when S3 is off
	var objects client.ObjectStore
	if cfg.S3.Enabled() {
		s3Client, err := client.NewS3Client(context.Background(), cfg.S3, m)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, media stays on local disk", zap.Error(err))
		} else {
			objects = s3Client
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Info("S3 not configured, media stays on local disk",
			zap.String("upload_dir", cfg.Storage.UploadDir))
	}

	sweep := job.NewStagingSweepJob(storage, repository.NewMediaRepository(db), cfg.Storage.StaleAfter, m, logger)
	scheduler, err := sweep.Schedule(cfg.Storage.SweepSchedule)
	if err != nil {
		logger.Fatal("Invalid sweep schedule", zap.String("schedule", cfg.Storage.SweepSchedule), zap.Error(err))
	}

	r := router.Setup(router.Config{
		DB:          db,
		Redis:       redisClient,
		Logger:      logger,
		Metrics:     m,
		JWTSecret:   cfg.JWT.Secret,
		BasePath:    cfg.Server.BasePath,
		CORSOrigins: cfg.Server.CORSOrigins,
		Storage:     storage,
		ObjectStore: objects,
		ViewCache:   viewCache,
		MaxFiles:    cfg.Storage.MaxFiles,
		MaxBodySize: cfg.Storage.MaxUploadSize*int64(cfg.Storage.MaxFiles) + 1<<20,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Barangay Projects API started",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s%s/swagger/index.html", cfg.Server.Port, cfg.Server.BasePath)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	<-scheduler.Stop().Done()
	collector.Stop()
	close(stopDBStats)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := database.Close(db); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
