package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/handler"
	"barangay-projects-api/internal/metrics"
	"barangay-projects-api/internal/middleware"
	"barangay-projects-api/internal/repository"
	"barangay-projects-api/internal/service"
	"barangay-projects-api/internal/txn"
)

// Config holds the dependencies the HTTP layer is built from
type Config struct {
	DB          *gorm.DB
	Redis       *redis.Client // optional
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	JWTSecret   string
	BasePath    string
	CORSOrigins []string

	Storage     *client.LocalStorage
	ObjectStore client.ObjectStore   // nil keeps media on local disk
	ViewCache   repository.ViewCache // nil disables the cache
	MaxFiles    int
	MaxBodySize int64
}

// Setup builds the gin engine with every route wired
func Setup(cfg Config) *gin.Engine {
	basePath := strings.TrimRight(cfg.BasePath, "/")

	r := gin.New()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics(cfg.Metrics, basePath))

	store := repository.NewStore(cfg.DB)
	coord := txn.NewCoordinator(store, cfg.Logger, cfg.Metrics)
	mediaSync := service.NewMediaSynchronizer(cfg.ObjectStore, cfg.Storage, cfg.Metrics, cfg.Logger)

	projectService := service.NewProjectService(coord, mediaSync, cfg.ViewCache, cfg.Metrics, cfg.Logger)
	updateService := service.NewUpdateService(coord, mediaSync, cfg.Metrics, cfg.Logger)
	mediaService := service.NewMediaService(coord, mediaSync, cfg.Logger)
	referenceService := service.NewReferenceService(store.References(), cfg.Logger)

	uploader := handler.NewUploader(cfg.Storage, cfg.MaxFiles, cfg.MaxBodySize, cfg.Logger)
	projectHandler := handler.NewProjectHandler(projectService, uploader, cfg.Logger)
	updateHandler := handler.NewUpdateHandler(updateService, uploader, cfg.Logger)
	mediaHandler := handler.NewMediaHandler(mediaService, uploader, cfg.Logger)
	referenceHandler := handler.NewReferenceHandler(referenceService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)

	metricsHandler := gin.WrapH(promhttp.Handler())

	// Operational endpoints at the root for probes and scrapers
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metricsHandler)

	api := r.Group(basePath)
	if basePath != "" {
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)
		api.GET("/metrics", metricsHandler)
	}
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authed := api.Group("", middleware.Auth(cfg.JWTSecret))
	{
		authed.GET("/tags", referenceHandler.ListTags)
		authed.GET("/barangays", referenceHandler.ListBarangays)

		projects := authed.Group("/projects")
		projects.POST("", projectHandler.CreateProject)
		projects.GET("", projectHandler.ListProjects)
		projects.DELETE("", projectHandler.DeleteAllProjects)
		projects.GET("/:projectId", projectHandler.GetProject)
		projects.PATCH("/:projectId", projectHandler.UpdateProject)
		projects.DELETE("/:projectId", projectHandler.DeleteProject)
		projects.GET("/:projectId/history", projectHandler.GetProgressHistory)

		projects.GET("/:projectId/media", mediaHandler.ListMedia)
		projects.POST("/:projectId/media", mediaHandler.AddMedia)
		projects.PUT("/:projectId/media", mediaHandler.ReplaceMedia)
		projects.DELETE("/:projectId/media", mediaHandler.DeleteAllMedia)
		projects.DELETE("/:projectId/media/:mediaId", mediaHandler.DeleteMedia)

		updates := projects.Group("/:projectId/updates")
		updates.POST("", updateHandler.CreateUpdate)
		updates.GET("", updateHandler.ListUpdates)
		updates.DELETE("", updateHandler.DeleteAllUpdates)
		updates.GET("/:updateId", updateHandler.GetUpdate)
		updates.PATCH("/:updateId", updateHandler.EditUpdate)
		updates.DELETE("/:updateId", updateHandler.DeleteUpdate)

		updates.GET("/:updateId/media", mediaHandler.ListMedia)
		updates.POST("/:updateId/media", mediaHandler.AddMedia)
		updates.PUT("/:updateId/media", mediaHandler.ReplaceMedia)
		updates.DELETE("/:updateId/media", mediaHandler.DeleteAllMedia)
	}

	return r
}
