package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mwidjaja/student-records-api/api/swagger"
	"github.com/mwidjaja/student-records-api/internal/handler"
	"github.com/mwidjaja/student-records-api/internal/middleware"
	"github.com/mwidjaja/student-records-api/internal/repository"
	"github.com/mwidjaja/student-records-api/internal/service"
	"github.com/mwidjaja/student-records-api/pkg/cache"
	"github.com/mwidjaja/student-records-api/pkg/config"
	"github.com/mwidjaja/student-records-api/pkg/database"
	"github.com/mwidjaja/student-records-api/pkg/logger"
	corsmiddleware "github.com/mwidjaja/student-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mwidjaja/student-records-api/pkg/middleware/requestid"
	"github.com/mwidjaja/student-records-api/pkg/response"
)

// @title Student Records API
// @version 1.0.0
// @description Student records management service
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logr.Sugar().Fatalw("failed to apply schema", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.ListTTL, logr, true)
		}
	}

	studentRepo := repository.NewStudentRepository(db)
	studentSvc := service.NewStudentService(studentRepo, nil, cacheSvc, metricsSvc, logr)

	var exportSvc handler.ExportService
	if cfg.Export.Enabled {
		exportSvc = service.NewExportService(studentSvc)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to Student Management System API"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.NewStudentHandler(studentSvc, exportSvc).Register(api)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorBody{Message: "Route not found"})
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
