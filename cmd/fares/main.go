package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/taxigov/fare-platform/internal/fares"
	"github.com/taxigov/fare-platform/internal/regions"
	"github.com/taxigov/fare-platform/internal/vehicletypes"
	"github.com/taxigov/fare-platform/migrations"
	"github.com/taxigov/fare-platform/pkg/cache"
	"github.com/taxigov/fare-platform/pkg/config"
	"github.com/taxigov/fare-platform/pkg/database"
	"github.com/taxigov/fare-platform/pkg/logger"
	"github.com/taxigov/fare-platform/pkg/middleware"
	redisclient "github.com/taxigov/fare-platform/pkg/redis"
)

const (
	serviceName = "fares-service"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting fares service",
		zap.String("service", serviceName),
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
	)

	if err := migrations.Run(cfg.Database.URL()); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Database schema up to date")

	db, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)
	logger.Info("Connected to database")

	redisClient, err := redisclient.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}()
	logger.Info("Connected to redis")

	cacheManager := cache.NewManager(redisClient)

	vehicleTypeRepo := vehicletypes.NewRepository(db)
	vehicleTypeService := vehicletypes.NewService(vehicleTypeRepo)
	vehicleTypeHandler := vehicletypes.NewHandler(vehicleTypeService)

	regionRepo := regions.NewRepository(db)
	regionService := regions.NewService(regionRepo)
	regionHandler := regions.NewHandler(regionService)

	fareRepo := fares.NewRepository(db)
	fareService := fares.NewService(fareRepo, vehicleTypeService, regionService, cacheManager)
	fareHandler := fares.NewHandler(fareService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName, "version": version})
	})
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive", "service": serviceName})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "database"})
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "redis"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	admin := router.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWT.Secret),
		middleware.RequireAdmin(),
	)

	vehicleTypeHandler.RegisterRoutes(api, admin)
	regionHandler.RegisterRoutes(api, admin)
	fareHandler.RegisterRoutes(api, admin)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func corsConfig(origins string) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = strings.Split(origins, ",")
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	corsCfg.AllowCredentials = true
	return corsCfg
}
