package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ideahouse/server/internal/cache"
	"github.com/ideahouse/server/internal/config"
	"github.com/ideahouse/server/internal/database"
	"github.com/ideahouse/server/internal/handlers"
	"github.com/ideahouse/server/internal/logger"
	"github.com/ideahouse/server/internal/middleware"
	"github.com/ideahouse/server/internal/session"
	"github.com/ideahouse/server/internal/storage"
	"github.com/ideahouse/server/internal/store"
	"github.com/ideahouse/server/internal/view"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		os.Exit(1)
	}
	defer logger.Close()

	logger.Log.Info("=== Idea House server starting ===")
	logger.SugaredLog.Infof("configured for %s on port %s", cfg.Environment, cfg.Port)

	// Database
	if err := database.Initialize(cfg.DatabaseURL, cfg.IsDevelopment()); err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis backs the session store
	redisClient, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		logger.Log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Stores and sessions
	userStore := store.NewUserStore(database.DB)
	ideaStore := store.NewIdeaStore(database.DB)
	likeStore := store.NewLikeStore(database.DB)
	sessions := session.NewManager(redisClient)
	gate := session.NewGate(sessions, userStore, "/login", "/users/")

	// Handlers
	h := handlers.NewHandlers(userStore, ideaStore, likeStore, sessions, view.NewGinRenderer())

	// Thumbnail storage; uploads degrade gracefully without it
	s3Uploader, err := storage.NewS3Uploader(cfg.AWSRegion, cfg.AWSBucket, cfg.CDNBaseURL)
	if err != nil {
		logger.Log.Warn("failed to initialize S3 uploader", zap.Error(err))
	} else {
		if err := s3Uploader.CheckBucketAccess(context.Background()); err != nil {
			logger.Log.Warn("S3 bucket access failed, thumbnails disabled", zap.Error(err))
		} else {
			h.SetThumbnailUploader(s3Uploader)
		}
	}

	// Router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // Configure properly for production
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsConfig))

	// Template and asset directories ship separately with the frontend
	if _, err := os.Stat("templates"); err == nil {
		r.LoadHTMLGlob("templates/*")
	} else {
		logger.Log.Warn("templates directory not found, pages will not render")
	}
	if _, err := os.Stat("static"); err == nil {
		r.Static("/static", "./static")
	}

	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		payload := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "idea-house",
		}
		if err := database.Health(); err != nil {
			status = http.StatusServiceUnavailable
			payload["status"] = "degraded"
		}
		if err := redisClient.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			payload["status"] = "degraded"
		}
		c.JSON(status, payload)
	})

	r.Use(gate.Identify())
	h.RegisterRoutes(r, gate)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}

	logger.Log.Info("server stopped")
}
