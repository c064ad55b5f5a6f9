package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/plant_inventory/config"
	"github.com/mmdatafocus/plant_inventory/handlers"
	"github.com/mmdatafocus/plant_inventory/middlewares"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/notify"
	"github.com/mmdatafocus/plant_inventory/storage"
	"github.com/sirupsen/logrus"
)

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func corsConfig(cfg config.AppConfig) cors.Config {
	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist; elsewhere allow all.
	if cfg.IsProduction() {
		corsConfig.AllowOrigins = cfg.CorsAllowedOrigins
		if len(corsConfig.AllowOrigins) == 0 {
			// No allowlist means no cross-origin callers.
			corsConfig.AllowOriginFunc = func(string) bool { return false }
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", middlewares.OperatorHeader, middlewares.CorrelationHeader)
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", middlewares.CorrelationHeader)
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	return corsConfig
}

func newRouter(cfg config.AppConfig, inv *models.Inventory, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.CorrelationMiddleware())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.Use(cors.New(corsConfig(cfg)))

	if cfg.RateLimitEnabled {
		if client := config.GetRedisDB(); client != nil {
			limiter := middlewares.NewRateLimiter(client, int64(cfg.RateLimitRequests), cfg.RateLimitWindow)
			r.Use(limiter.RateLimitMiddleware)
		} else {
			logger.WithFields(logrus.Fields{"field": "rate_limit"}).Warn("RATE_LIMIT_ENABLED=true but redis is not connected; rate limiting disabled")
		}
	}

	r.Use(middlewares.SessionMiddleware())
	r.Use(middlewares.ErrorLogger(logger))
	r.Use(gin.Recovery())
	handlers.New(inv, logger).Register(r)
	r.NoRoute(customNotFoundHandler)
	return r
}

func main() {
	cfg := config.LoadAppConfig()
	logger := config.GetLogger()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// The rate limiter shares the redis connection whatever the snapshot backend.
	if cfg.RateLimitEnabled && cfg.SnapshotBackend != config.SnapshotBackendRedis {
		connectCtx, cancel := context.WithTimeout(sigCtx, time.Minute)
		config.ConnectRedisWithRetry(connectCtx, cfg.RedisAddress)
		cancel()
	}

	store, closeStore, err := storage.Open(sigCtx, cfg)
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "storage", "backend": cfg.SnapshotBackend}).Fatal(err.Error())
	}
	defer closeStore()

	inv := models.NewInventory(
		models.WithStore(store),
		models.WithNotifier(notify.Open(sigCtx, cfg)),
		models.WithLogger(logger),
	)
	inv.Load(sigCtx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(cfg, inv, logger),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	logger.WithFields(logrus.Fields{
		"port":    cfg.Port,
		"backend": cfg.SnapshotBackend,
	}).Info("plant inventory server started")

	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil && cfg.SnapshotBackend != config.SnapshotBackendRedis {
		_ = rdb.Close()
	}
}
