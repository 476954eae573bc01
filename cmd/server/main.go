package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kopeyka/receipt-service/config"
	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/handlers"
	"github.com/kopeyka/receipt-service/internal/metrics"
	"github.com/kopeyka/receipt-service/internal/middleware"
	"github.com/kopeyka/receipt-service/internal/session"
	"github.com/kopeyka/receipt-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting receipt service gateway")

	ctx := context.Background()
	cleanup, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	sessionPath := cfg.Session.Path
	if sessionPath == "" {
		sessionPath, err = session.DefaultPath()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to resolve session path")
		}
	}
	sessions := session.NewManager(sessionPath, *logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client := api.New(api.Options{
		BaseURL:           cfg.API.BaseURL,
		Tokens:            sessions,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: float64(cfg.RateLimit.RequestsPerSecond),
		Retry: api.RetryConfig{
			MaxRetries:       cfg.RateLimit.MaxRetries,
			InitialBackoffMs: cfg.RateLimit.InitialBackoffMs,
			MaxBackoffMs:     cfg.RateLimit.MaxBackoffMs,
		},
		Logger:  *logger,
		Metrics: metrics.NewClient(registry),
	})

	gateway := handlers.NewGateway(client, sessions, *logger)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", gateway.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	auth := router.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware(middleware.RateLimiterConfig{RequestsPerSecond: 2, BurstSize: 5}))
	{
		auth.POST("/login", gateway.Login)
		auth.POST("/register", gateway.Register)
		auth.POST("/logout", gateway.Logout)
		auth.GET("/me", gateway.Me)
	}

	app := router.Group("/")
	app.Use(middleware.RateLimitMiddleware())
	app.Use(middleware.RequireSession(sessions))
	{
		app.GET("/views/dashboard", gateway.GetDashboard)
		app.GET("/views/analytics", gateway.GetAnalytics)
		app.GET("/views/totals", gateway.GetTotals)
		app.GET("/views/receipts", gateway.ListReceipts)
		app.GET("/views/stores", gateway.ListStores)

		app.POST("/receipts", gateway.CreateReceipt)
		app.POST("/receipts/upload", gateway.UploadReceipt)

		app.POST("/stores", gateway.CreateStore)
		app.PUT("/stores/:storeId", gateway.UpdateStore)
		app.POST("/stores/:storeId/favorite", gateway.ToggleFavorite)
		app.DELETE("/stores/:storeId", gateway.DeleteStore)

		app.GET("/export/report.xlsx", gateway.ExportReport)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := cleanup(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "receipt-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
