package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WebLink-Company/mi-comida/internal/app"
	"github.com/WebLink-Company/mi-comida/internal/auth"
	"github.com/WebLink-Company/mi-comida/internal/masterdata"
	"github.com/WebLink-Company/mi-comida/internal/observability"
	"github.com/WebLink-Company/mi-comida/internal/orders"
	"github.com/WebLink-Company/mi-comida/internal/platform/cache"
	"github.com/WebLink-Company/mi-comida/internal/platform/db"
	"github.com/WebLink-Company/mi-comida/internal/stats"
	"github.com/WebLink-Company/mi-comida/internal/stats/statshttp"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	authService := auth.NewService(auth.NewRepository(pool))

	masterRepo := masterdata.NewRepository(pool)
	masterService := masterdata.NewService(masterRepo)
	masterHandler := masterdata.NewHandler(masterService)

	statsCache := stats.NewCache(redisClient, cfg.StatsCacheTTL)
	if err := statsCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("stats cache invalidation listener", slog.Any("error", err))
	}
	statsService := stats.NewService(stats.NewRepository(pool), statsCache, logger)
	statsHandler := statshttp.NewHandler(logger, statsService, metrics)

	orderService := orders.NewService(orders.NewRepository(pool), masterService, logger)
	orderService.WithInvalidator(statsService)
	orderHandler := orders.NewHandler(orderService)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthMiddleware:    auth.Middleware(authService, logger),
		MasterDataHandler: masterHandler,
		OrdersHandler:     orderHandler,
		StatsHandler:      statsHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}
