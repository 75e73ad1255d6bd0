package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kdquach/thetrois-backend/api/controllers"
	"github.com/kdquach/thetrois-backend/api/routes"
	"github.com/kdquach/thetrois-backend/internal/cart"
	"github.com/kdquach/thetrois-backend/internal/catalog"
	"github.com/kdquach/thetrois-backend/internal/notify"
	"github.com/kdquach/thetrois-backend/internal/orders"
	"github.com/kdquach/thetrois-backend/internal/remote"
	"github.com/kdquach/thetrois-backend/internal/storage"
	"github.com/kdquach/thetrois-backend/pkg/config"
	"github.com/kdquach/thetrois-backend/pkg/logger"
	"github.com/kdquach/thetrois-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := newStore(context.Background(), cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logg.Error(context.Background(), "error closing storage", err)
			}
		}()
	}

	httpClient := &http.Client{Timeout: cfg.Upstream.RequestTimeout}

	cartClient, err := remote.NewCartClient(cfg.Upstream.BaseURL, httpClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart client", err)
		os.Exit(1)
	}
	orderClient, err := remote.NewOrderClient(cfg.Upstream.BaseURL, httpClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order client", err)
		os.Exit(1)
	}
	catalogClient, err := catalog.NewClient(cfg.Upstream.BaseURL, catalog.WithHTTPClient(httpClient))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	cartService, err := cart.NewService(
		cartClient,
		catalogClient,
		notify.NewLogSink(logg),
		logg,
		metrics.NewCartMetrics(registry),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(
		orderClient,
		store,
		logg,
		metrics.NewOrderCacheMetrics(registry),
		cfg.Cache.OrdersTTL,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"storage_driver": cfg.Storage.NormalizedDriver(),
	})
	logg.Info(ctx, "starting api server")

	var pinger controllers.Pinger
	if p, ok := store.(controllers.Pinger); ok {
		pinger = p
	}

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, pinger, cartService, orderService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func newStore(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	switch cfg.Storage.NormalizedDriver() {
	case config.StorageDriverRedis:
		return storage.NewRedisStore(ctx, cfg.Redis)
	case config.StorageDriverSQLite:
		return storage.NewSQLiteStore(cfg.Storage.SQLitePath)
	default:
		return storage.NewMemoryStore(), nil
	}
}
