package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	inventoryapi "github.com/Amanda2455/ecommerce-microservices-fullstack/api/inventory"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/internal/inventory"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/config"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/metrics"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/migrate"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/redis"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: registry.ServiceInventory})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: registry.ServiceInventory,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient, "inventory"); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	reg := registry.New(nil, cfg.Clients)
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}()
		reg = registry.New(redisClient, cfg.Clients)
	} else {
		logg.Warn(ctx, "redis not configured, peers resolve via static addresses")
	}

	if err := reg.KeepRegistered(ctx, registry.ServiceInventory, cfg.Clients.InventoryServiceURL, registry.DefaultTTL, func(err error) {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "service registration refresh failed")
	}); err != nil {
		logg.Error(ctx, "failed to register service", err)
		os.Exit(1)
	}
	defer func() {
		if err := reg.Deregister(context.Background(), registry.ServiceInventory); err != nil {
			logg.Warn(logg.WithField(context.Background(), "error", err.Error()), "failed to deregister service")
		}
	}()

	svc, err := inventory.NewService(
		inventory.NewRepository(dbClient.DB()),
		inventory.NewWarehouseRepository(dbClient.DB()),
	)
	if err != nil {
		logg.Error(ctx, "failed to create inventory service", err)
		os.Exit(1)
	}

	promReg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(promReg)
	metricsHandler := promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})

	addr := ":" + cfg.App.ListenPort(config.DefaultInventoryServicePort)
	server := &http.Server{
		Addr:    addr,
		Handler: inventoryapi.NewRouter(svc, dbClient, logg, httpMetrics, metricsHandler),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "server shutdown failed", err)
		}
	}()

	runCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})
	logg.Info(runCtx, "starting inventory service")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(runCtx, "inventory service stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(runCtx, "inventory service shut down gracefully")
}
