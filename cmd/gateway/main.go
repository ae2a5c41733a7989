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

	"github.com/Amanda2455/ecommerce-microservices-fullstack/api/gateway"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/config"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/logger"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/metrics"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/redis"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: registry.ServiceGateway})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: registry.ServiceGateway,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
		logg.Warn(ctx, "redis not configured, upstreams resolve via static addresses")
	}

	promReg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(promReg)
	metricsHandler := promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})

	addr := ":" + cfg.App.ListenPort(config.DefaultGatewayPort)
	server := &http.Server{
		Addr:    addr,
		Handler: gateway.NewRouter(reg, logg, httpMetrics, metricsHandler),
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
	logg.Info(runCtx, "starting api gateway")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(runCtx, "api gateway stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(runCtx, "api gateway shut down gracefully")
}
