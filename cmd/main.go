package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/gazetteer/internal/cache"
	"github.com/UnknownOlympus/gazetteer/internal/config"
	"github.com/UnknownOlympus/gazetteer/internal/geocoding"
	"github.com/UnknownOlympus/gazetteer/internal/metrics"
	"github.com/UnknownOlympus/gazetteer/internal/repository"
	"github.com/UnknownOlympus/gazetteer/internal/server"
	"github.com/UnknownOlympus/gazetteer/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// The lookup log is optional: without a database host the service runs
	// without persistence.
	var repo repository.Interface
	var pinger server.Pinger
	if cfg.Database.Host != "" {
		pool, err := repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer pool.Close()

		pgRepo := repository.NewRepository(pool, logger)
		if err = pgRepo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare lookup table: %v", err)
		}
		repo = pgRepo
		pinger = pool
		logger.InfoContext(ctx, "Lookup log enabled", "host", cfg.Database.Host)
	} else {
		logger.InfoContext(ctx, "Lookup log disabled, no database host configured")
	}

	// Select the cache tier: Redis when configured, bounded in-memory otherwise.
	var resultCache cache.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		resultCache = cache.NewRedis(client, cfg.CacheTTL, logger)
		logger.InfoContext(ctx, "Using Redis cache", "addr", cfg.RedisAddr)
	} else {
		resultCache = cache.NewMemory(cfg.CacheSize, cfg.CacheTTL)
		logger.InfoContext(ctx, "Using in-memory cache", "size", cfg.CacheSize, "ttl", cfg.CacheTTL)
	}

	// Build the ordered provider registry from configuration.
	providerConfigs := make([]geocoding.ProviderConfig, 0, len(cfg.Providers))
	for _, providerType := range cfg.Providers {
		providerConfig := geocoding.ProviderConfig{
			Type:      geocoding.ProviderType(providerType),
			RateLimit: cfg.RateLimit,
			Logger:    logger,
		}
		switch providerConfig.Type {
		case geocoding.ProviderTypeLocationIQ:
			providerConfig.APIKey = cfg.LocationIQKey
		case geocoding.ProviderTypeGoogle:
			providerConfig.APIKey = cfg.GoogleKey
		}
		providerConfigs = append(providerConfigs, providerConfig)
	}

	providers, err := geocoding.NewRegistry(providerConfigs)
	if err != nil {
		log.Fatalf("Failed to create geocoding providers: %v", err)
	}
	logger.InfoContext(ctx, "Geocoding providers initialized", "providers", cfg.Providers)

	// Init the reverse-geocoding service with the provider registry.
	geoService := service.NewGeocodingService(logger, providers, resultCache, repo, appMetrics, cfg.ProviderTimeout)

	// Assemble the HTTP server.
	srv := server.NewServer(logger, geoService, repo, pinger)
	router := srv.Router(cfg.Env, reg)

	readTimeout := 5
	writeTimeout := 15
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server failed", "error", err)
			stop()
		}
	}()

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownTimeout := 10
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Failed to shut down HTTP server gracefully", "error", err)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)

		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
