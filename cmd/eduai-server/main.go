// cmd/eduai-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"nanolez-eduai/internal/ai"
	"nanolez-eduai/internal/api"
	"nanolez-eduai/internal/common/camunda"
	"nanolez-eduai/internal/common/config"
	"nanolez-eduai/internal/common/database"
	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/common/observability"
	"nanolez-eduai/internal/ratelimit"
	"nanolez-eduai/internal/store"
	"nanolez-eduai/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting EduAI server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	sequencer, err := ai.NewSequencerFromConfig(cfg.Providers, log)
	if err != nil {
		zapLog.Fatal("provider chain setup failed", zap.Error(err))
	}
	zapLog.Info("AI providers configured", zap.Strings("order", sequencer.Providers()))

	reg := registry.Default()
	if cfg.Registry.Path != "" {
		reg, err = registry.LoadRegistry(cfg.Registry.Path)
		if err != nil {
			zapLog.Fatal("action registry load failed", zap.String("path", cfg.Registry.Path), zap.Error(err))
		}
	}

	var checks = map[string]api.ReadinessCheck{}

	// --- Optional PostgreSQL roadmap storage ---
	var repo *store.RoadmapRepository
	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		repo = store.NewRoadmapRepository(pg.DB)
		if err := repo.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("roadmap schema setup failed", zap.Error(err))
		}
		checks["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Rate limiter ---
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		window := config.GetDuration(cfg.RateLimit.Window)
		var limitStore ratelimit.Store = ratelimit.NewMemoryStore()

		if cfg.RateLimit.Store == "redis" {
			var rc *database.RedisClient
			err = retryWithBackoff(func() error {
				var err error
				rc, err = database.NewRedis(cfg.Database.Redis)
				if err != nil {
					return err
				}
				return rc.Ping(ctx)
			}, 10, 2*time.Second, zapLog, "Redis connection")
			if err != nil {
				zapLog.Fatal("redis failed after retries", zap.Error(err))
			}
			defer rc.Close()

			limitStore = ratelimit.NewRedisStore(rc.Client, cfg.RateLimit.KeyPrefix)
			checks["redis"] = rc.Ping
			zapLog.Info("Redis connected successfully")
		}
		limiter = ratelimit.NewLimiter(limitStore, window, log.WithFields(map[string]interface{}{"component": "ratelimit"}))
	}

	handlers := api.NewHandlers(cfg, sequencer, repo, log)

	aiDeadline := api.AIDeadline(sequencer)
	zapLog.Info("AI action deadline", zap.Duration("deadline", aiDeadline))

	router := api.NewRouter(api.Config{
		AllowedOrigin: cfg.Server.AllowedOrigin,
		RequireUserID: cfg.RateLimit.RequireUserID,
		ServiceName:   cfg.App.Name,
		AIDeadline:    aiDeadline,
	}, reg, limiter, obs, log)
	router.RegisterHandlers(handlers)

	// --- Optional Zeebe job transport ---
	var zeebe *camunda.Client
	var workers *camunda.Workers
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(cfg.Camunda)
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		checks["zeebe"] = zeebe.HealthCheck

		workers = camunda.NewWorkers(zeebe.Zeebe(), cfg.Camunda, log)
		for taskType, handle := range handlers.JobHandlers() {
			wcfg := config.GetWorkerConfig(cfg, taskType)
			// The job lock must outlast the handler or the broker hands the job out again.
			if lock := int(aiDeadline / time.Millisecond); wcfg.Timeout < lock {
				wcfg.Timeout = lock
			}
			workers.Start(taskType, wcfg, handle)
		}
		zapLog.Info("Zeebe workers registered", zap.Int("count", workers.Count()))
	}

	for name, check := range checks {
		router.AddReadinessCheck(name, check)
	}

	// The response must be writable for as long as an AI action may run.
	writeTimeout := config.GetDuration(cfg.Server.WriteTimeout)
	if aiDeadline > 0 && writeTimeout > 0 && writeTimeout < aiDeadline+5*time.Second {
		writeTimeout = aiDeadline + 5*time.Second
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: writeTimeout,
	}

	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if workers != nil {
		workers.Close()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("EduAI server stopped")
}
