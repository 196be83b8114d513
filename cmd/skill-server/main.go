// cmd/skill-server/main.go
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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unit-converter-skill/internal/common/camunda"
	"unit-converter-skill/internal/common/config"
	"unit-converter-skill/internal/common/database"
	"unit-converter-skill/internal/common/logger"
	"unit-converter-skill/internal/common/observability"
	"unit-converter-skill/internal/common/validation"
	"unit-converter-skill/internal/skill"
	"unit-converter-skill/internal/transport/httpapi"

	vsd "unit-converter-skill/internal/workers/skill/voice-skill-dispatch"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
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
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting skill server",
		zap.String("version", Version),
		zap.String("buildTime", BuildTime),
		zap.String("environment", cfg.App.Environment),
	)

	gin.SetMode(cfg.Server.GinMode)

	obsOpts := []observability.Option{observability.WithSampleRatio(cfg.Observability.SampleRatio)}
	if cfg.Observability.JaegerEndpoint != "" {
		obsOpts = append(obsOpts, observability.WithJaegerEndpoint(cfg.Observability.JaegerEndpoint))
	}
	obs := observability.New(cfg.Observability.ServiceName, log, obsOpts...)

	ctx := context.Background()
	dispatcher := skill.New(skill.Dependencies{Logger: log, Observability: obs})
	checks := map[string]httpapi.ReadinessCheck{}

	var validator *validation.EnvelopeValidator
	if cfg.Skill.ValidateEnvelope {
		validator, err = validation.NewEnvelopeValidator()
		if err != nil {
			zapLog.Fatal("envelope schema failed to compile", zap.Error(err))
		}
	}

	// --- Replay guard ---
	var guard httpapi.ReplayGuard
	var redis *database.RedisClient
	if cfg.ReplayGuard.Enabled {
		redis = database.NewRedis(cfg.ReplayGuard.Redis)
		err = retryWithBackoff(func() error {
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()

		guard = httpapi.NewRedisReplayGuard(redis, config.GetDuration(cfg.ReplayGuard.TTL))
		checks["redis"] = redis.Ping
		zapLog.Info("replay guard enabled", zap.String("redis", cfg.ReplayGuard.Redis.Address))
	}

	// --- Workflow job worker ---
	var jobHandler *vsd.Handler
	var zeebe *camunda.Client
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.NewClientWithConfig(ctx, camunda.ConfigFromApp(cfg.Camunda))
		if err != nil {
			zapLog.Fatal("zeebe client failed", zap.Error(err))
		}
		defer zeebe.Close()

		jobHandler, err = vsd.NewHandler(vsd.HandlerOptions{
			AppConfig:  cfg,
			Camunda:    zeebe,
			Dispatcher: dispatcher,
			Validator:  validator,
			Logger:     log,
		})
		if err != nil {
			zapLog.Fatal("job handler setup failed", zap.Error(err))
		}

		if jobHandler.IsEnabled() {
			if err := jobHandler.Register(); err != nil {
				zapLog.Fatal("job worker registration failed", zap.Error(err))
			}
			checks["zeebe"] = jobHandler.HealthCheck
			zapLog.Info("job worker registered", zap.String("taskType", jobHandler.GetTaskType()))
		} else {
			zapLog.Info("worker disabled", zap.String("taskType", jobHandler.GetTaskType()))
		}
	}

	// --- HTTP server ---
	skillHandler := httpapi.NewSkillHandler(cfg.Server, cfg.Skill, dispatcher, validator, guard, log)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		ServiceName: cfg.App.Name,
		Version:     Version,
		SkillPath:   cfg.Server.SkillPath,
		Skill:       skillHandler,
		Checks:      checks,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("skill endpoint listening",
			zap.String("address", srv.Addr),
			zap.String("path", cfg.Server.SkillPath),
			zap.Strings("handlers", dispatcher.Handlers()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	if jobHandler != nil {
		jobHandler.Close()
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("observability shutdown failed", zap.Error(err))
	}

	zapLog.Info("skill server stopped")
}
