// cmd/worker-manager/main.go
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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apihttp "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/api/http"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/app"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/camunda"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/config"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/database"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/observability"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/session"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
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
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s cancelled: %w", operationName, ctx.Err())
			}
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

	zapLog := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.Observability.ServiceName, observability.Options{
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Reference tables, strategy model, scoring engine ---
	rt, err := app.Build(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("runtime build failed", zap.Error(err))
	}
	defer rt.Close()

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(ctx, func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	store := session.NewStore(redis.Client, cfg.Session.TTLDuration())

	// --- Zeebe workers ---
	var workers []*camunda.CamundaWorker
	if cfg.Camunda.Enabled {
		client, err := camunda.Connect(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		}, log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer client.Close()
		zapLog.Info("Zeebe client connected successfully")

		workers, err = registerWorkers(client.GetClient(), cfg, rt, obs, log)
		if err != nil {
			zapLog.Fatal("worker registration failed", zap.Error(err))
		}
		zapLog.Info("Workers registered", zap.Int("count", len(workers)))
	} else {
		zapLog.Info("Camunda disabled, running the HTTP API only")
	}

	// --- HTTP API & metrics ---
	g, gctx := errgroup.WithContext(ctx)
	shutdownTimeout := config.GetDuration(cfg.HTTP.ShutdownTimeout)

	if cfg.HTTP.Enabled {
		api := apihttp.NewServer(apihttp.Dependencies{
			Store:          store,
			Engine:         rt.Engine,
			Catalog:        rt.Catalog,
			Observability:  obs,
			Logger:         log,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			RequestTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
		})
		srv := &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           api.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       config.GetDuration(cfg.HTTP.ReadTimeout),
			WriteTimeout:      config.GetDuration(cfg.HTTP.WriteTimeout),
		}
		g.Go(func() error { return serve(gctx, srv, shutdownTimeout, zapLog) })
	}

	if addr := cfg.Observability.MetricsAddress; addr != "" && addr != cfg.HTTP.Address {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"healthy"}`))
		})
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error { return serve(gctx, srv, shutdownTimeout, zapLog) })
	}

	// keep the group alive until a signal even when no listener is configured
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("server failed", zap.Error(err))
	}

	// --- Graceful Shutdown ---
	zapLog.Info("Shutdown signal received, stopping workers...")
	for _, w := range workers {
		w.Stop()
	}
	zapLog.Info("Worker manager stopped gracefully")
}

// serve runs srv until ctx is cancelled, then shuts it down within timeout.
func serve(ctx context.Context, srv *http.Server, timeout time.Duration, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s: %w", srv.Addr, err)
	}
	return nil
}
