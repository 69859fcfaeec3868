// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
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

	"pitch-workers/internal/common/camunda"
	"pitch-workers/internal/common/config"
	"pitch-workers/internal/common/database"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/common/pitchapi"
	"pitch-workers/internal/tracker"
	"pitch-workers/pkg/registry"

	gp "pitch-workers/internal/workers/pitch/generate-pitch"
	rf "pitch-workers/internal/workers/pitch/reconcile-financials"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if err := run(cfg, log); err != nil {
		zapLog.Fatal("worker manager failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	log.Info("Starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err := retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFromSettings(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		return err
	}
	defer zeebe.Close()
	if topology, err := zeebe.Topology(context.Background()); err == nil {
		log.Info("Zeebe client connected", map[string]interface{}{
			"gatewayVersion": topology.GetGatewayVersion(),
			"clusterSize":    topology.GetClusterSize(),
			"partitions":     topology.GetPartitionsCount(),
		})
	}

	// --- Redis job registry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(context.Background())
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		return err
	}
	defer redis.Close()
	jobRegistry := database.NewJobRegistry(redis, config.GetDuration(cfg.PitchService.JobRegistryTTL))

	// --- Pitch service ---
	api, err := pitchapi.NewClient(cfg.PitchService.BaseURL, config.GetDuration(cfg.PitchService.RequestTimeout), log)
	if err != nil {
		return err
	}

	// --- Workers ---
	gpConfig := gp.LoadConfig(cfg)
	pitchTracker := tracker.New(api, gpConfig.Tracker, log)
	if budget := cfg.PitchService.TrackingTimeout(); gpConfig.Timeout < budget {
		log.Warn("generate-pitch timeout is shorter than a full tracking session; long jobs resume on retry", map[string]interface{}{
			"workerTimeout":   gpConfig.Timeout.String(),
			"trackingTimeout": budget.String(),
		})
	}

	generate := gp.NewHandler(gpConfig, pitchTracker, jobRegistry, api, obs, log)
	reconcile := rf.NewHandler(rf.LoadConfig(cfg), obs, log)

	checkActivityRegistry(cfg, log, gp.TaskType, rf.TaskType)

	workers := []*camunda.CamundaWorker{
		camunda.StartWorker(zeebe.GetClient(), gp.TaskType, config.GetWorkerConfig(cfg, gp.TaskType), generate.Handle, log),
		camunda.StartWorker(zeebe.GetClient(), rf.TaskType, config.GetWorkerConfig(cfg, rf.TaskType), reconcile.Handle, log),
	}

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checks, ready := readiness(r.Context(), zeebe, redis, api)
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]interface{}{
			"ready":  ready,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: cfg.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutdown signal received, stopping workers...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		for _, w := range workers {
			w.Stop()
		}
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Worker manager stopped gracefully", nil)
	return nil
}

// checkActivityRegistry warns when a served task type is undocumented or its
// configured timeout disagrees with the registry. It never blocks startup.
func checkActivityRegistry(cfg *config.Config, log logger.Logger, taskTypes ...string) {
	reg, err := registry.LoadRegistry(cfg.App.ActivityRegistry)
	if err != nil {
		log.Warn("activity registry not loaded", map[string]interface{}{
			"path":  cfg.App.ActivityRegistry,
			"error": err.Error(),
		})
		return
	}

	for _, tt := range reg.Undocumented(taskTypes...) {
		log.Warn("task type missing from activity registry", map[string]interface{}{"taskType": tt})
	}
	for _, tt := range taskTypes {
		activity, ok := reg.Lookup(tt)
		if !ok {
			continue
		}
		documented, err := activity.TimeoutDuration()
		if err != nil {
			log.Warn("activity registry entry invalid", map[string]interface{}{"taskType": tt, "error": err.Error()})
			continue
		}
		configured := config.GetDuration(config.GetWorkerConfig(cfg, tt).Timeout)
		if documented > 0 && configured != documented {
			log.Warn("worker timeout differs from activity registry", map[string]interface{}{
				"taskType":   tt,
				"configured": configured.String(),
				"documented": documented.String(),
			})
		}
	}
}

func readiness(ctx context.Context, zeebe *camunda.Client, redis *database.RedisClient, api *pitchapi.Client) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	ready := true
	record := func(name string, err error) {
		if err != nil {
			checks[name] = err.Error()
			ready = false
			return
		}
		checks[name] = "ok"
	}

	record("zeebe", zeebe.HealthCheck(ctx))
	record("redis", redis.Ping(ctx))
	_, err := api.Health(ctx)
	record("pitch_service", err)

	return checks, ready
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
