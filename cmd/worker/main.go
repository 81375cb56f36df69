package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/app"
	"github.com/sf-parking-zones/internal/config"
	"github.com/sf-parking-zones/internal/pkg/logger"
	"github.com/sf-parking-zones/internal/worker"
	"github.com/sf-parking-zones/internal/worker/pipeline"
)

func main() {
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	// .env.local overrides .env for local runs
	_ = godotenv.Load(".env.local")

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		exitCode = 1
		return
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		return
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		exitCode = 1
		return
	}
	defer log.Sync()

	log.Info("Starting parking data worker")

	// 3. Shutdown on SIGINT/SIGTERM cancels ctx
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Wire repositories and use cases
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize", zap.Error(err))
		exitCode = 1
		return
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	schedule := pipeline.NewSchedule(cfg.Schedule, cfg.Location())
	log.Info("Configuration loaded",
		zap.Stringer("schedule", schedule),
		zap.Bool("run_on_start", cfg.Worker.RunOnStart),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.String("output_dir", cfg.Data.OutputDir),
		zap.String("preset", cfg.Simplification.Preset))

	// 5. Register workers and block until shutdown
	manager := worker.NewManager(log)
	manager.Register(pipeline.NewScheduledWorker(a.Pipeline, schedule, cfg.Worker.RunOnStart, log))
	if a.Streams != nil {
		manager.Register(pipeline.NewRequestWorker(a.Streams, a.Pipeline, log))
	} else {
		log.Info("Redis disabled, on-demand runs are not available")
	}

	if err := manager.Run(ctx); err != nil {
		log.Error("Worker stopped with errors", zap.Error(err))
		exitCode = 1
		return
	}

	log.Info("Worker shutdown complete")
}
