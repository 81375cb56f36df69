// Package pipeline runs the data pipeline on a schedule and on request.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/usecase/dto"
	"github.com/sf-parking-zones/internal/worker"
)

// Runner executes pipeline runs.
type Runner interface {
	Run(ctx context.Context, req dto.PipelineRunRequest) (*dto.RunReport, error)
	HandleRequest(ctx context.Context, data string) (*dto.RunReport, error)
}

// ScheduledWorker запускает пайплайн по расписанию
type ScheduledWorker struct {
	*worker.BaseWorker
	runner     Runner
	schedule   Schedule
	runOnStart bool
	now        func() time.Time
}

// NewScheduledWorker создает новый ScheduledWorker
func NewScheduledWorker(runner Runner, schedule Schedule, runOnStart bool, logger *zap.Logger) *ScheduledWorker {
	return &ScheduledWorker{
		BaseWorker: worker.NewBaseWorker("pipeline-scheduler", logger),
		runner:     runner,
		schedule:   schedule,
		runOnStart: runOnStart,
		now:        time.Now,
	}
}

// Start runs the pipeline at every scheduled time until stopped.
func (w *ScheduledWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Scheduler started", zap.Stringer("schedule", w.schedule))

	if w.runOnStart {
		w.run(ctx, "startup")
	}

	for {
		next := w.schedule.Next(w.now())
		logger.Info("Next pipeline run", zap.Time("at", next))

		if !w.Sleep(ctx, time.Until(next)) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Info("Scheduler stopped")
			return nil
		}
		w.run(ctx, "schedule")
	}
}

func (w *ScheduledWorker) run(ctx context.Context, reason string) {
	logger := w.Logger()
	report, err := w.runner.Run(ctx, dto.PipelineRunRequest{Reason: reason})
	if err != nil {
		logger.Error("Scheduled pipeline run failed", zap.String("reason", reason), zap.Error(err))
		return
	}
	logger.Info("Scheduled pipeline run completed",
		zap.String("version", report.Version),
		zap.Int("zones", report.Zones),
		zap.Duration("duration", report.Duration))
}
