package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/domain/repository"
	"github.com/sf-parking-zones/internal/worker"
)

// ConsumerGroup reads pipeline run requests.
const ConsumerGroup = "parking-pipeline"

// RequestWorker выполняет запросы на запуск из Redis Stream
type RequestWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	runner       Runner
	consumerName string
}

// NewRequestWorker создает новый RequestWorker
func NewRequestWorker(streamRepo repository.StreamRepository, runner Runner, logger *zap.Logger) *RequestWorker {
	return &RequestWorker{
		BaseWorker:   worker.NewBaseWorker("pipeline-requests", logger),
		streamRepo:   streamRepo,
		runner:       runner,
		consumerName: worker.ConsumerName(),
	}
}

// Start consumes run requests one at a time. Every message is acked once
// handled, including failed runs and malformed messages, so a bad request is
// not replayed forever.
func (w *RequestWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting request worker",
		zap.String("stream", domain.StreamPipelineRequested),
		zap.String("consumer_group", ConsumerGroup),
		zap.String("consumer_name", w.consumerName))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamPipelineRequested, ConsumerGroup); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := w.streamRepo.ConsumeStream(consumeCtx, domain.StreamPipelineRequested, ConsumerGroup, w.consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Request worker stopped")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			w.handle(ctx, msg)
		}
	}
}

func (w *RequestWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))
	logger.Info("Pipeline run requested")

	report, err := w.runner.HandleRequest(ctx, msg.Data)
	if err != nil {
		logger.Error("Requested pipeline run failed", zap.Error(err))
	} else {
		logger.Info("Requested pipeline run completed",
			zap.String("version", report.Version),
			zap.Int("zones", report.Zones))
	}

	if err := w.streamRepo.AckMessage(ctx, domain.StreamPipelineRequested, ConsumerGroup, msg.ID); err != nil {
		logger.Warn("Failed to ack request", zap.Error(err))
	}
}
