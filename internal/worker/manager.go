package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// shutdownTimeout - сколько ждать воркеры после Stop; идущий прогон
// пайплайна отменяется через контекст
const shutdownTimeout = 30 * time.Second

// Worker - долгоживущая задача под управлением Manager
type Worker interface {
	// Start блокирует до остановки или отмены ctx
	Start(ctx context.Context) error
	Stop() error
	Name() string
}

// Manager запускает воркеры и собирает тех, кто упал
type Manager struct {
	workers []Worker
	logger  *zap.Logger
	wg      sync.WaitGroup
	mu      sync.Mutex
	failed  []string
}

// NewManager создает пустой Manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Register добавляет воркер; вызывать до Start
func (m *Manager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

func (m *Manager) snapshot() []Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Worker(nil), m.workers...)
}

// Start запускает каждый воркер в своей горутине и сразу возвращается.
// Ошибка воркера после отмены ctx не считается падением.
func (m *Manager) Start(ctx context.Context) error {
	workers := m.snapshot()
	if len(workers) == 0 {
		return fmt.Errorf("no workers registered")
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		m.wg.Add(1)
		go func(w Worker) {
			defer m.wg.Done()

			err := w.Start(ctx)
			if err == nil || ctx.Err() != nil {
				m.logger.Info("Worker finished", zap.String("name", w.Name()))
				return
			}
			m.logger.Error("Worker failed", zap.String("name", w.Name()), zap.Error(err))
			m.mu.Lock()
			m.failed = append(m.failed, w.Name())
			m.mu.Unlock()
		}(w)
	}

	return nil
}

// Run запускает воркеры и ждет либо отмены ctx, либо завершения всех
// воркеров. Возвращает ошибку, если кто-то упал или остановка не уложилась
// в таймаут.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		m.logger.Info("Shutdown requested")
		if err := m.Stop(); err != nil {
			return err
		}
	case <-m.done():
	}

	if failed := m.Failed(); len(failed) > 0 {
		return fmt.Errorf("workers failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

func (m *Manager) done() <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(ch)
	}()
	return ch
}

// Wait блокирует, пока все воркеры не вернутся
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Failed - имена воркеров, вернувших ошибку
func (m *Manager) Failed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.failed...)
}

// Stop сигнализирует всем воркерам и ждет их не дольше shutdownTimeout
func (m *Manager) Stop() error {
	workers := m.snapshot()
	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker", zap.String("name", w.Name()), zap.Error(err))
		}
	}

	select {
	case <-m.done():
		m.logger.Info("All workers stopped")
		return nil
	case <-time.After(shutdownTimeout):
		return fmt.Errorf("workers shutdown timed out after %v", shutdownTimeout)
	}
}
