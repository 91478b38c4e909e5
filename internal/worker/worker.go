package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

// Worker processes conversion tasks from the queue. It runs the
// converter for each task and publishes progress for UI polling.
type Worker struct {
	queue     driven.ConversionQueue
	converter driven.Converter
	progress  driven.ProgressStore
	logger    *slog.Logger

	// Configuration
	concurrency    int
	dequeueTimeout int // seconds

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WorkerConfig holds configuration for the worker.
type WorkerConfig struct {
	Queue          driven.ConversionQueue
	Converter      driven.Converter
	Progress       driven.ProgressStore
	Logger         *slog.Logger
	Concurrency    int // Number of concurrent task processors
	DequeueTimeout int // Seconds to wait for a task before checking again
}

// NewWorker creates a new conversion worker.
func NewWorker(cfg WorkerConfig) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	dequeueTimeout := cfg.DequeueTimeout
	if dequeueTimeout <= 0 {
		dequeueTimeout = 5
	}

	return &Worker{
		queue:          cfg.Queue,
		converter:      cfg.Converter,
		progress:       cfg.Progress,
		logger:         logger,
		concurrency:    concurrency,
		dequeueTimeout: dequeueTimeout,
	}
}

// Start begins the worker loop.
// It runs until Stop is called or context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("worker starting",
		"concurrency", w.concurrency,
		"dequeue_timeout", w.dequeueTimeout,
	)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(w.doneCh)
	}()

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

// Wait blocks until the worker stops.
func (w *Worker) Wait() {
	<-w.doneCh
}

// processLoop is the main processing loop for a worker goroutine.
func (w *Worker) processLoop(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)
	logger.Info("worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		case <-w.stopCh:
			logger.Info("worker stop signal received")
			return
		default:
		}

		task, err := w.queue.DequeueWithTimeout(ctx, w.dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error("failed to dequeue task", "error", err)
			time.Sleep(time.Second) // Back off on error
			continue
		}

		if task == nil {
			// No task available, continue
			continue
		}

		w.processTask(ctx, task, logger)
	}
}

// processTask runs the converter for a single task, reporting progress
// along the way. Progress-store failures never fail the task itself.
func (w *Worker) processTask(ctx context.Context, task *domain.ConversionTask, logger *slog.Logger) {
	logger = logger.With(
		"task_id", task.ID,
		"task_kind", task.Kind,
		"team_id", task.TeamID,
		"document_version_id", task.DocumentVersionID,
	)
	logger.Info("processing task")

	startTime := time.Now()

	w.reportProgress(ctx, task, domain.ConversionStatusProcessing, 10, logger)

	err := w.converter.Convert(ctx, task, func(percentage int) {
		w.reportProgress(ctx, task, domain.ConversionStatusProcessing, percentage, logger)
	})

	duration := time.Since(startTime)

	if err != nil {
		logger.Error("task failed",
			"duration", duration,
			"error", err,
		)

		if !task.CanRetry() {
			w.reportProgress(ctx, task, domain.ConversionStatusFailed, 0, logger)
		}

		// Nack the task so it can be retried
		if nackErr := w.queue.Nack(ctx, task.ID, err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}

	w.reportProgress(ctx, task, domain.ConversionStatusDone, 100, logger)

	logger.Info("task completed", "duration", duration)

	if ackErr := w.queue.Ack(ctx, task.ID); ackErr != nil {
		logger.Error("failed to ack task", "ack_error", ackErr)
	}
}

// reportProgress updates the polled progress record.
func (w *Worker) reportProgress(ctx context.Context, task *domain.ConversionTask, status domain.ConversionStatus, percentage int, logger *slog.Logger) {
	if w.progress == nil {
		return
	}
	err := w.progress.Set(ctx, task.DocumentVersionID, &domain.ConversionProgress{
		Status:     status,
		Percentage: percentage,
	})
	if err != nil {
		logger.Warn("failed to update progress", "error", err)
	}
}

// Health returns health status of the worker.
type Health struct {
	Running     bool   `json:"running"`
	QueueHealth bool   `json:"queue_health"`
	Error       string `json:"error,omitempty"`
}

// Health returns the health status of the worker.
func (w *Worker) Health(ctx context.Context) Health {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	health := Health{
		Running: running,
	}

	if err := w.queue.Ping(ctx); err != nil {
		health.QueueHealth = false
		health.Error = err.Error()
	} else {
		health.QueueHealth = true
	}

	return health
}
