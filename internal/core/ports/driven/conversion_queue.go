package driven

import (
	"context"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// TriggerOptions control how a conversion task is enqueued.
type TriggerOptions struct {
	// IdempotencyKey collapses repeated triggers of the same logical
	// job into one queued task. Deduplication happens in the queue
	// backend, not in the dispatcher.
	IdempotencyKey string

	// Tags are attached to the queued task for observability.
	Tags []string

	// Queue is the named queue the task is submitted to. Selection is
	// a function of the team's subscription tier.
	Queue string

	// ConcurrencyKey partitions execution slots so one team's backlog
	// cannot starve another team's conversions. Advisory, not a lock.
	ConcurrencyKey string
}

// ConversionQueue submits conversion tasks to the external queue and
// feeds the conversion worker.
type ConversionQueue interface {
	// Trigger enqueues a task. A task whose idempotency key was already
	// seen is dropped without error.
	Trigger(ctx context.Context, task *domain.ConversionTask, opts TriggerOptions) error

	// DequeueWithTimeout retrieves the next available task, waiting up
	// to timeout seconds. Returns nil, nil if none became available.
	DequeueWithTimeout(ctx context.Context, timeout int) (*domain.ConversionTask, error)

	// Ack acknowledges successful completion of a task.
	Ack(ctx context.Context, taskID string) error

	// Nack reports a failed attempt. The task is re-queued while it has
	// retries left, otherwise marked failed.
	Nack(ctx context.Context, taskID string, reason string) error

	// GetTask retrieves a task by ID (for status checking).
	GetTask(ctx context.Context, taskID string) (*domain.ConversionTask, error)

	// Ping checks if the queue backend is healthy.
	Ping(ctx context.Context) error

	// Close cleans up resources.
	Close() error
}
