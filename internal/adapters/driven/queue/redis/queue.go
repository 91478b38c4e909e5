package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

const (
	// Stream name prefix; one stream per named queue
	queueStreamPrefix = "folio:queue:"
	taskGroup         = "folio:workers"

	// Key prefixes
	taskKeyPrefix = "folio:task:"
	idemKeyPrefix = "folio:idem:"
	concKeyPrefix = "folio:conc:"

	// Default consumer name prefix
	consumerPrefix = "converter-"

	// idemTTL bounds how long an idempotency key suppresses duplicates
	idemTTL = 24 * time.Hour

	// concTTL keeps a crashed worker from pinning a team's slots forever
	concTTL = 10 * time.Minute
)

// Verify interface compliance
var _ driven.ConversionQueue = (*Queue)(nil)

// Queue implements ConversionQueue using Redis Streams. Duplicate
// triggers collapse on the idempotency key (SETNX), and a per-key
// counter provides advisory concurrency accounting so one team's burst
// cannot starve another team's conversions.
type Queue struct {
	client       *redis.Client
	consumerName string
	queues       []string
	maxPerKey    int64
}

// QueueConfig holds configuration for the queue.
type QueueConfig struct {
	Client *redis.Client

	// ConsumerName should be unique per worker instance.
	ConsumerName string

	// Queues are the named queues this instance serves.
	Queues []string

	// MaxPerKey is the advisory in-flight limit per concurrency key.
	// Zero means unlimited.
	MaxPerKey int
}

// NewQueue creates a new Redis-backed conversion queue.
func NewQueue(cfg QueueConfig) (*Queue, error) {
	if cfg.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if len(cfg.Queues) == 0 {
		return nil, errors.New("at least one queue name is required")
	}
	consumerName := cfg.ConsumerName
	if consumerName == "" {
		consumerName = fmt.Sprintf("%s%d", consumerPrefix, time.Now().UnixNano())
	}

	q := &Queue{
		client:       cfg.Client,
		consumerName: consumerName,
		queues:       cfg.Queues,
		maxPerKey:    int64(cfg.MaxPerKey),
	}

	// Create consumer groups if they don't exist
	ctx := context.Background()
	for _, name := range cfg.Queues {
		err := q.client.XGroupCreateMkStream(ctx, queueStreamPrefix+name, taskGroup, "0").Err()
		if err != nil && !isGroupExistsError(err) {
			return nil, fmt.Errorf("failed to create consumer group for %s: %w", name, err)
		}
	}

	return q, nil
}

// queuedTask is the stored envelope: the task plus the options it was
// triggered with, so ack/nack can find its queue and concurrency key.
type queuedTask struct {
	Task    *domain.ConversionTask `json:"task"`
	Options driven.TriggerOptions  `json:"options"`
}

// messageRef locates the in-flight stream entry for an ack/nack.
type messageRef struct {
	Stream         string `json:"stream"`
	MessageID      string `json:"message_id"`
	ConcurrencyKey string `json:"concurrency_key"`
}

// Trigger enqueues a task. A task whose idempotency key was already
// seen is dropped without error: the queue, not the dispatcher, owns
// deduplication.
func (q *Queue) Trigger(ctx context.Context, task *domain.ConversionTask, opts driven.TriggerOptions) error {
	if task == nil {
		return errors.New("task is required")
	}
	if opts.IdempotencyKey == "" {
		return errors.New("idempotency key is required")
	}
	if opts.Queue == "" {
		return errors.New("queue name is required")
	}

	fresh, err := q.client.SetNX(ctx, idemKeyPrefix+opts.IdempotencyKey, task.ID, idemTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if !fresh {
		// Logically-equivalent job already enqueued.
		return nil
	}

	data, err := json.Marshal(queuedTask{Task: task, Options: opts})
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Set(ctx, taskKeyPrefix+task.ID, data, idemTTL)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: queueStreamPrefix + opts.Queue,
		Values: map[string]interface{}{
			"task_id":         task.ID,
			"kind":            string(task.Kind),
			"team_id":         task.TeamID,
			"concurrency_key": opts.ConcurrencyKey,
			"tags":            strings.Join(opts.Tags, ","),
		},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// DequeueWithTimeout retrieves the next available task, waiting up to
// timeout seconds. Returns nil, nil when nothing became available or
// when the next entry's team is at its advisory concurrency limit.
func (q *Queue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.ConversionTask, error) {
	streams := make([]string, 0, len(q.queues)*2)
	for _, name := range q.queues {
		streams = append(streams, queueStreamPrefix+name)
	}
	for range q.queues {
		streams = append(streams, ">")
	}

	blockDuration := time.Duration(timeout) * time.Second

	res, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    taskGroup,
		Consumer: q.consumerName,
		Streams:  streams,
		Count:    1,
		Block:    blockDuration,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}
	if len(res) == 0 || len(res[0].Messages) == 0 {
		return nil, nil
	}

	stream := res[0].Stream
	msg := res[0].Messages[0]
	taskID, _ := msg.Values["task_id"].(string)
	concurrencyKey, _ := msg.Values["concurrency_key"].(string)
	if taskID == "" {
		// Invalid message, acknowledge and skip
		q.client.XAck(ctx, stream, taskGroup, msg.ID)
		return nil, nil
	}

	if concurrencyKey != "" && q.maxPerKey > 0 {
		if ok, err := q.claimSlot(ctx, concurrencyKey); err != nil {
			return nil, err
		} else if !ok {
			// Team is at its limit; put the entry back and let another
			// key's work through.
			return nil, q.requeueMessage(ctx, stream, msg)
		}
	}

	stored, err := q.loadEnvelope(ctx, taskID)
	if err != nil || stored == nil {
		q.releaseSlot(ctx, concurrencyKey)
		q.client.XAck(ctx, stream, taskGroup, msg.ID)
		return nil, err
	}

	task := stored.Task
	task.MarkProcessing()
	q.saveEnvelope(ctx, stored)

	ref, _ := json.Marshal(messageRef{Stream: stream, MessageID: msg.ID, ConcurrencyKey: concurrencyKey})
	q.client.Set(ctx, taskKeyPrefix+taskID+":msg", ref, idemTTL)

	return task, nil
}

// Ack acknowledges successful completion of a task.
func (q *Queue) Ack(ctx context.Context, taskID string) error {
	ref, err := q.loadMessageRef(ctx, taskID)
	if err != nil {
		return err
	}

	pipe := q.client.Pipeline()
	if ref != nil {
		pipe.XAck(ctx, ref.Stream, taskGroup, ref.MessageID)
		pipe.XDel(ctx, ref.Stream, ref.MessageID)
	}
	pipe.Del(ctx, taskKeyPrefix+taskID+":msg")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to ack task: %w", err)
	}

	if ref != nil {
		q.releaseSlot(ctx, ref.ConcurrencyKey)
	}

	if stored, err := q.loadEnvelope(ctx, taskID); err == nil && stored != nil {
		stored.Task.MarkCompleted()
		q.saveEnvelope(ctx, stored)
	}
	return nil
}

// Nack reports a failed attempt. The task is re-queued while it has
// retries left, otherwise marked failed.
func (q *Queue) Nack(ctx context.Context, taskID string, reason string) error {
	stored, err := q.loadEnvelope(ctx, taskID)
	if err != nil {
		return err
	}
	if stored == nil {
		return errors.New("task not found")
	}

	ref, err := q.loadMessageRef(ctx, taskID)
	if err != nil {
		return err
	}

	pipe := q.client.Pipeline()
	if ref != nil {
		pipe.XAck(ctx, ref.Stream, taskGroup, ref.MessageID)
		pipe.XDel(ctx, ref.Stream, ref.MessageID)
	}
	pipe.Del(ctx, taskKeyPrefix+taskID+":msg")

	task := stored.Task
	if task.CanRetry() {
		task.Retry(reason)
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: queueStreamPrefix + stored.Options.Queue,
			Values: map[string]interface{}{
				"task_id":         task.ID,
				"kind":            string(task.Kind),
				"team_id":         task.TeamID,
				"concurrency_key": stored.Options.ConcurrencyKey,
				"tags":            strings.Join(stored.Options.Tags, ","),
			},
		})
	} else {
		task.MarkFailed(reason)
	}

	data, _ := json.Marshal(stored)
	pipe.Set(ctx, taskKeyPrefix+taskID, data, idemTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to nack task: %w", err)
	}

	if ref != nil {
		q.releaseSlot(ctx, ref.ConcurrencyKey)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (q *Queue) GetTask(ctx context.Context, taskID string) (*domain.ConversionTask, error) {
	stored, err := q.loadEnvelope(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.ErrNotFound
	}
	return stored.Task, nil
}

// Ping checks if the queue backend is healthy.
func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Close cleans up resources. The shared client is owned by the caller.
func (q *Queue) Close() error {
	return nil
}

// claimSlot increments the advisory in-flight counter for a key.
func (q *Queue) claimSlot(ctx context.Context, key string) (bool, error) {
	n, err := q.client.Incr(ctx, concKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim concurrency slot: %w", err)
	}
	q.client.Expire(ctx, concKeyPrefix+key, concTTL)
	if n > q.maxPerKey {
		q.releaseSlot(ctx, key)
		return false, nil
	}
	return true, nil
}

// releaseSlot decrements the advisory in-flight counter for a key.
func (q *Queue) releaseSlot(ctx context.Context, key string) {
	if key == "" {
		return
	}
	q.client.Decr(ctx, concKeyPrefix+key)
}

// requeueMessage re-adds a claimed entry to its stream and acknowledges
// the original copy.
func (q *Queue) requeueMessage(ctx context.Context, stream string, msg redis.XMessage) error {
	pipe := q.client.Pipeline()
	pipe.XAck(ctx, stream, taskGroup, msg.ID)
	pipe.XDel(ctx, stream, msg.ID)
	pipe.XAdd(ctx, &redis.XAddArgs{Stream: stream, Values: msg.Values})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to requeue task: %w", err)
	}
	return nil
}

func (q *Queue) loadEnvelope(ctx context.Context, taskID string) (*queuedTask, error) {
	data, err := q.client.Get(ctx, taskKeyPrefix+taskID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task data: %w", err)
	}
	var stored queuedTask
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &stored, nil
}

func (q *Queue) saveEnvelope(ctx context.Context, stored *queuedTask) {
	data, err := json.Marshal(stored)
	if err != nil {
		return
	}
	q.client.Set(ctx, taskKeyPrefix+stored.Task.ID, data, idemTTL)
}

func (q *Queue) loadMessageRef(ctx context.Context, taskID string) (*messageRef, error) {
	data, err := q.client.Get(ctx, taskKeyPrefix+taskID+":msg").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message ref: %w", err)
	}
	var ref messageRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message ref: %w", err)
	}
	return &ref, nil
}

func isGroupExistsError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "BUSYGROUP")
}
