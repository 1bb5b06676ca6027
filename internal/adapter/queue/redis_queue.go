// Package queue implements the background job queue on a Redis list.
// Producers LPUSH job envelopes; the worker BRPOPs them, so delivery is
// at-least-once and ordering is FIFO per queue key.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Envelope wraps a job name with its serialized payload.
type Envelope struct {
	Job  string          `json:"job"`
	Data json.RawMessage `json:"data"`
}

// RedisQueue is a Redis-list-backed job queue. It is safe for concurrent
// use; each producer call is a single LPUSH.
type RedisQueue struct {
	client *redis.Client
	key    string
	log    *zap.Logger
}

// NewRedisQueue creates a queue over the given Redis list key.
func NewRedisQueue(client *redis.Client, key string, log *zap.Logger) *RedisQueue {
	return &RedisQueue{client: client, key: key, log: log}
}

// Enqueue serializes the payload and pushes the job envelope. Success here
// is the producer's only guarantee; execution happens in the worker.
func (q *RedisQueue) Enqueue(ctx context.Context, job string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal job payload: %w", err)
	}

	envelope, err := json.Marshal(Envelope{Job: job, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal job envelope: %w", err)
	}

	if err := q.client.LPush(ctx, q.key, envelope).Err(); err != nil {
		q.log.Error("failed to enqueue job", zap.String("job", job), zap.Error(err))
		return fmt.Errorf("failed to enqueue job %s: %w", job, err)
	}

	q.log.Debug("job enqueued", zap.String("job", job))
	return nil
}

// Dequeue blocks up to timeout for the next job envelope.
// Returns nil without error when the timeout elapses with an empty queue.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Envelope, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	// BRPOP returns [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(res))
	}

	var envelope Envelope
	if err := json.Unmarshal([]byte(res[1]), &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job envelope: %w", err)
	}

	return &envelope, nil
}
