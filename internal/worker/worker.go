// Package worker runs the background job loop: it dequeues job envelopes
// and dispatches them to registered handlers by name.
package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/eniomcosta/gobarber/internal/adapter/queue"
)

// dequeueTimeout bounds each blocking pop so shutdown signals are observed
// promptly even on an idle queue.
const dequeueTimeout = 5 * time.Second

// Handler processes one job payload. Errors are logged by the loop; the
// queue delivers at-least-once and no local retry is performed.
type Handler interface {
	Name() string
	Handle(ctx context.Context, data []byte) error
}

// Consumer is the dequeue side of the job queue.
type Consumer interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Envelope, error)
}

// Worker consumes the job queue and dispatches to handlers.
type Worker struct {
	consumer Consumer
	handlers map[string]Handler
	log      *zap.Logger
}

// New creates a Worker with no handlers registered.
func New(consumer Consumer, log *zap.Logger) *Worker {
	return &Worker{
		consumer: consumer,
		handlers: make(map[string]Handler),
		log:      log,
	}
}

// Register adds a handler for its job name. Later registrations with the
// same name replace earlier ones.
func (w *Worker) Register(h Handler) {
	w.handlers[h.Name()] = h
}

// Run processes jobs until ctx is canceled. Unknown job names and handler
// failures are logged and the loop keeps going.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("worker started", zap.Int("handlers", len(w.handlers)))

	for {
		envelope, err := w.consumer.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				w.log.Info("worker stopped")
				return nil
			}
			w.log.Error("failed to dequeue job", zap.Error(err))
			// Back off briefly so a broken connection does not spin the loop
			time.Sleep(time.Second)
			continue
		}
		if envelope == nil {
			continue
		}

		handler, ok := w.handlers[envelope.Job]
		if !ok {
			w.log.Warn("no handler for job", zap.String("job", envelope.Job))
			continue
		}

		if err := handler.Handle(ctx, envelope.Data); err != nil {
			w.log.Error("job failed",
				zap.String("job", envelope.Job),
				zap.Error(err),
			)
			continue
		}

		w.log.Info("job processed", zap.String("job", envelope.Job))
	}
}
