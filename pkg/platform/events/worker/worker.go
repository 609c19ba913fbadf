// Package worker relays committed outbox rows to Kafka. It is the only
// component that marks rows published, so delivery is at-least-once and
// per-ticker ordering follows outbox insertion order.
package worker

import (
	"context"
	"log/slog"
	"time"

	"covenant/pkg/platform/events"
	txcontext "covenant/pkg/platform/tx"
)

// Sink receives relayed envelopes. The Kafka producer implements it; tests
// substitute an in-memory collector.
type Sink interface {
	Publish(ctx context.Context, key string, value []byte) error
}

const (
	defaultInterval  = 500 * time.Millisecond
	defaultBatchSize = 100
)

// Worker drains the outbox on an interval. Each batch is read, published,
// and marked inside one transaction so a crash re-delivers rather than drops.
type Worker struct {
	runner    txcontext.Runner
	outbox    events.Outbox
	sink      Sink
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// Option configures the Worker.
type Option func(*Worker)

// WithInterval overrides the polling interval.
func WithInterval(d time.Duration) Option {
	return func(w *Worker) { w.interval = d }
}

// WithBatchSize overrides the per-transaction row limit.
func WithBatchSize(n int) Option {
	return func(w *Worker) { w.batchSize = n }
}

// NewWorker builds a relay worker.
func NewWorker(runner txcontext.Runner, outbox events.Outbox, sink Sink, logger *slog.Logger, opts ...Option) *Worker {
	w := &Worker{
		runner:    runner,
		outbox:    outbox,
		sink:      sink,
		logger:    logger,
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until the context is cancelled. Relay errors are logged and
// retried on the next tick; they never stop the worker.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

// drain relays batches until the outbox has no unpublished rows left.
func (w *Worker) drain(ctx context.Context) error {
	for {
		relayed, err := w.relayBatch(ctx)
		if err != nil {
			return err
		}
		if relayed == 0 {
			return nil
		}
	}
}

func (w *Worker) relayBatch(ctx context.Context) (int, error) {
	var relayed int
	err := w.runner.RunInTx(ctx, func(ctx context.Context) error {
		batch, err := w.outbox.NextBatch(ctx, w.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		ids := make([]string, 0, len(batch))
		for _, row := range batch {
			if err := w.sink.Publish(ctx, row.Key, row.Payload); err != nil {
				return err
			}
			ids = append(ids, row.ID)
		}
		if err := w.outbox.MarkPublished(ctx, ids); err != nil {
			return err
		}
		relayed = len(batch)
		return nil
	})
	return relayed, err
}
