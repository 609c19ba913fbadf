package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"covenant/pkg/requestcontext"
)

// Publisher emits domain events with fail-closed semantics. All writes are
// synchronous: the caller blocks until the outbox write succeeds, and on
// failure the calling operation MUST fail. When the store write shares the
// caller's transaction (pkg/platform/tx), a rolled-back mutation never
// leaks its events.
type Publisher struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// NewPublisher creates a fail-closed publisher over the given store.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit synchronously appends the event. Returns an error if persistence
// fails; the caller must then fail its operation.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	start := time.Now()

	if event.Type == "" {
		return fmt.Errorf("event requires Type")
	}
	if event.Ticker.Len() == 0 {
		return fmt.Errorf("event requires Ticker")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.IncrementPersistFailures()
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: event persistence failed",
				"type", event.Type,
				"ticker", event.Ticker,
				"error", err,
			)
		}
		return fmt.Errorf("event persistence failed: %w", err)
	}

	p.metrics.ObservePersistLatency(time.Since(start))
	p.metrics.IncrementEmitted(event.Type)
	return nil
}
