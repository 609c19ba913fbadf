package events

import (
	"context"

	"covenant/pkg/domain"
)

// Store persists events. The Postgres implementation writes the
// transactional outbox; the memory implementation backs unit tests.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByTicker(ctx context.Context, ticker domain.Ticker) ([]Event, error)
}

// OutboxRow is one unpublished outbox entry as the relay worker sees it.
type OutboxRow struct {
	ID      string
	Key     string
	Type    string
	Payload []byte
}

// Outbox is the relay-side view of the outbox table.
type Outbox interface {
	// NextBatch returns up to limit unpublished rows in insertion order.
	NextBatch(ctx context.Context, limit int) ([]OutboxRow, error)
	// MarkPublished stamps rows so they are never re-delivered by this relay.
	MarkPublished(ctx context.Context, ids []string) error
}
