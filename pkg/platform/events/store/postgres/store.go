package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"covenant/pkg/domain"
	"covenant/pkg/platform/events"
	txcontext "covenant/pkg/platform/tx"
)

// Store implements events.Store using the transactional outbox pattern.
// Events are written to the outbox table in the caller's transaction and
// published to Kafka by the relay worker. Kafka is the downstream source of
// truth; the outbox row is retained for replay until marked published.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL event store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// envelope is the JSON structure written to the outbox payload column and
// published to Kafka verbatim.
type envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Ticker    string          `json:"ticker"`
	Actor     string          `json:"actor,omitempty"`
	Timestamp string          `json:"timestamp"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Append writes a domain event to the outbox table for Kafka publishing.
func (s *Store) Append(ctx context.Context, event events.Event) error {
	var payloadJSON json.RawMessage
	if event.Payload != nil {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("marshal event payload: %w", err)
		}
		payloadJSON = raw
	}

	env := envelope{
		ID:        event.ID.String(),
		Type:      string(event.Type),
		Ticker:    event.Ticker.String(),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		RequestID: event.RequestID,
		Payload:   payloadJSON,
	}
	if !event.Actor.IsZero() {
		env.Actor = event.Actor.String()
	}

	envBytes, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	// The envelope goes over the wire as text so the JSONB column coerces it;
	// lib/pq would ship a []byte as bytea.
	_, err = s.execer(ctx).ExecContext(ctx, query,
		event.ID,
		"asset",
		event.Ticker.String(),
		string(event.Type),
		string(envBytes),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// ListByTicker returns the ticker's events in insertion order, rehydrated
// from outbox envelopes.
func (s *Store) ListByTicker(ctx context.Context, ticker domain.Ticker) ([]events.Event, error) {
	query := `
		SELECT payload
		FROM outbox
		WHERE aggregate_type = 'asset' AND aggregate_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, ticker.String())
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var result []events.Event
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan outbox payload: %w", err)
		}
		event, err := decodeEnvelope(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return result, nil
}

func decodeEnvelope(raw []byte) (events.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return events.Event{}, fmt.Errorf("unmarshal event envelope: %w", err)
	}
	event := events.Event{
		Type:      events.EventType(env.Type),
		Ticker:    domain.Ticker(env.Ticker),
		RequestID: env.RequestID,
	}
	if id, err := domain.ParseIdentityID(env.Actor); err == nil {
		event.Actor = id
	}
	if ts, err := time.Parse(time.RFC3339Nano, env.Timestamp); err == nil {
		event.Timestamp = ts
	}
	if len(env.Payload) > 0 {
		event.Payload = env.Payload
	}
	return event, nil
}

// NextBatch returns up to limit unpublished outbox rows in insertion order.
// Rows are locked against competing relays for the transaction's duration.
func (s *Store) NextBatch(ctx context.Context, limit int) ([]events.OutboxRow, error) {
	query := `
		SELECT id, aggregate_id, event_type, payload
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox batch: %w", err)
	}
	defer rows.Close()

	var batch []events.OutboxRow
	for rows.Next() {
		var row events.OutboxRow
		if err := rows.Scan(&row.ID, &row.Key, &row.Type, &row.Payload); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		batch = append(batch, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox batch: %w", err)
	}
	return batch, nil
}

// MarkPublished stamps rows as delivered.
func (s *Store) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE outbox SET published_at = $1 WHERE id = ANY($2)`
	if _, err := s.execer(ctx).ExecContext(ctx, query, time.Now(), pq.Array(ids)); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
