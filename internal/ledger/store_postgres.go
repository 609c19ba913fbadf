package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"covenant/pkg/domain"
	txcontext "covenant/pkg/platform/tx"
)

// PostgresStore implements Store on PostgreSQL. Reads and writes observe the
// caller's transaction from context: a transfer commit touches the holder
// balances, both scope views, and the outbox in one sql.Tx.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Balance(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (domain.Balance, error) {
	var balance int64
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT balance FROM holder_balances WHERE ticker = $1 AND did = $2`,
		ticker.String(), uuid.UUID(did),
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query holder balance: %w", err)
	}
	return domain.Balance(balance), nil
}

func (s *PostgresStore) SetBalance(ctx context.Context, ticker domain.Ticker, did domain.IdentityID, balance domain.Balance) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO holder_balances (ticker, did, balance)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (ticker, did) DO UPDATE SET balance = EXCLUDED.balance`,
		ticker.String(), uuid.UUID(did), int64(balance),
	)
	if err != nil {
		return fmt.Errorf("upsert holder balance: %w", err)
	}
	return nil
}

func (s *PostgresStore) Scope(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (domain.ScopeID, bool, error) {
	var scope uuid.UUID
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT scope FROM scope_bindings WHERE ticker = $1 AND did = $2`,
		ticker.String(), uuid.UUID(did),
	).Scan(&scope)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ScopeID{}, false, nil
	}
	if err != nil {
		return domain.ScopeID{}, false, fmt.Errorf("query scope binding: %w", err)
	}
	return domain.ScopeID(scope), true, nil
}

func (s *PostgresStore) SetScope(ctx context.Context, ticker domain.Ticker, did domain.IdentityID, scope domain.ScopeID) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO scope_bindings (ticker, did, scope)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (ticker, did) DO UPDATE SET scope = EXCLUDED.scope`,
		ticker.String(), uuid.UUID(did), uuid.UUID(scope),
	)
	if err != nil {
		return fmt.Errorf("upsert scope binding: %w", err)
	}
	return nil
}

func (s *PostgresStore) AggregateBalance(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID) (domain.Balance, error) {
	var balance int64
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT balance FROM scope_aggregates WHERE ticker = $1 AND scope = $2`,
		ticker.String(), uuid.UUID(scope),
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query scope aggregate: %w", err)
	}
	return domain.Balance(balance), nil
}

func (s *PostgresStore) SetAggregateBalance(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID, balance domain.Balance) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO scope_aggregates (ticker, scope, balance)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (ticker, scope) DO UPDATE SET balance = EXCLUDED.balance`,
		ticker.String(), uuid.UUID(scope), int64(balance),
	)
	if err != nil {
		return fmt.Errorf("upsert scope aggregate: %w", err)
	}
	return nil
}

func (s *PostgresStore) BalanceAtScope(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID) (domain.Balance, error) {
	var balance int64
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT balance FROM scope_holder_balances WHERE ticker = $1 AND scope = $2 AND did = $3`,
		ticker.String(), uuid.UUID(scope), uuid.UUID(did),
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query scope holder balance: %w", err)
	}
	return domain.Balance(balance), nil
}

func (s *PostgresStore) SetBalanceAtScope(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID, balance domain.Balance) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO scope_holder_balances (ticker, scope, did, balance)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (ticker, scope, did) DO UPDATE SET balance = EXCLUDED.balance`,
		ticker.String(), uuid.UUID(scope), uuid.UUID(did), int64(balance),
	)
	if err != nil {
		return fmt.Errorf("upsert scope holder balance: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteBalanceAtScope(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM scope_holder_balances WHERE ticker = $1 AND scope = $2 AND did = $3`,
		ticker.String(), uuid.UUID(scope), uuid.UUID(did),
	)
	if err != nil {
		return fmt.Errorf("delete scope holder balance: %w", err)
	}
	return nil
}
