package compliance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"covenant/pkg/domain"
	txcontext "covenant/pkg/platform/tx"
)

// PostgresStore implements Store on PostgreSQL. The requirement list is one
// JSONB document per ticker: requirements are always read and written as a
// whole record, so row-per-requirement storage would only add join cost.
// Trusted issuers keep their own rows because batch mutations replace them
// positionally, like asset identifiers.
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

func (s *PostgresStore) Compliance(ctx context.Context, ticker domain.Ticker) (AssetCompliance, error) {
	var (
		raw      []byte
		paused   bool
		latestID uint32
	)
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT requirements, paused, latest_id FROM asset_compliance WHERE ticker = $1`,
		ticker.String(),
	).Scan(&raw, &paused, &latestID)
	if errors.Is(err, sql.ErrNoRows) {
		return AssetCompliance{}, nil
	}
	if err != nil {
		return AssetCompliance{}, fmt.Errorf("query asset compliance: %w", err)
	}

	record := AssetCompliance{Paused: paused, LatestID: latestID}
	if err := json.Unmarshal(raw, &record.Requirements); err != nil {
		return AssetCompliance{}, fmt.Errorf("decode compliance requirements: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) PutCompliance(ctx context.Context, ticker domain.Ticker, record AssetCompliance) error {
	reqs := record.Requirements
	if reqs == nil {
		reqs = []ComplianceRequirement{}
	}
	encoded, err := json.Marshal(reqs)
	if err != nil {
		return fmt.Errorf("encode compliance requirements: %w", err)
	}

	// Sent as text so the JSONB column coerces it; lib/pq would ship a
	// []byte as bytea.
	_, err = s.execer(ctx).ExecContext(ctx,
		`INSERT INTO asset_compliance (ticker, requirements, paused, latest_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (ticker) DO UPDATE SET
			requirements = EXCLUDED.requirements,
			paused = EXCLUDED.paused,
			latest_id = EXCLUDED.latest_id`,
		ticker.String(), string(encoded), record.Paused, record.LatestID,
	)
	if err != nil {
		return fmt.Errorf("upsert asset compliance: %w", err)
	}
	return nil
}

func (s *PostgresStore) TrustedIssuers(ctx context.Context, ticker domain.Ticker) ([]domain.IdentityID, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT issuer FROM trusted_issuers WHERE ticker = $1 ORDER BY position`,
		ticker.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query trusted issuers: %w", err)
	}
	defer rows.Close()

	var issuers []domain.IdentityID
	for rows.Next() {
		var issuer uuid.UUID
		if err := rows.Scan(&issuer); err != nil {
			return nil, fmt.Errorf("scan trusted issuer: %w", err)
		}
		issuers = append(issuers, domain.IdentityID(issuer))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trusted issuers: %w", err)
	}
	return issuers, nil
}

func (s *PostgresStore) PutTrustedIssuers(ctx context.Context, ticker domain.Ticker, issuers []domain.IdentityID) error {
	execer := s.execer(ctx)
	if _, err := execer.ExecContext(ctx,
		`DELETE FROM trusted_issuers WHERE ticker = $1`,
		ticker.String(),
	); err != nil {
		return fmt.Errorf("clear trusted issuers: %w", err)
	}
	for i, issuer := range issuers {
		if _, err := execer.ExecContext(ctx,
			`INSERT INTO trusted_issuers (ticker, position, issuer) VALUES ($1, $2, $3)`,
			ticker.String(), i, uuid.UUID(issuer),
		); err != nil {
			return fmt.Errorf("insert trusted issuer: %w", err)
		}
	}
	return nil
}
