package asset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"covenant/pkg/domain"
	"covenant/pkg/platform/sentinel"
	txcontext "covenant/pkg/platform/tx"
)

// PostgresStore implements Store on PostgreSQL. Writes observe the caller's
// transaction from context so registry mutations, ledger writes, and outbox
// rows commit together.
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

func (s *PostgresStore) Registration(ctx context.Context, ticker domain.Ticker) (TickerRegistration, error) {
	var (
		owner  uuid.UUID
		expiry sql.NullTime
	)
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT owner_did, expiry FROM ticker_registrations WHERE ticker = $1`,
		ticker.String(),
	).Scan(&owner, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return TickerRegistration{}, sentinel.ErrNotFound
	}
	if err != nil {
		return TickerRegistration{}, fmt.Errorf("query ticker registration: %w", err)
	}

	reg := TickerRegistration{Owner: domain.IdentityID(owner)}
	if expiry.Valid {
		t := expiry.Time
		reg.Expiry = &t
	}
	return reg, nil
}

func (s *PostgresStore) PutRegistration(ctx context.Context, ticker domain.Ticker, reg TickerRegistration) error {
	var expiry *time.Time
	if reg.Expiry != nil {
		t := reg.Expiry.UTC()
		expiry = &t
	}
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO ticker_registrations (ticker, owner_did, expiry)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (ticker) DO UPDATE SET owner_did = EXCLUDED.owner_did, expiry = EXCLUDED.expiry`,
		ticker.String(), uuid.UUID(reg.Owner), expiry,
	)
	if err != nil {
		return fmt.Errorf("upsert ticker registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) Relation(ctx context.Context, did domain.IdentityID, ticker domain.Ticker) (OwnershipRelation, error) {
	var rel string
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT relation FROM ownership_relations WHERE did = $1 AND ticker = $2`,
		uuid.UUID(did), ticker.String(),
	).Scan(&rel)
	if errors.Is(err, sql.ErrNoRows) {
		return RelationNotOwned, nil
	}
	if err != nil {
		return RelationNotOwned, fmt.Errorf("query ownership relation: %w", err)
	}
	return OwnershipRelation(rel), nil
}

func (s *PostgresStore) PutRelation(ctx context.Context, did domain.IdentityID, ticker domain.Ticker, rel OwnershipRelation) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO ownership_relations (did, ticker, relation)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (did, ticker) DO UPDATE SET relation = EXCLUDED.relation`,
		uuid.UUID(did), ticker.String(), string(rel),
	)
	if err != nil {
		return fmt.Errorf("upsert ownership relation: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteRelation(ctx context.Context, did domain.IdentityID, ticker domain.Ticker) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM ownership_relations WHERE did = $1 AND ticker = $2`,
		uuid.UUID(did), ticker.String(),
	)
	if err != nil {
		return fmt.Errorf("delete ownership relation: %w", err)
	}
	return nil
}

func (s *PostgresStore) Token(ctx context.Context, ticker domain.Ticker) (SecurityToken, error) {
	var (
		token       SecurityToken
		totalSupply int64
		owner       uuid.UUID
		assetType   string
		pia         uuid.NullUUID
	)
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT name, total_supply, owner_did, divisible, asset_type, pia, funding_round
		 FROM security_tokens WHERE ticker = $1`,
		ticker.String(),
	).Scan(&token.Name, &totalSupply, &owner, &token.Divisible, &assetType, &pia, &token.FundingRound)
	if errors.Is(err, sql.ErrNoRows) {
		return SecurityToken{}, sentinel.ErrNotFound
	}
	if err != nil {
		return SecurityToken{}, fmt.Errorf("query security token: %w", err)
	}

	token.TotalSupply = domain.Balance(totalSupply)
	token.Owner = domain.IdentityID(owner)
	token.Type = AssetType(assetType)
	if pia.Valid {
		id := domain.IdentityID(pia.UUID)
		token.PIA = &id
	}
	return token, nil
}

func (s *PostgresStore) PutToken(ctx context.Context, ticker domain.Ticker, token SecurityToken) error {
	var pia uuid.NullUUID
	if token.PIA != nil {
		pia = uuid.NullUUID{UUID: uuid.UUID(*token.PIA), Valid: true}
	}
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO security_tokens (ticker, name, total_supply, owner_did, divisible, asset_type, pia, funding_round)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (ticker) DO UPDATE SET
		   name = EXCLUDED.name,
		   total_supply = EXCLUDED.total_supply,
		   owner_did = EXCLUDED.owner_did,
		   divisible = EXCLUDED.divisible,
		   asset_type = EXCLUDED.asset_type,
		   pia = EXCLUDED.pia,
		   funding_round = EXCLUDED.funding_round`,
		ticker.String(), token.Name, int64(token.TotalSupply), uuid.UUID(token.Owner),
		token.Divisible, string(token.Type), pia, token.FundingRound,
	)
	if err != nil {
		return fmt.Errorf("upsert security token: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsFrozen(ctx context.Context, ticker domain.Ticker) (bool, error) {
	var frozen bool
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT frozen FROM asset_freezes WHERE ticker = $1`,
		ticker.String(),
	).Scan(&frozen)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query asset freeze: %w", err)
	}
	return frozen, nil
}

func (s *PostgresStore) SetFrozen(ctx context.Context, ticker domain.Ticker, frozen bool) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO asset_freezes (ticker, frozen)
		 VALUES ($1, $2)
		 ON CONFLICT (ticker) DO UPDATE SET frozen = EXCLUDED.frozen`,
		ticker.String(), frozen,
	)
	if err != nil {
		return fmt.Errorf("upsert asset freeze: %w", err)
	}
	return nil
}

func (s *PostgresStore) FundingRoundTotal(ctx context.Context, ticker domain.Ticker, round string) (domain.Balance, error) {
	var total int64
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT total FROM funding_round_totals WHERE ticker = $1 AND round = $2`,
		ticker.String(), round,
	).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query funding round total: %w", err)
	}
	return domain.Balance(total), nil
}

func (s *PostgresStore) SetFundingRoundTotal(ctx context.Context, ticker domain.Ticker, round string, total domain.Balance) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO funding_round_totals (ticker, round, total)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (ticker, round) DO UPDATE SET total = EXCLUDED.total`,
		ticker.String(), round, int64(total),
	)
	if err != nil {
		return fmt.Errorf("upsert funding round total: %w", err)
	}
	return nil
}

func (s *PostgresStore) Identifiers(ctx context.Context, ticker domain.Ticker) ([]AssetIdentifier, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT id_type, id_value FROM asset_identifiers WHERE ticker = $1 ORDER BY position`,
		ticker.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query asset identifiers: %w", err)
	}
	defer rows.Close()

	identifiers := []AssetIdentifier{}
	for rows.Next() {
		var idType, idValue string
		if err := rows.Scan(&idType, &idValue); err != nil {
			return nil, fmt.Errorf("scan asset identifier: %w", err)
		}
		identifiers = append(identifiers, AssetIdentifier{Type: IdentifierType(idType), Value: idValue})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset identifiers: %w", err)
	}
	return identifiers, nil
}

func (s *PostgresStore) PutIdentifiers(ctx context.Context, ticker domain.Ticker, identifiers []AssetIdentifier) error {
	exec := s.execer(ctx)
	if _, err := exec.ExecContext(ctx,
		`DELETE FROM asset_identifiers WHERE ticker = $1`,
		ticker.String(),
	); err != nil {
		return fmt.Errorf("clear asset identifiers: %w", err)
	}
	for i, id := range identifiers {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO asset_identifiers (ticker, position, id_type, id_value) VALUES ($1, $2, $3, $4)`,
			ticker.String(), i, string(id.Type), id.Value,
		); err != nil {
			return fmt.Errorf("insert asset identifier: %w", err)
		}
	}
	return nil
}
