package asset

import (
	"context"

	"covenant/pkg/domain"
)

// Store persists registry state. Implementations are pure I/O: they return
// sentinel errors (pkg/platform/sentinel) and never encode business rules.
//
// Absent-row semantics: Registration and Token return sentinel.ErrNotFound;
// Relation returns RelationNotOwned; IsFrozen returns false;
// FundingRoundTotal returns zero; Identifiers returns an empty slice.
type Store interface {
	Registration(ctx context.Context, ticker domain.Ticker) (TickerRegistration, error)
	PutRegistration(ctx context.Context, ticker domain.Ticker, reg TickerRegistration) error

	Relation(ctx context.Context, did domain.IdentityID, ticker domain.Ticker) (OwnershipRelation, error)
	PutRelation(ctx context.Context, did domain.IdentityID, ticker domain.Ticker, rel OwnershipRelation) error
	DeleteRelation(ctx context.Context, did domain.IdentityID, ticker domain.Ticker) error

	Token(ctx context.Context, ticker domain.Ticker) (SecurityToken, error)
	PutToken(ctx context.Context, ticker domain.Ticker, token SecurityToken) error

	IsFrozen(ctx context.Context, ticker domain.Ticker) (bool, error)
	SetFrozen(ctx context.Context, ticker domain.Ticker, frozen bool) error

	FundingRoundTotal(ctx context.Context, ticker domain.Ticker, round string) (domain.Balance, error)
	SetFundingRoundTotal(ctx context.Context, ticker domain.Ticker, round string, total domain.Balance) error

	Identifiers(ctx context.Context, ticker domain.Ticker) ([]AssetIdentifier, error)
	PutIdentifiers(ctx context.Context, ticker domain.Ticker, identifiers []AssetIdentifier) error
}
