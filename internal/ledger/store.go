package ledger

import (
	"context"

	"covenant/pkg/domain"
)

// Store persists the three balance views. Implementations are pure I/O and
// hold no arithmetic: the service computes every figure it writes.
//
// Absent-row semantics: Balance, AggregateBalance, and BalanceAtScope return
// zero; Scope returns bound=false. Scope views are keyed by ticker as well
// as scope so a scope id reused across assets never aliases balances.
type Store interface {
	Balance(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (domain.Balance, error)
	SetBalance(ctx context.Context, ticker domain.Ticker, did domain.IdentityID, balance domain.Balance) error

	Scope(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (domain.ScopeID, bool, error)
	SetScope(ctx context.Context, ticker domain.Ticker, did domain.IdentityID, scope domain.ScopeID) error

	AggregateBalance(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID) (domain.Balance, error)
	SetAggregateBalance(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID, balance domain.Balance) error

	BalanceAtScope(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID) (domain.Balance, error)
	SetBalanceAtScope(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID, balance domain.Balance) error
	DeleteBalanceAtScope(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID) error
}
