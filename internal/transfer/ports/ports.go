// Package ports defines the collaborator interfaces of the transfer module.
// Interfaces live here because both the pipeline and its tests consume them;
// reference in-memory implementations are provided alongside.
package ports

import (
	"context"

	"covenant/pkg/domain"
)

// BalanceSnapshot pairs an identity with its balance before a mutation.
type BalanceSnapshot struct {
	Identity domain.IdentityID
	Balance  domain.Balance
}

// PortfolioValidity itemizes the portfolio-level transfer checks so callers
// see every failure at once.
type PortfolioValidity struct {
	SameReceiver              bool `json:"same_receiver"`
	SenderMissing             bool `json:"sender_missing"`
	ReceiverMissing           bool `json:"receiver_missing"`
	SenderInsufficientBalance bool `json:"sender_insufficient_balance"`
	Result                    bool `json:"result"`
}

// RuleResult is one statistics rule verdict.
type RuleResult struct {
	Rule   string `json:"rule"`
	Passed bool   `json:"passed"`
}

// Checkpoint advances checkpoint schedules and records holder balances
// before they move, so checkpointed views stay reconstructable.
type Checkpoint interface {
	// AdvanceAndRecord stores the pre-mutation balances against any due
	// checkpoint. An error aborts the whole commit.
	AdvanceAndRecord(ctx context.Context, ticker domain.Ticker, balances []BalanceSnapshot) error
}

// Portfolio tracks per-portfolio asset balances, locks and custody.
type Portfolio interface {
	// Balance returns the portfolio's holding of the asset.
	Balance(ctx context.Context, portfolio domain.PortfolioID, ticker domain.Ticker) (domain.Balance, error)

	// SetBalance overwrites the portfolio's holding. The mint path seeds
	// the issuer's default portfolio through it.
	SetBalance(ctx context.Context, portfolio domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) error

	// TransferBalance moves amount between two portfolios.
	TransferBalance(ctx context.Context, from, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) error

	// EnsureCustody verifies the custodian controls the portfolio: the
	// assigned custodian when one exists, else the portfolio owner.
	EnsureCustody(ctx context.Context, portfolio domain.PortfolioID, custodian domain.IdentityID) error

	// ValidateTransfer checks a portfolio-level move without applying it:
	// distinct portfolios, both existing, sufficient free balance.
	ValidateTransfer(ctx context.Context, from, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) error

	// ValidateTransferGranular itemizes every portfolio-level check.
	ValidateTransferGranular(ctx context.Context, from, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) PortfolioValidity

	// ReduceBalance burns amount out of the portfolio, honoring locks.
	ReduceBalance(ctx context.Context, portfolio domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) error
}

// Statistics enforces transfer-manager rules over scope aggregates and keeps
// the per-asset investor count current.
type Statistics interface {
	// VerifyLimits checks every configured rule against the prospective
	// post-transfer state. Aggregates are the pre-transfer scope totals.
	VerifyLimits(ctx context.Context, ticker domain.Ticker, fromScope, toScope domain.ScopeID, amount, fromAggregate, toAggregate, totalSupply domain.Balance) error

	// VerifyLimitsGranular evaluates every configured rule and reports each
	// verdict instead of stopping at the first failure.
	VerifyLimitsGranular(ctx context.Context, ticker domain.Ticker, fromScope, toScope domain.ScopeID, amount, fromAggregate, toAggregate, totalSupply domain.Balance) []RuleResult

	// UpdateTransferStats maintains the investor count after a commit.
	// senderEmptied reports the sending scope dropped to zero holdings;
	// receiverWasNew reports the receiving scope held nothing before. The
	// caller derives both from exact scope balances, so a repeated move
	// into an occupied scope never counts twice.
	UpdateTransferStats(ctx context.Context, ticker domain.Ticker, senderEmptied, receiverWasNew bool)
}
