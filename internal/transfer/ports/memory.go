package ports

import (
	"context"
	"math/bits"
	"sync"

	"covenant/pkg/domain"
	dErrors "covenant/pkg/domain-errors"
)

var (
	// ErrSamePortfolio rejects a move whose two coordinates are equal.
	ErrSamePortfolio = dErrors.New(dErrors.CodeInvalidInput, "sender and receiver portfolios are the same")

	// ErrPortfolioNotFound rejects a coordinate that was never created.
	// Default portfolios always exist; user portfolios must be created.
	ErrPortfolioNotFound = dErrors.New(dErrors.CodeNotFound, "portfolio does not exist")

	// ErrUnauthorizedCustodian rejects an identity without custody.
	ErrUnauthorizedCustodian = dErrors.New(dErrors.CodeUnauthorized, "identity does not have custody of the portfolio")

	// ErrInsufficientPortfolioBalance rejects a move exceeding the free
	// (unlocked) balance of the source portfolio.
	ErrInsufficientPortfolioBalance = dErrors.New(dErrors.CodeArithmetic, "insufficient free balance in portfolio")

	// ErrTooManyInvestors rejects a transfer that would push the number of
	// distinct holders above the configured limit.
	ErrTooManyInvestors = dErrors.New(dErrors.CodeCapacityExceeded, "transfer would exceed the investor limit")

	// ErrOwnershipCapExceeded rejects a transfer that would concentrate more
	// of the supply under one scope than the configured cap allows.
	ErrOwnershipCapExceeded = dErrors.New(dErrors.CodeCapacityExceeded, "transfer would exceed the ownership cap")
)

type holding struct {
	portfolio domain.PortfolioID
	ticker    domain.Ticker
}

// InMemoryPortfolio is the reference Portfolio implementation backed by maps.
type InMemoryPortfolio struct {
	mu         sync.Mutex
	balances   map[holding]domain.Balance
	locked     map[holding]domain.Balance
	created    map[domain.PortfolioID]bool
	custodians map[domain.PortfolioID]domain.IdentityID
}

func NewInMemoryPortfolio() *InMemoryPortfolio {
	return &InMemoryPortfolio{
		balances:   make(map[holding]domain.Balance),
		locked:     make(map[holding]domain.Balance),
		created:    make(map[domain.PortfolioID]bool),
		custodians: make(map[domain.PortfolioID]domain.IdentityID),
	}
}

// CreatePortfolio registers a user portfolio so it passes existence checks.
func (p *InMemoryPortfolio) CreatePortfolio(portfolio domain.PortfolioID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created[portfolio] = true
}

// SetCustodian assigns custody of a portfolio away from its owner.
func (p *InMemoryPortfolio) SetCustodian(portfolio domain.PortfolioID, custodian domain.IdentityID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.custodians[portfolio] = custodian
}

// Lock reserves part of a portfolio's holding so it cannot be moved.
func (p *InMemoryPortfolio) Lock(portfolio domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := holding{portfolio: portfolio, ticker: ticker}
	p.locked[key] = p.locked[key].SaturatingAdd(amount)
}

func (p *InMemoryPortfolio) Balance(_ context.Context, portfolio domain.PortfolioID, ticker domain.Ticker) (domain.Balance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balances[holding{portfolio: portfolio, ticker: ticker}], nil
}

func (p *InMemoryPortfolio) SetBalance(_ context.Context, portfolio domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balances[holding{portfolio: portfolio, ticker: ticker}] = amount
	return nil
}

// TransferBalance applies saturating moves. Validity is the caller's duty;
// the commit path runs ValidateTransfer first.
func (p *InMemoryPortfolio) TransferBalance(_ context.Context, from, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	fromKey := holding{portfolio: from, ticker: ticker}
	toKey := holding{portfolio: to, ticker: ticker}
	p.balances[fromKey] = p.balances[fromKey].SaturatingSub(amount)
	p.balances[toKey] = p.balances[toKey].SaturatingAdd(amount)
	return nil
}

func (p *InMemoryPortfolio) EnsureCustody(_ context.Context, portfolio domain.PortfolioID, custodian domain.IdentityID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.custodianOf(portfolio) != custodian {
		return ErrUnauthorizedCustodian
	}
	return nil
}

func (p *InMemoryPortfolio) ValidateTransfer(_ context.Context, from, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if from == to {
		return ErrSamePortfolio
	}
	if !p.exists(from) || !p.exists(to) {
		return ErrPortfolioNotFound
	}
	if p.freeBalance(from, ticker) < amount {
		return ErrInsufficientPortfolioBalance
	}
	return nil
}

func (p *InMemoryPortfolio) ValidateTransferGranular(_ context.Context, from, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) PortfolioValidity {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := PortfolioValidity{
		SameReceiver:              from == to,
		SenderMissing:             !p.exists(from),
		ReceiverMissing:           !p.exists(to),
		SenderInsufficientBalance: p.freeBalance(from, ticker) < amount,
	}
	v.Result = !v.SameReceiver && !v.SenderMissing && !v.ReceiverMissing && !v.SenderInsufficientBalance
	return v
}

func (p *InMemoryPortfolio) ReduceBalance(_ context.Context, portfolio domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.exists(portfolio) {
		return ErrPortfolioNotFound
	}
	if p.freeBalance(portfolio, ticker) < amount {
		return ErrInsufficientPortfolioBalance
	}
	key := holding{portfolio: portfolio, ticker: ticker}
	p.balances[key] = p.balances[key] - amount
	return nil
}

func (p *InMemoryPortfolio) exists(portfolio domain.PortfolioID) bool {
	return portfolio.IsDefault() || p.created[portfolio]
}

func (p *InMemoryPortfolio) freeBalance(portfolio domain.PortfolioID, ticker domain.Ticker) domain.Balance {
	key := holding{portfolio: portfolio, ticker: ticker}
	return p.balances[key].SaturatingSub(p.locked[key])
}

func (p *InMemoryPortfolio) custodianOf(portfolio domain.PortfolioID) domain.IdentityID {
	if custodian, ok := p.custodians[portfolio]; ok {
		return custodian
	}
	return portfolio.Did
}

// Statistics rule names as they appear in granular reports.
const (
	RuleMaxInvestors = "max_investors"
	RuleMaxOwnership = "max_ownership"
)

// ownershipScale expresses caps in basis points of total supply.
const ownershipScale = 10_000

// InMemoryStatistics is the reference Statistics implementation. Two rule
// kinds are supported per asset: a maximum distinct-investor count and a
// maximum share of supply held under one scope, in basis points.
type InMemoryStatistics struct {
	mu           sync.Mutex
	investors    map[domain.Ticker]uint64
	maxInvestors map[domain.Ticker]uint64
	ownershipBps map[domain.Ticker]uint16
}

func NewInMemoryStatistics() *InMemoryStatistics {
	return &InMemoryStatistics{
		investors:    make(map[domain.Ticker]uint64),
		maxInvestors: make(map[domain.Ticker]uint64),
		ownershipBps: make(map[domain.Ticker]uint16),
	}
}

// SetMaxInvestors caps the distinct holders of the asset. Zero removes the
// rule.
func (s *InMemoryStatistics) SetMaxInvestors(ticker domain.Ticker, limit uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit == 0 {
		delete(s.maxInvestors, ticker)
		return
	}
	s.maxInvestors[ticker] = limit
}

// SetOwnershipCap caps how much of the supply a single scope may hold, in
// basis points. Zero removes the rule.
func (s *InMemoryStatistics) SetOwnershipCap(ticker domain.Ticker, bps uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bps == 0 {
		delete(s.ownershipBps, ticker)
		return
	}
	s.ownershipBps[ticker] = bps
}

// InvestorCount returns the current distinct-holder count for the asset.
func (s *InMemoryStatistics) InvestorCount(ticker domain.Ticker) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.investors[ticker]
}

func (s *InMemoryStatistics) VerifyLimits(ctx context.Context, ticker domain.Ticker, fromScope, toScope domain.ScopeID, amount, fromAggregate, toAggregate, totalSupply domain.Balance) error {
	for _, result := range s.VerifyLimitsGranular(ctx, ticker, fromScope, toScope, amount, fromAggregate, toAggregate, totalSupply) {
		if result.Passed {
			continue
		}
		if result.Rule == RuleMaxInvestors {
			return ErrTooManyInvestors
		}
		return ErrOwnershipCapExceeded
	}
	return nil
}

func (s *InMemoryStatistics) VerifyLimitsGranular(_ context.Context, ticker domain.Ticker, fromScope, toScope domain.ScopeID, amount, fromAggregate, toAggregate, totalSupply domain.Balance) []RuleResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []RuleResult
	sameScope := fromScope == toScope

	if limit, ok := s.maxInvestors[ticker]; ok {
		count := s.investors[ticker]
		next := count
		if !sameScope {
			if fromAggregate == amount && next > 0 {
				next--
			}
			if toAggregate == 0 {
				next++
			}
		}
		// A holder set already over a lowered limit may shrink or hold
		// steady, never grow.
		results = append(results, RuleResult{
			Rule:   RuleMaxInvestors,
			Passed: next <= limit || next <= count,
		})
	}

	if bps, ok := s.ownershipBps[ticker]; ok {
		passed := true
		if !sameScope {
			passed = !exceedsShare(toAggregate.SaturatingAdd(amount), totalSupply, bps)
		}
		results = append(results, RuleResult{Rule: RuleMaxOwnership, Passed: passed})
	}

	return results
}

func (s *InMemoryStatistics) UpdateTransferStats(_ context.Context, ticker domain.Ticker, senderEmptied, receiverWasNew bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if senderEmptied && s.investors[ticker] > 0 {
		s.investors[ticker]--
	}
	if receiverWasNew {
		s.investors[ticker]++
	}
}

// exceedsShare reports held/supply > bps/10000 using 128-bit intermediates,
// since held*10000 can overflow uint64 at full supply.
func exceedsShare(held, supply domain.Balance, bps uint16) bool {
	heldHi, heldLo := bits.Mul64(uint64(held), ownershipScale)
	capHi, capLo := bits.Mul64(uint64(supply), uint64(bps))
	if heldHi != capHi {
		return heldHi > capHi
	}
	return heldLo > capLo
}

// InMemoryCheckpoint records balance snapshots per asset in arrival order.
type InMemoryCheckpoint struct {
	mu       sync.Mutex
	recorded map[domain.Ticker][][]BalanceSnapshot
}

func NewInMemoryCheckpoint() *InMemoryCheckpoint {
	return &InMemoryCheckpoint{recorded: make(map[domain.Ticker][][]BalanceSnapshot)}
}

func (c *InMemoryCheckpoint) AdvanceAndRecord(_ context.Context, ticker domain.Ticker, balances []BalanceSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]BalanceSnapshot, len(balances))
	copy(snapshot, balances)
	c.recorded[ticker] = append(c.recorded[ticker], snapshot)
	return nil
}

// Recorded returns every snapshot batch taken for the asset, oldest first.
func (c *InMemoryCheckpoint) Recorded(ticker domain.Ticker) [][]BalanceSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]BalanceSnapshot, len(c.recorded[ticker]))
	copy(out, c.recorded[ticker])
	return out
}
