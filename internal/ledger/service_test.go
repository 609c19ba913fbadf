package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"covenant/pkg/domain"
	dErrors "covenant/pkg/domain-errors"
	"covenant/pkg/platform/events"
	"covenant/pkg/platform/events/store/memory"
	"covenant/pkg/platform/tx"
)

// =============================================================================
// Ledger Service Test Suite
// =============================================================================
// The ledger invariants live here: checked arithmetic on primary balances,
// conservation across paired debits and credits, and the scope index staying
// consistent with the primary view through rebinds.

type LedgerServiceSuite struct {
	suite.Suite
	store      *InMemoryStore
	eventStore *memory.InMemoryStore
	service    *Service
	ctx        context.Context
}

func TestLedgerServiceSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceSuite))
}

func (s *LedgerServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.eventStore = memory.NewInMemoryStore()
	s.service = New(s.store, &tx.LockRunner{}, events.NewPublisher(s.eventStore))
	s.ctx = context.Background()
}

func (s *LedgerServiceSuite) seed(ticker domain.Ticker, did domain.IdentityID, balance domain.Balance) {
	s.Require().NoError(s.store.SetBalance(s.ctx, ticker, did, balance))
}

// =============================================================================
// Primary Balance Tests
// =============================================================================

func (s *LedgerServiceSuite) TestCreditDebit() {
	did := domain.NewIdentityID()

	s.Run("credit and debit round balances through zero", func() {
		updated, err := s.service.Credit(s.ctx, "ACME", did, 1_000)
		s.NoError(err)
		s.Equal(domain.Balance(1_000), updated)

		updated, err = s.service.Debit(s.ctx, "ACME", did, 400)
		s.NoError(err)
		s.Equal(domain.Balance(600), updated)

		balance, err := s.service.BalanceOf(s.ctx, "ACME", did)
		s.NoError(err)
		s.Equal(domain.Balance(600), balance)
	})

	s.Run("debit beyond the balance fails and writes nothing", func() {
		_, err := s.service.Debit(s.ctx, "ACME", did, 601)
		s.ErrorIs(err, ErrInsufficientBalance)
		s.True(dErrors.HasCode(err, dErrors.CodeArithmetic))

		balance, err := s.service.BalanceOf(s.ctx, "ACME", did)
		s.NoError(err)
		s.Equal(domain.Balance(600), balance)
	})

	s.Run("credit refuses to wrap", func() {
		whale := domain.NewIdentityID()
		s.seed("ACME", whale, ^domain.Balance(0)-5)

		_, err := s.service.Credit(s.ctx, "ACME", whale, 6)
		s.ErrorIs(err, ErrBalanceOverflow)

		balance, err := s.service.BalanceOf(s.ctx, "ACME", whale)
		s.NoError(err)
		s.Equal(^domain.Balance(0)-5, balance)
	})

	s.Run("balances are independent per ticker", func() {
		_, err := s.service.Credit(s.ctx, "OTHER", did, 50)
		s.NoError(err)

		balance, err := s.service.BalanceOf(s.ctx, "ACME", did)
		s.NoError(err)
		s.Equal(domain.Balance(600), balance)
	})
}

func (s *LedgerServiceSuite) TestConservation() {
	alice := domain.NewIdentityID()
	bob := domain.NewIdentityID()
	s.seed("ACME", alice, 10_000)

	total := func() domain.Balance {
		a, err := s.service.BalanceOf(s.ctx, "ACME", alice)
		s.Require().NoError(err)
		b, err := s.service.BalanceOf(s.ctx, "ACME", bob)
		s.Require().NoError(err)
		return a + b
	}

	before := total()
	for _, amount := range []domain.Balance{1, 999, 4_000, 5_000} {
		_, err := s.service.Debit(s.ctx, "ACME", alice, amount)
		s.Require().NoError(err)
		_, err = s.service.Credit(s.ctx, "ACME", bob, amount)
		s.Require().NoError(err)
		s.Equal(before, total(), "paired debit and credit must conserve the total")
	}

	// A failed debit conserves trivially: nothing moves.
	_, err := s.service.Debit(s.ctx, "ACME", alice, 1)
	s.ErrorIs(err, ErrInsufficientBalance)
	s.Equal(before, total())
}

// =============================================================================
// Scope View Tests
// =============================================================================

func (s *LedgerServiceSuite) TestUpdateScopeBalance() {
	did := domain.NewIdentityID()
	scope := domain.NewScopeID()

	s.Run("credit side grows the aggregate and snaps the holder row", func() {
		s.NoError(s.service.UpdateScopeBalance(s.ctx, "ACME", scope, did, 700, 700, false))

		aggregate, err := s.service.AggregateBalance(s.ctx, "ACME", scope)
		s.NoError(err)
		s.Equal(domain.Balance(700), aggregate)

		held, err := s.service.BalanceAtScope(s.ctx, "ACME", scope, did)
		s.NoError(err)
		s.Equal(domain.Balance(700), held)
	})

	s.Run("debit side shrinks the aggregate", func() {
		s.NoError(s.service.UpdateScopeBalance(s.ctx, "ACME", scope, did, 200, 500, true))

		aggregate, err := s.service.AggregateBalance(s.ctx, "ACME", scope)
		s.NoError(err)
		s.Equal(domain.Balance(500), aggregate)

		held, err := s.service.BalanceAtScope(s.ctx, "ACME", scope, did)
		s.NoError(err)
		s.Equal(domain.Balance(500), held)
	})

	s.Run("aggregate saturates at zero instead of failing", func() {
		s.NoError(s.service.UpdateScopeBalance(s.ctx, "ACME", scope, did, 10_000, 0, true))

		aggregate, err := s.service.AggregateBalance(s.ctx, "ACME", scope)
		s.NoError(err)
		s.Equal(domain.Balance(0), aggregate)
	})
}

func (s *LedgerServiceSuite) TestRebindScope() {
	s.Run("first bind seeds the scope with the current balance", func() {
		did := domain.NewIdentityID()
		scope := domain.NewScopeID()
		s.seed("ACME", did, 2_500)

		s.NoError(s.service.RebindScope(s.ctx, "ACME", did, scope))

		bound, ok, err := s.service.ScopeOf(s.ctx, "ACME", did)
		s.NoError(err)
		s.True(ok)
		s.Equal(scope, bound)

		aggregate, err := s.service.AggregateBalance(s.ctx, "ACME", scope)
		s.NoError(err)
		s.Equal(domain.Balance(2_500), aggregate)

		evts, err := s.eventStore.ListByTicker(s.ctx, "ACME")
		s.Require().NoError(err)
		s.Require().NotEmpty(evts)
		s.Equal(events.EventScopeRebound, evts[len(evts)-1].Type)
	})

	s.Run("identities sharing a scope sum into one aggregate", func() {
		a, b := domain.NewIdentityID(), domain.NewIdentityID()
		shared := domain.NewScopeID()
		s.seed("POOL", a, 1_000)
		s.seed("POOL", b, 250)

		s.NoError(s.service.RebindScope(s.ctx, "POOL", a, shared))
		s.NoError(s.service.RebindScope(s.ctx, "POOL", b, shared))

		aggregate, err := s.service.AggregateBalance(s.ctx, "POOL", shared)
		s.NoError(err)
		s.Equal(domain.Balance(1_250), aggregate)
	})

	s.Run("rebinding to a new scope unwinds the old one", func() {
		did := domain.NewIdentityID()
		first, second := domain.NewScopeID(), domain.NewScopeID()
		s.seed("MOVE", did, 900)

		s.NoError(s.service.RebindScope(s.ctx, "MOVE", did, first))
		s.NoError(s.service.RebindScope(s.ctx, "MOVE", did, second))

		oldAggregate, err := s.service.AggregateBalance(s.ctx, "MOVE", first)
		s.NoError(err)
		s.Equal(domain.Balance(0), oldAggregate)

		oldHeld, err := s.service.BalanceAtScope(s.ctx, "MOVE", first, did)
		s.NoError(err)
		s.Equal(domain.Balance(0), oldHeld)

		newAggregate, err := s.service.AggregateBalance(s.ctx, "MOVE", second)
		s.NoError(err)
		s.Equal(domain.Balance(900), newAggregate)
	})

	s.Run("existing row under the target scope is not double counted", func() {
		did := domain.NewIdentityID()
		scope := domain.NewScopeID()
		s.seed("DUP", did, 100)

		s.NoError(s.service.RebindScope(s.ctx, "DUP", did, scope))

		// Simulate later transfer activity under the scope, then rebind to
		// the same scope id from a fresh binding: the rebind first unwinds
		// the old row, so the aggregate ends at the holder's live balance.
		s.Require().NoError(s.store.SetBalance(s.ctx, "DUP", did, 175))
		s.NoError(s.service.RebindScope(s.ctx, "DUP", did, scope))

		aggregate, err := s.service.AggregateBalance(s.ctx, "DUP", scope)
		s.NoError(err)
		s.Equal(domain.Balance(175), aggregate)

		held, err := s.service.BalanceAtScope(s.ctx, "DUP", scope, did)
		s.NoError(err)
		s.Equal(domain.Balance(175), held)
	})

	s.Run("zero inputs are rejected", func() {
		did := domain.NewIdentityID()
		s.True(dErrors.HasCode(
			s.service.RebindScope(s.ctx, "ACME", domain.IdentityID{}, domain.NewScopeID()),
			dErrors.CodeInvalidInput,
		))
		s.True(dErrors.HasCode(
			s.service.RebindScope(s.ctx, "ACME", did, domain.ScopeID{}),
			dErrors.CodeInvalidInput,
		))
	})
}

// TestScopeConsistency drives the primary and scope views together the way
// the transfer pipeline does and checks the derived view never drifts.
func (s *LedgerServiceSuite) TestScopeConsistency() {
	alice, bob := domain.NewIdentityID(), domain.NewIdentityID()
	scopeA, scopeB := domain.ScopeFromIdentity(alice), domain.ScopeFromIdentity(bob)
	s.seed("ACME", alice, 5_000)

	s.Require().NoError(s.service.RebindScope(s.ctx, "ACME", alice, scopeA))
	s.Require().NoError(s.service.RebindScope(s.ctx, "ACME", bob, scopeB))

	transfer := func(amount domain.Balance) {
		fromUpdated, err := s.service.Debit(s.ctx, "ACME", alice, amount)
		s.Require().NoError(err)
		toUpdated, err := s.service.Credit(s.ctx, "ACME", bob, amount)
		s.Require().NoError(err)
		s.Require().NoError(s.service.UpdateScopeBalance(s.ctx, "ACME", scopeA, alice, amount, fromUpdated, true))
		s.Require().NoError(s.service.UpdateScopeBalance(s.ctx, "ACME", scopeB, bob, amount, toUpdated, false))
	}

	transfer(1_200)
	transfer(800)

	aliceBalance, err := s.service.BalanceOf(s.ctx, "ACME", alice)
	s.Require().NoError(err)
	bobBalance, err := s.service.BalanceOf(s.ctx, "ACME", bob)
	s.Require().NoError(err)
	s.Equal(domain.Balance(3_000), aliceBalance)
	s.Equal(domain.Balance(2_000), bobBalance)

	aggregateA, err := s.service.AggregateBalance(s.ctx, "ACME", scopeA)
	s.Require().NoError(err)
	aggregateB, err := s.service.AggregateBalance(s.ctx, "ACME", scopeB)
	s.Require().NoError(err)
	s.Equal(aliceBalance, aggregateA, "sole-holder aggregate tracks the primary balance")
	s.Equal(bobBalance, aggregateB)

	heldA, err := s.service.BalanceAtScope(s.ctx, "ACME", scopeA, alice)
	s.Require().NoError(err)
	s.Equal(aliceBalance, heldA)
}
