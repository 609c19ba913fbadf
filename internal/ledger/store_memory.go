package ledger

import (
	"context"
	"sync"

	"covenant/pkg/domain"
)

type holderKey struct {
	ticker domain.Ticker
	did    domain.IdentityID
}

type scopeKey struct {
	ticker domain.Ticker
	scope  domain.ScopeID
}

type scopeHolderKey struct {
	ticker domain.Ticker
	scope  domain.ScopeID
	did    domain.IdentityID
}

type InMemoryStore struct {
	mu              sync.RWMutex
	balances        map[holderKey]domain.Balance
	scopes          map[holderKey]domain.ScopeID
	aggregates      map[scopeKey]domain.Balance
	balancesAtScope map[scopeHolderKey]domain.Balance
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		balances:        make(map[holderKey]domain.Balance),
		scopes:          make(map[holderKey]domain.ScopeID),
		aggregates:      make(map[scopeKey]domain.Balance),
		balancesAtScope: make(map[scopeHolderKey]domain.Balance),
	}
}

func (s *InMemoryStore) Balance(_ context.Context, ticker domain.Ticker, did domain.IdentityID) (domain.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[holderKey{ticker, did}], nil
}

func (s *InMemoryStore) SetBalance(_ context.Context, ticker domain.Ticker, did domain.IdentityID, balance domain.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[holderKey{ticker, did}] = balance
	return nil
}

func (s *InMemoryStore) Scope(_ context.Context, ticker domain.Ticker, did domain.IdentityID) (domain.ScopeID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scope, ok := s.scopes[holderKey{ticker, did}]
	return scope, ok, nil
}

func (s *InMemoryStore) SetScope(_ context.Context, ticker domain.Ticker, did domain.IdentityID, scope domain.ScopeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopes[holderKey{ticker, did}] = scope
	return nil
}

func (s *InMemoryStore) AggregateBalance(_ context.Context, ticker domain.Ticker, scope domain.ScopeID) (domain.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aggregates[scopeKey{ticker, scope}], nil
}

func (s *InMemoryStore) SetAggregateBalance(_ context.Context, ticker domain.Ticker, scope domain.ScopeID, balance domain.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aggregates[scopeKey{ticker, scope}] = balance
	return nil
}

func (s *InMemoryStore) BalanceAtScope(_ context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID) (domain.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balancesAtScope[scopeHolderKey{ticker, scope, did}], nil
}

func (s *InMemoryStore) SetBalanceAtScope(_ context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID, balance domain.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balancesAtScope[scopeHolderKey{ticker, scope, did}] = balance
	return nil
}

func (s *InMemoryStore) DeleteBalanceAtScope(_ context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.balancesAtScope, scopeHolderKey{ticker, scope, did})
	return nil
}
