package asset

import (
	"context"
	"sync"

	"covenant/pkg/domain"
	"covenant/pkg/platform/sentinel"
)

type relationKey struct {
	did    domain.IdentityID
	ticker domain.Ticker
}

type roundKey struct {
	ticker domain.Ticker
	round  string
}

type InMemoryStore struct {
	mu            sync.RWMutex
	registrations map[domain.Ticker]TickerRegistration
	relations     map[relationKey]OwnershipRelation
	tokens        map[domain.Ticker]SecurityToken
	frozen        map[domain.Ticker]bool
	roundTotals   map[roundKey]domain.Balance
	identifiers   map[domain.Ticker][]AssetIdentifier
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		registrations: make(map[domain.Ticker]TickerRegistration),
		relations:     make(map[relationKey]OwnershipRelation),
		tokens:        make(map[domain.Ticker]SecurityToken),
		frozen:        make(map[domain.Ticker]bool),
		roundTotals:   make(map[roundKey]domain.Balance),
		identifiers:   make(map[domain.Ticker][]AssetIdentifier),
	}
}

func (s *InMemoryStore) Registration(_ context.Context, ticker domain.Ticker) (TickerRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.registrations[ticker]
	if !ok {
		return TickerRegistration{}, sentinel.ErrNotFound
	}
	return reg, nil
}

func (s *InMemoryStore) PutRegistration(_ context.Context, ticker domain.Ticker, reg TickerRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations[ticker] = reg
	return nil
}

func (s *InMemoryStore) Relation(_ context.Context, did domain.IdentityID, ticker domain.Ticker) (OwnershipRelation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rel, ok := s.relations[relationKey{did, ticker}]
	if !ok {
		return RelationNotOwned, nil
	}
	return rel, nil
}

func (s *InMemoryStore) PutRelation(_ context.Context, did domain.IdentityID, ticker domain.Ticker, rel OwnershipRelation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relations[relationKey{did, ticker}] = rel
	return nil
}

func (s *InMemoryStore) DeleteRelation(_ context.Context, did domain.IdentityID, ticker domain.Ticker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.relations, relationKey{did, ticker})
	return nil
}

func (s *InMemoryStore) Token(_ context.Context, ticker domain.Ticker) (SecurityToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[ticker]
	if !ok {
		return SecurityToken{}, sentinel.ErrNotFound
	}
	return token, nil
}

func (s *InMemoryStore) PutToken(_ context.Context, ticker domain.Ticker, token SecurityToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[ticker] = token
	return nil
}

func (s *InMemoryStore) IsFrozen(_ context.Context, ticker domain.Ticker) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen[ticker], nil
}

func (s *InMemoryStore) SetFrozen(_ context.Context, ticker domain.Ticker, frozen bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen[ticker] = frozen
	return nil
}

func (s *InMemoryStore) FundingRoundTotal(_ context.Context, ticker domain.Ticker, round string) (domain.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roundTotals[roundKey{ticker, round}], nil
}

func (s *InMemoryStore) SetFundingRoundTotal(_ context.Context, ticker domain.Ticker, round string, total domain.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roundTotals[roundKey{ticker, round}] = total
	return nil
}

func (s *InMemoryStore) Identifiers(_ context.Context, ticker domain.Ticker) ([]AssetIdentifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]AssetIdentifier{}, s.identifiers[ticker]...), nil
}

func (s *InMemoryStore) PutIdentifiers(_ context.Context, ticker domain.Ticker, identifiers []AssetIdentifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identifiers[ticker] = append([]AssetIdentifier{}, identifiers...)
	return nil
}
