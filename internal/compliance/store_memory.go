package compliance

import (
	"context"
	"slices"
	"sync"

	"covenant/pkg/domain"
)

// InMemoryStore keeps rule records in process memory. Values are cloned on
// both sides of the API so callers never alias stored slices.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.Ticker]AssetCompliance
	issuers map[domain.Ticker][]domain.IdentityID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[domain.Ticker]AssetCompliance),
		issuers: make(map[domain.Ticker][]domain.IdentityID),
	}
}

func (s *InMemoryStore) Compliance(_ context.Context, ticker domain.Ticker) (AssetCompliance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record := s.records[ticker]
	record.Requirements = cloneRequirements(record.Requirements)
	return record, nil
}

func (s *InMemoryStore) PutCompliance(_ context.Context, ticker domain.Ticker, record AssetCompliance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.Requirements = cloneRequirements(record.Requirements)
	s.records[ticker] = record
	return nil
}

func (s *InMemoryStore) TrustedIssuers(_ context.Context, ticker domain.Ticker) ([]domain.IdentityID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.issuers[ticker]), nil
}

func (s *InMemoryStore) PutTrustedIssuers(_ context.Context, ticker domain.Ticker, issuers []domain.IdentityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issuers[ticker] = slices.Clone(issuers)
	return nil
}
