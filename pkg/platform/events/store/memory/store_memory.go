package memory

import (
	"context"
	"sync"

	"covenant/pkg/domain"
	"covenant/pkg/platform/events"
)

// InMemoryStore keeps events per ticker in insertion order. It backs unit
// tests and the in-memory wiring of the server.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[domain.Ticker][]events.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[domain.Ticker][]events.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[domain.Ticker][]events.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Ticker] = append(s.events[event.Ticker], event)
	return nil
}

func (s *InMemoryStore) ListByTicker(_ context.Context, ticker domain.Ticker) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]events.Event{}, s.events[ticker]...), nil
}

// ListAll returns every stored event across tickers.
func (s *InMemoryStore) ListAll(_ context.Context) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []events.Event
	for _, tickerEvents := range s.events {
		all = append(all, tickerEvents...)
	}
	return all, nil
}
