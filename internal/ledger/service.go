package ledger

import (
	"context"
	"log/slog"

	"covenant/pkg/domain"
	dErrors "covenant/pkg/domain-errors"
	"covenant/pkg/platform/events"
	"covenant/pkg/platform/tx"
)

// EventPublisher emits ledger events. Emit failures abort the mutation.
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

// Service is the single writer for all balance views. Credit, Debit, and
// UpdateScopeBalance are commit primitives: the transfer pipeline calls them
// inside its own transactional boundary, so they run on the caller's context
// as-is. RebindScope is a full operation and owns its boundary.
type Service struct {
	store  Store
	runner tx.Runner
	events EventPublisher
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a Service.
func New(store Store, runner tx.Runner, publisher EventPublisher, opts ...Option) *Service {
	s := &Service{store: store, runner: runner, events: publisher}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Credit adds amount to the identity's balance and returns the result.
// The addition is checked: wrapping would mint value out of thin air.
func (s *Service) Credit(ctx context.Context, ticker domain.Ticker, did domain.IdentityID, amount domain.Balance) (domain.Balance, error) {
	balance, err := s.store.Balance(ctx, ticker, did)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balance")
	}
	updated, ok := balance.CheckedAdd(amount)
	if !ok {
		return 0, ErrBalanceOverflow
	}
	if err := s.store.SetBalance(ctx, ticker, did, updated); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store balance")
	}
	return updated, nil
}

// Debit subtracts amount from the identity's balance and returns the result.
func (s *Service) Debit(ctx context.Context, ticker domain.Ticker, did domain.IdentityID, amount domain.Balance) (domain.Balance, error) {
	balance, err := s.store.Balance(ctx, ticker, did)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balance")
	}
	updated, ok := balance.CheckedSub(amount)
	if !ok {
		return 0, ErrInsufficientBalance
	}
	if err := s.store.SetBalance(ctx, ticker, did, updated); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store balance")
	}
	return updated, nil
}

// UpdateScopeBalance moves one side of a transfer through the scope views:
// the scope aggregate shifts by amount while the holder's row under the
// scope snaps to their updated primary balance. Aggregates are derived and
// reconstructable, so they saturate instead of failing a commit the primary
// balances already admitted.
func (s *Service) UpdateScopeBalance(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID, amount, updatedBalance domain.Balance, isDebit bool) error {
	aggregate, err := s.store.AggregateBalance(ctx, ticker, scope)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load scope aggregate")
	}
	if isDebit {
		aggregate = aggregate.SaturatingSub(amount)
	} else {
		aggregate = aggregate.SaturatingAdd(amount)
	}
	if err := s.store.SetAggregateBalance(ctx, ticker, scope, aggregate); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store scope aggregate")
	}
	if err := s.store.SetBalanceAtScope(ctx, ticker, scope, did, updatedBalance); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store scope holder balance")
	}
	return nil
}

// RebindScope points an identity's holdings at a new scope. Any previous
// binding is unwound first: the holder's row under the old scope is removed
// and the old aggregate shrinks by it. The new aggregate is seeded with the
// holder's current balance only when they have no row under the new scope
// yet, so identities sharing a scope are never counted twice.
func (s *Service) RebindScope(ctx context.Context, ticker domain.Ticker, did domain.IdentityID, newScope domain.ScopeID) error {
	if did.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "identity is required")
	}
	if newScope.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "scope is required")
	}

	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		oldScope, bound, err := s.store.Scope(ctx, ticker, did)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load scope binding")
		}
		if bound {
			held, err := s.store.BalanceAtScope(ctx, ticker, oldScope, did)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load scope holder balance")
			}
			if err := s.store.DeleteBalanceAtScope(ctx, ticker, oldScope, did); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear scope holder balance")
			}
			aggregate, err := s.store.AggregateBalance(ctx, ticker, oldScope)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load scope aggregate")
			}
			if err := s.store.SetAggregateBalance(ctx, ticker, oldScope, aggregate.SaturatingSub(held)); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store scope aggregate")
			}
		}

		atScope, err := s.store.BalanceAtScope(ctx, ticker, newScope, did)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load scope holder balance")
		}
		if atScope == 0 {
			current, err := s.store.Balance(ctx, ticker, did)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balance")
			}
			if err := s.store.SetBalanceAtScope(ctx, ticker, newScope, did, current); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store scope holder balance")
			}
			aggregate, err := s.store.AggregateBalance(ctx, ticker, newScope)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load scope aggregate")
			}
			if err := s.store.SetAggregateBalance(ctx, ticker, newScope, aggregate.SaturatingAdd(current)); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store scope aggregate")
			}
		}

		if err := s.store.SetScope(ctx, ticker, did, newScope); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store scope binding")
		}

		return s.events.Emit(ctx, events.Event{
			Type:    events.EventScopeRebound,
			Ticker:  ticker,
			Actor:   did,
			Payload: events.ScopePayload{Identity: did, Scope: newScope},
		})
	})
}

// BalanceOf returns the identity's primary balance.
func (s *Service) BalanceOf(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (domain.Balance, error) {
	balance, err := s.store.Balance(ctx, ticker, did)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balance")
	}
	return balance, nil
}

// ScopeOf returns the identity's scope binding for the asset, if any.
func (s *Service) ScopeOf(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (domain.ScopeID, bool, error) {
	scope, bound, err := s.store.Scope(ctx, ticker, did)
	if err != nil {
		return domain.ScopeID{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load scope binding")
	}
	return scope, bound, nil
}

// AggregateBalance returns the total held under a scope.
func (s *Service) AggregateBalance(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID) (domain.Balance, error) {
	aggregate, err := s.store.AggregateBalance(ctx, ticker, scope)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load scope aggregate")
	}
	return aggregate, nil
}

// BalanceAtScope returns the holder's balance as recorded under a scope.
func (s *Service) BalanceAtScope(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID) (domain.Balance, error) {
	balance, err := s.store.BalanceAtScope(ctx, ticker, scope, did)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load scope holder balance")
	}
	return balance, nil
}
