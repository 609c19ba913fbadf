package asset

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"covenant/internal/asset/metrics"
	"covenant/pkg/domain"
	dErrors "covenant/pkg/domain-errors"
	"covenant/pkg/platform/events"
	"covenant/pkg/platform/sentinel"
	"covenant/pkg/platform/tx"
	"covenant/pkg/requestcontext"
)

// Config bounds registry input and sets the registration window.
type Config struct {
	// MaxTickerLength caps the symbol length accepted by this registry. It
	// may be tighter than domain.MaxTickerBytes, never wider.
	MaxTickerLength int

	// MaxNameLength caps asset names.
	MaxNameLength int

	// MaxFundingRoundNameLength caps funding round names.
	MaxFundingRoundNameLength int

	// RegistrationLength is how long a bare ticker reservation lives before
	// anyone may claim it again. Zero means reservations never expire.
	RegistrationLength time.Duration
}

// DefaultConfig returns the registry limits used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxTickerLength:           domain.MaxTickerBytes,
		MaxNameLength:             128,
		MaxFundingRoundNameLength: 128,
		RegistrationLength:        60 * 24 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxTickerLength <= 0 || c.MaxTickerLength > domain.MaxTickerBytes {
		c.MaxTickerLength = def.MaxTickerLength
	}
	if c.MaxNameLength <= 0 {
		c.MaxNameLength = def.MaxNameLength
	}
	if c.MaxFundingRoundNameLength <= 0 {
		c.MaxFundingRoundNameLength = def.MaxFundingRoundNameLength
	}
	return c
}

// EventPublisher emits registry events. Emit failures abort the mutation.
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

// Service owns the ticker and asset registry rules: who may reserve a
// symbol, when a reservation lapses, and which mutations an asset owner may
// perform after creation.
type Service struct {
	store     Store
	runner    tx.Runner
	events    EventPublisher
	validator IdentifierValidator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	cfg       Config
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithIdentifierValidator replaces the default check-digit validator.
func WithIdentifierValidator(v IdentifierValidator) Option {
	return func(s *Service) {
		s.validator = v
	}
}

// New constructs a Service. Every mutation runs its writes, including the
// emitted events, inside one boundary of the given runner.
func New(store Store, runner tx.Runner, publisher EventPublisher, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:     store,
		runner:    runner,
		events:    publisher,
		validator: ChecksumValidator{},
		cfg:       cfg.withDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterTicker reserves a symbol for the actor. Re-registering a symbol
// the actor already holds renews it; an expired reservation held by anyone
// is claimable. The reservation window comes from the configured
// registration length.
func (s *Service) RegisterTicker(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker) (reg TickerRegistration, err error) {
	defer s.observe("register_ticker", time.Now(), &err)

	if err := validateActor(actor); err != nil {
		return TickerRegistration{}, err
	}
	if err := s.ensureTickerASCII(ticker); err != nil {
		return TickerRegistration{}, err
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ensureAssetFresh(ctx, ticker); err != nil {
			return err
		}
		if err := s.ensureTickerLength(ticker); err != nil {
			return err
		}

		prev, status, err := s.registrationStatus(ctx, ticker, actor)
		if err != nil {
			return err
		}
		if status == TickerRegisteredByOther {
			return ErrTickerAlreadyRegistered
		}

		var expiry *time.Time
		if s.cfg.RegistrationLength > 0 {
			e := requestcontext.Now(ctx).Add(s.cfg.RegistrationLength)
			expiry = &e
		}
		reg = TickerRegistration{Owner: actor, Expiry: expiry}
		return s.writeRegistration(ctx, ticker, prev, reg)
	})
	if err != nil {
		return TickerRegistration{}, err
	}

	s.metrics.IncrementTickersRegistered()
	s.logInfo(ctx, "ticker registered", "ticker", ticker, "owner", actor)
	return reg, nil
}

// TickerStatus reports how the symbol looks to one identity: available,
// held by them, or held by someone else. Expired reservations count as
// available.
func (s *Service) TickerStatus(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (TickerStatus, error) {
	_, status, err := s.registrationStatus(ctx, ticker, did)
	return status, err
}

// CreateAsset creates the security token on a ticker. The actor must hold
// the ticker or the ticker must be claimable; creation makes the
// registration permanent. The token starts with zero supply, ready for the
// transfer pipeline to issue against.
func (s *Service) CreateAsset(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, params CreateAssetParams) (token SecurityToken, err error) {
	defer s.observe("create_asset", time.Now(), &err)

	if err := validateActor(actor); err != nil {
		return SecurityToken{}, err
	}
	if len(params.Name) > s.cfg.MaxNameLength {
		return SecurityToken{}, ErrNameTooLong
	}
	if params.Type == "" {
		return SecurityToken{}, dErrors.New(dErrors.CodeValidation, "asset type is required")
	}
	if len(params.FundingRound) > s.cfg.MaxFundingRoundNameLength {
		return SecurityToken{}, ErrFundingRoundTooLong
	}
	if err := s.validator.Validate(ctx, params.Identifiers); err != nil {
		return SecurityToken{}, dErrors.Wrap(err, dErrors.CodeValidation, "invalid asset identifiers")
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ensureAssetFresh(ctx, ticker); err != nil {
			return err
		}
		if err := s.ensureTickerLength(ticker); err != nil {
			return err
		}

		prev, status, err := s.registrationStatus(ctx, ticker, actor)
		if err != nil {
			return err
		}
		switch status {
		case TickerRegisteredByOther:
			return ErrTickerAlreadyRegistered
		case TickerAvailable:
			// Claiming the symbol as part of creation; it must be clean.
			if err := s.ensureTickerASCII(ticker); err != nil {
				return err
			}
			if err := s.writeRegistration(ctx, ticker, prev, TickerRegistration{Owner: actor}); err != nil {
				return err
			}
		case TickerRegisteredByDid:
			// Creation pins the reservation: it no longer expires.
			prev.Expiry = nil
			if err := s.store.PutRegistration(ctx, ticker, *prev); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to pin ticker registration")
			}
		}

		token = SecurityToken{
			Name:         params.Name,
			TotalSupply:  0,
			Owner:        actor,
			Divisible:    params.Divisible,
			Type:         params.Type,
			FundingRound: params.FundingRound,
		}
		if err := s.store.PutToken(ctx, ticker, token); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store asset")
		}
		if err := s.store.PutRelation(ctx, actor, ticker, RelationAssetOwned); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store ownership")
		}

		if err := s.events.Emit(ctx, events.Event{
			Type:   events.EventAssetCreated,
			Ticker: ticker,
			Actor:  actor,
			Payload: events.AssetPayload{
				Name:         token.Name,
				Type:         string(token.Type),
				Divisible:    token.Divisible,
				FundingRound: token.FundingRound,
			},
		}); err != nil {
			return err
		}
		if len(params.Identifiers) > 0 {
			if err := s.store.PutIdentifiers(ctx, ticker, params.Identifiers); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store identifiers")
			}
			return s.emitIdentifiers(ctx, actor, ticker, params.Identifiers)
		}
		return nil
	})
	if err != nil {
		return SecurityToken{}, err
	}

	s.metrics.IncrementAssetsCreated()
	s.logInfo(ctx, "asset created", "ticker", ticker, "owner", actor, "type", params.Type)
	return token, nil
}

// RenameAsset changes the display name of an existing asset.
func (s *Service) RenameAsset(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, name string) (err error) {
	defer s.observe("rename_asset", time.Now(), &err)

	if len(name) > s.cfg.MaxNameLength {
		return ErrNameTooLong
	}
	return s.mutateToken(ctx, actor, ticker, func(token *SecurityToken) (events.Event, error) {
		token.Name = name
		return events.Event{
			Type:    events.EventAssetRenamed,
			Payload: events.AssetPayload{Name: name},
		}, nil
	})
}

// MakeDivisible switches an indivisible asset to divisible. The switch is
// one-way: granular positions cannot be rounded back into whole units.
func (s *Service) MakeDivisible(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker) (err error) {
	defer s.observe("make_divisible", time.Now(), &err)

	return s.mutateToken(ctx, actor, ticker, func(token *SecurityToken) (events.Event, error) {
		if token.Divisible {
			return events.Event{}, ErrAssetAlreadyDivisible
		}
		token.Divisible = true
		return events.Event{
			Type:    events.EventDivisibilityChanged,
			Payload: events.AssetPayload{Divisible: true},
		}, nil
	})
}

// SetFundingRound names the round subsequent issuance is tallied under.
// Per-round totals persist, so returning to an earlier name resumes its
// tally.
func (s *Service) SetFundingRound(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, name string) (err error) {
	defer s.observe("set_funding_round", time.Now(), &err)

	if len(name) > s.cfg.MaxFundingRoundNameLength {
		return ErrFundingRoundTooLong
	}
	return s.mutateToken(ctx, actor, ticker, func(token *SecurityToken) (events.Event, error) {
		token.FundingRound = name
		return events.Event{
			Type:    events.EventFundingRoundSet,
			Payload: events.AssetPayload{FundingRound: name},
		}, nil
	})
}

// UpdateIdentifiers replaces the full set of external identifiers.
func (s *Service) UpdateIdentifiers(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, identifiers []AssetIdentifier) (err error) {
	defer s.observe("update_identifiers", time.Now(), &err)

	if err := validateActor(actor); err != nil {
		return err
	}
	if err := s.validator.Validate(ctx, identifiers); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid asset identifiers")
	}

	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ensureOwner(ctx, ticker, actor); err != nil {
			return err
		}
		if err := s.store.PutIdentifiers(ctx, ticker, identifiers); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store identifiers")
		}
		return s.emitIdentifiers(ctx, actor, ticker, identifiers)
	})
}

// Freeze halts all transfers of the asset. Freezing twice is an error so
// callers learn the ledger was not in the state they believed.
func (s *Service) Freeze(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker) (err error) {
	defer s.observe("freeze", time.Now(), &err)
	return s.setFrozen(ctx, actor, ticker, true)
}

// Unfreeze lifts a transfer freeze.
func (s *Service) Unfreeze(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker) (err error) {
	defer s.observe("unfreeze", time.Now(), &err)
	return s.setFrozen(ctx, actor, ticker, false)
}

func (s *Service) setFrozen(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, frozen bool) error {
	if err := validateActor(actor); err != nil {
		return err
	}

	eventType, stateErr := events.EventAssetFrozen, ErrAlreadyFrozen
	if !frozen {
		eventType, stateErr = events.EventAssetUnfrozen, ErrNotFrozen
	}

	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ensureOwner(ctx, ticker, actor); err != nil {
			return err
		}
		if _, err := s.token(ctx, ticker); err != nil {
			return err
		}
		current, err := s.store.IsFrozen(ctx, ticker)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load freeze state")
		}
		if current == frozen {
			return stateErr
		}
		if err := s.store.SetFrozen(ctx, ticker, frozen); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store freeze state")
		}
		return s.events.Emit(ctx, events.Event{Type: eventType, Ticker: ticker, Actor: actor})
	})
}

// TransferTicker hands a bare reservation to another identity. Once an
// asset exists the reservation is inseparable from it; use
// TransferOwnership instead.
func (s *Service) TransferTicker(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, to domain.IdentityID) (err error) {
	defer s.observe("transfer_ticker", time.Now(), &err)

	if err := validateActor(actor); err != nil {
		return err
	}
	if err := validateCounterparty(to); err != nil {
		return err
	}

	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ensureAssetFresh(ctx, ticker); err != nil {
			return err
		}
		reg, err := s.registration(ctx, ticker)
		if err != nil {
			return err
		}
		if reg.Owner != actor {
			return ErrNotOwner
		}

		if err := s.store.DeleteRelation(ctx, actor, ticker); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear ownership")
		}
		if err := s.store.PutRelation(ctx, to, ticker, RelationTickerOwned); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store ownership")
		}
		reg.Owner = to
		if err := s.store.PutRegistration(ctx, ticker, reg); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store ticker registration")
		}
		return s.events.Emit(ctx, events.Event{
			Type:    events.EventTickerTransferred,
			Ticker:  ticker,
			Actor:   actor,
			Payload: events.OwnershipPayload{From: actor, To: to},
		})
	})
}

// TransferOwnership hands the asset, and with it the underlying ticker, to
// another identity. The primary issuance agent appointment is untouched.
func (s *Service) TransferOwnership(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, to domain.IdentityID) (err error) {
	defer s.observe("transfer_ownership", time.Now(), &err)

	if err := validateActor(actor); err != nil {
		return err
	}
	if err := validateCounterparty(to); err != nil {
		return err
	}

	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		token, err := s.token(ctx, ticker)
		if err != nil {
			return err
		}
		if token.Owner != actor {
			return ErrNotOwner
		}

		if err := s.store.DeleteRelation(ctx, actor, ticker); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear ownership")
		}
		if err := s.store.PutRelation(ctx, to, ticker, RelationAssetOwned); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store ownership")
		}

		reg, err := s.registration(ctx, ticker)
		if err != nil {
			return err
		}
		reg.Owner = to
		if err := s.store.PutRegistration(ctx, ticker, reg); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store ticker registration")
		}

		token.Owner = to
		if err := s.store.PutToken(ctx, ticker, token); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store asset")
		}
		return s.events.Emit(ctx, events.Event{
			Type:    events.EventAssetOwnershipTransferred,
			Ticker:  ticker,
			Actor:   actor,
			Payload: events.OwnershipPayload{From: actor, To: to},
		})
	})
}

// TransferPIA appoints a new primary issuance agent. Only the owner may
// appoint; issuance authority moves wholesale, never splits.
func (s *Service) TransferPIA(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, to domain.IdentityID) (err error) {
	defer s.observe("transfer_pia", time.Now(), &err)

	if err := validateCounterparty(to); err != nil {
		return err
	}
	return s.mutateToken(ctx, actor, ticker, func(token *SecurityToken) (events.Event, error) {
		from := token.PIAOrOwner()
		token.PIA = &to
		return events.Event{
			Type:    events.EventPIATransferred,
			Payload: events.OwnershipPayload{From: from, To: to},
		}, nil
	})
}

// RemovePIA clears the appointment; issuance authority reverts to the owner.
func (s *Service) RemovePIA(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker) (err error) {
	defer s.observe("remove_pia", time.Now(), &err)

	return s.mutateToken(ctx, actor, ticker, func(token *SecurityToken) (events.Event, error) {
		from := token.PIAOrOwner()
		token.PIA = nil
		return events.Event{
			Type:    events.EventPIATransferred,
			Payload: events.OwnershipPayload{From: from, To: token.Owner},
		}, nil
	})
}

// Token returns the asset configuration for a ticker.
func (s *Service) Token(ctx context.Context, ticker domain.Ticker) (SecurityToken, error) {
	return s.token(ctx, ticker)
}

// Registration returns the live ticker reservation.
func (s *Service) Registration(ctx context.Context, ticker domain.Ticker) (TickerRegistration, error) {
	return s.registration(ctx, ticker)
}

// IsFrozen reports whether transfers of the asset are halted.
func (s *Service) IsFrozen(ctx context.Context, ticker domain.Ticker) (bool, error) {
	frozen, err := s.store.IsFrozen(ctx, ticker)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load freeze state")
	}
	return frozen, nil
}

// Identifiers returns the external identifiers attached to an asset.
func (s *Service) Identifiers(ctx context.Context, ticker domain.Ticker) ([]AssetIdentifier, error) {
	ids, err := s.store.Identifiers(ctx, ticker)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identifiers")
	}
	return ids, nil
}

// IsOwner reports whether the identity holds the ticker or its asset.
func (s *Service) IsOwner(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (bool, error) {
	rel, err := s.store.Relation(ctx, did, ticker)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ownership")
	}
	return rel == RelationTickerOwned || rel == RelationAssetOwned, nil
}

// PIAOrOwner resolves the identity holding issuance authority right now.
func (s *Service) PIAOrOwner(ctx context.Context, ticker domain.Ticker) (domain.IdentityID, error) {
	token, err := s.token(ctx, ticker)
	if err != nil {
		return domain.IdentityID{}, err
	}
	return token.PIAOrOwner(), nil
}

// FundingRoundTotal returns how much has been issued under a round name.
func (s *Service) FundingRoundTotal(ctx context.Context, ticker domain.Ticker, round string) (domain.Balance, error) {
	total, err := s.store.FundingRoundTotal(ctx, ticker, round)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load funding round total")
	}
	return total, nil
}

// RecordIssuance adds freshly issued supply to the current funding round
// tally and reports the round name with its updated total. The tally is a
// reporting aggregate, so it saturates rather than failing a mint that the
// supply checks already admitted.
func (s *Service) RecordIssuance(ctx context.Context, ticker domain.Ticker, amount domain.Balance) (string, domain.Balance, error) {
	token, err := s.token(ctx, ticker)
	if err != nil {
		return "", 0, err
	}
	total, err := s.store.FundingRoundTotal(ctx, ticker, token.FundingRound)
	if err != nil {
		return "", 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load funding round total")
	}
	total = total.SaturatingAdd(amount)
	if err := s.store.SetFundingRoundTotal(ctx, ticker, token.FundingRound, total); err != nil {
		return "", 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store funding round total")
	}
	return token.FundingRound, total, nil
}

// SetTotalSupply records the supply after an issuance or redemption. The
// caller owns the arithmetic checks; this only persists the result.
func (s *Service) SetTotalSupply(ctx context.Context, ticker domain.Ticker, supply domain.Balance) error {
	token, err := s.token(ctx, ticker)
	if err != nil {
		return err
	}
	token.TotalSupply = supply
	if err := s.store.PutToken(ctx, ticker, token); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store asset")
	}
	return nil
}

// ==========================================================================
// Internals
// ==========================================================================

// mutateToken loads the token, requires the actor to own it, applies fn,
// stores the result, and emits fn's event stamped with ticker and actor.
func (s *Service) mutateToken(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, fn func(token *SecurityToken) (events.Event, error)) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		token, err := s.token(ctx, ticker)
		if err != nil {
			return err
		}
		if token.Owner != actor {
			return ErrNotOwner
		}
		event, err := fn(&token)
		if err != nil {
			return err
		}
		if err := s.store.PutToken(ctx, ticker, token); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store asset")
		}
		event.Ticker = ticker
		event.Actor = actor
		return s.events.Emit(ctx, event)
	})
}

func (s *Service) token(ctx context.Context, ticker domain.Ticker) (SecurityToken, error) {
	token, err := s.store.Token(ctx, ticker)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return SecurityToken{}, ErrAssetNotFound
		}
		return SecurityToken{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load asset")
	}
	return token, nil
}

func (s *Service) registration(ctx context.Context, ticker domain.Ticker) (TickerRegistration, error) {
	reg, err := s.store.Registration(ctx, ticker)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return TickerRegistration{}, ErrTickerNotRegistered
		}
		return TickerRegistration{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ticker registration")
	}
	if reg.IsExpired(requestcontext.Now(ctx)) {
		return TickerRegistration{}, ErrTickerExpired
	}
	return reg, nil
}

// registrationStatus classifies the symbol for one identity and returns the
// stored registration row, if any, so callers can clean up a stale owner.
func (s *Service) registrationStatus(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (*TickerRegistration, TickerStatus, error) {
	reg, err := s.store.Registration(ctx, ticker)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, TickerAvailable, nil
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ticker registration")
	}
	switch {
	case reg.IsExpired(requestcontext.Now(ctx)):
		return &reg, TickerAvailable, nil
	case reg.Owner == did:
		return &reg, TickerRegisteredByDid, nil
	default:
		return &reg, TickerRegisteredByOther, nil
	}
}

// writeRegistration stores a fresh reservation, clearing any stale owner's
// relation first, and emits the registration event.
func (s *Service) writeRegistration(ctx context.Context, ticker domain.Ticker, prev *TickerRegistration, reg TickerRegistration) error {
	if prev != nil && prev.Owner != reg.Owner {
		if err := s.store.DeleteRelation(ctx, prev.Owner, ticker); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear stale ownership")
		}
	}
	if err := s.store.PutRegistration(ctx, ticker, reg); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store ticker registration")
	}
	if err := s.store.PutRelation(ctx, reg.Owner, ticker, RelationTickerOwned); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store ownership")
	}
	return s.events.Emit(ctx, events.Event{
		Type:    events.EventTickerRegistered,
		Ticker:  ticker,
		Actor:   reg.Owner,
		Payload: events.TickerPayload{Owner: reg.Owner, Expiry: reg.Expiry},
	})
}

func (s *Service) emitIdentifiers(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, identifiers []AssetIdentifier) error {
	payload := events.IdentifiersPayload{
		Identifiers: make([]events.AssetIdentifierPayload, 0, len(identifiers)),
	}
	for _, id := range identifiers {
		payload.Identifiers = append(payload.Identifiers, events.AssetIdentifierPayload{
			Type:  string(id.Type),
			Value: id.Value,
		})
	}
	return s.events.Emit(ctx, events.Event{
		Type:    events.EventIdentifiersUpdated,
		Ticker:  ticker,
		Actor:   actor,
		Payload: payload,
	})
}

// ensureOwner requires the actor to hold the ticker or its asset.
func (s *Service) ensureOwner(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) error {
	ok, err := s.IsOwner(ctx, ticker, did)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotOwner
	}
	return nil
}

// ensureAssetFresh requires that no asset exists on the ticker yet.
func (s *Service) ensureAssetFresh(ctx context.Context, ticker domain.Ticker) error {
	_, err := s.store.Token(ctx, ticker)
	if err == nil {
		return ErrAssetAlreadyCreated
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load asset")
}

func (s *Service) ensureTickerASCII(ticker domain.Ticker) error {
	if ticker.Len() == 0 {
		return dErrors.New(dErrors.CodeValidation, "ticker cannot be empty")
	}
	if !ticker.IsPrintableASCII() {
		return ErrTickerNotASCII
	}
	return nil
}

func (s *Service) ensureTickerLength(ticker domain.Ticker) error {
	if ticker.Len() > s.cfg.MaxTickerLength {
		return ErrTickerTooLong
	}
	return nil
}

func validateActor(actor domain.IdentityID) error {
	if actor.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "actor identity is required")
	}
	return nil
}

func validateCounterparty(to domain.IdentityID) error {
	if to.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "counterparty identity is required")
	}
	return nil
}

func (s *Service) observe(op string, start time.Time, err *error) {
	s.metrics.ObserveMutation(op, *err, time.Since(start))
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
