package transfer

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"covenant/internal/asset"
	"covenant/internal/claims"
	"covenant/internal/compliance"
	"covenant/internal/ledger"
	"covenant/internal/transfer/metrics"
	"covenant/internal/transfer/ports"
	"covenant/pkg/domain"
	dErrors "covenant/pkg/domain-errors"
	"covenant/pkg/platform/events"
	"covenant/pkg/platform/tx"
)

var tracer = otel.Tracer("covenant/internal/transfer")

// Registry is the slice of the asset registry the pipeline reads and, on
// supply operations, writes through.
type Registry interface {
	Token(ctx context.Context, ticker domain.Ticker) (asset.SecurityToken, error)
	IsFrozen(ctx context.Context, ticker domain.Ticker) (bool, error)
	PIAOrOwner(ctx context.Context, ticker domain.Ticker) (domain.IdentityID, error)
	SetTotalSupply(ctx context.Context, ticker domain.Ticker, supply domain.Balance) error
	RecordIssuance(ctx context.Context, ticker domain.Ticker, amount domain.Balance) (string, domain.Balance, error)
}

// Ledger is the balance writer every commit path moves value through.
type Ledger interface {
	BalanceOf(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (domain.Balance, error)
	Credit(ctx context.Context, ticker domain.Ticker, did domain.IdentityID, amount domain.Balance) (domain.Balance, error)
	Debit(ctx context.Context, ticker domain.Ticker, did domain.IdentityID, amount domain.Balance) (domain.Balance, error)
	UpdateScopeBalance(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID, did domain.IdentityID, amount, updatedBalance domain.Balance, isDebit bool) error
	ScopeOf(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (domain.ScopeID, bool, error)
	AggregateBalance(ctx context.Context, ticker domain.Ticker, scope domain.ScopeID) (domain.Balance, error)
}

// Compliance verifies the asset's transfer restrictions.
type Compliance interface {
	VerifyRestriction(ctx context.Context, ticker domain.Ticker, from, to *domain.IdentityID, pia domain.IdentityID) (bool, error)
	GranularVerifyRestriction(ctx context.Context, ticker domain.Ticker, from, to *domain.IdentityID, pia domain.IdentityID) (compliance.ComplianceReport, error)
}

// EventPublisher emits pipeline events. Emit failures abort the commit.
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

// Service is the transfer validation pipeline. Diagnostics never write;
// commits run every storage mutation, events included, inside one runner
// boundary so collaborator failures leave nothing behind.
type Service struct {
	registry   Registry
	ledger     Ledger
	compliance Compliance
	claims     claims.Provider
	checkpoint ports.Checkpoint
	portfolio  ports.Portfolio
	statistics ports.Statistics
	runner     tx.Runner
	events     EventPublisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
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

// New constructs a Service.
func New(registry Registry, ldg Ledger, engine Compliance, provider claims.Provider,
	checkpoint ports.Checkpoint, portfolio ports.Portfolio, statistics ports.Statistics,
	runner tx.Runner, publisher EventPublisher, opts ...Option) *Service {
	s := &Service{
		registry:   registry,
		ledger:     ldg,
		compliance: engine,
		claims:     provider,
		checkpoint: checkpoint,
		portfolio:  portfolio,
		statistics: statistics,
		runner:     runner,
		events:     publisher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================================
// Diagnostics
// ============================================================================

// CanTransfer dry-runs the checks a transfer would face and reports the
// first failure as a status code. It evaluates in a fixed order: granularity,
// self-transfer, sender due diligence, scope bindings, sender custody,
// receiver due diligence, receiver custody, sender balance, portfolio
// validity, then the execution gate for freeze, statistics and compliance.
// Nil custodians default to the portfolio owners. Never mutates state.
func (s *Service) CanTransfer(ctx context.Context, fromCustodian *domain.IdentityID, from domain.PortfolioID, toCustodian *domain.IdentityID, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) (status Status, err error) {
	ctx, span := tracer.Start(ctx, "transfer.CanTransfer",
		trace.WithAttributes(attribute.String("ticker", string(ticker))))
	defer span.End()
	defer func(start time.Time) {
		if err == nil {
			s.metrics.ObserveCheck(status.String(), time.Since(start))
		}
	}(time.Now())

	token, err := s.registry.Token(ctx, ticker)
	if err != nil {
		return StatusTransferFailure, err
	}

	if !token.ValidGranularity(amount) {
		return StatusInvalidGranularity, nil
	}
	if from.Did == to.Did {
		return StatusInvalidReceiverIdentity, nil
	}

	senderCDD, err := s.hasValidCDD(ctx, from.Did)
	if err != nil {
		return StatusTransferFailure, err
	}
	if !senderCDD {
		return StatusInvalidSenderIdentity, nil
	}

	missing, err := s.missingScopeBinding(ctx, ticker, from.Did, to.Did)
	if err != nil {
		return StatusTransferFailure, err
	}
	if missing {
		return StatusScopeClaimMissing, nil
	}

	if s.portfolio.EnsureCustody(ctx, from, custodianOr(fromCustodian, from.Did)) != nil {
		return StatusCustodianError, nil
	}

	receiverCDD, err := s.hasValidCDD(ctx, to.Did)
	if err != nil {
		return StatusTransferFailure, err
	}
	if !receiverCDD {
		return StatusInvalidReceiverIdentity, nil
	}

	if s.portfolio.EnsureCustody(ctx, to, custodianOr(toCustodian, to.Did)) != nil {
		return StatusCustodianError, nil
	}

	balance, err := s.ledger.BalanceOf(ctx, ticker, from.Did)
	if err != nil {
		return StatusTransferFailure, err
	}
	if balance < amount {
		return StatusInsufficientBalance, nil
	}

	if s.portfolio.ValidateTransfer(ctx, from, to, ticker, amount) != nil {
		return StatusPortfolioFailure, nil
	}

	return s.validateTransfer(ctx, from, to, ticker, amount, token)
}

// CanTransferGranular evaluates every check independently and reports them
// all, so a caller fixing a transfer sees the whole picture instead of the
// first failure. Sender and receiver due-diligence verdicts each come from
// their own party. Never mutates state.
func (s *Service) CanTransferGranular(ctx context.Context, fromCustodian *domain.IdentityID, from domain.PortfolioID, toCustodian *domain.IdentityID, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) (report TransferReport, err error) {
	ctx, span := tracer.Start(ctx, "transfer.CanTransferGranular",
		trace.WithAttributes(attribute.String("ticker", string(ticker))))
	defer span.End()
	defer func(start time.Time) {
		if err == nil {
			status := StatusTransferFailure
			if report.Result {
				status = StatusTransferSuccess
			}
			s.metrics.ObserveCheck(status.String(), time.Since(start))
		}
	}(time.Now())

	token, err := s.registry.Token(ctx, ticker)
	if err != nil {
		return TransferReport{}, err
	}

	report.InvalidGranularity = !token.ValidGranularity(amount)
	report.SelfTransfer = from.Did == to.Did

	senderCDD, err := s.hasValidCDD(ctx, from.Did)
	if err != nil {
		return TransferReport{}, err
	}
	report.InvalidSenderCDD = !senderCDD

	receiverCDD, err := s.hasValidCDD(ctx, to.Did)
	if err != nil {
		return TransferReport{}, err
	}
	report.InvalidReceiverCDD = !receiverCDD

	report.MissingScopeClaim, err = s.missingScopeBinding(ctx, ticker, from.Did, to.Did)
	if err != nil {
		return TransferReport{}, err
	}

	report.SenderCustodianError = s.portfolio.EnsureCustody(ctx, from, custodianOr(fromCustodian, from.Did)) != nil
	report.ReceiverCustodianError = s.portfolio.EnsureCustody(ctx, to, custodianOr(toCustodian, to.Did)) != nil

	balance, err := s.ledger.BalanceOf(ctx, ticker, from.Did)
	if err != nil {
		return TransferReport{}, err
	}
	report.SenderInsufficientBalance = balance < amount

	report.AssetFrozen, err = s.registry.IsFrozen(ctx, ticker)
	if err != nil {
		return TransferReport{}, err
	}

	report.Portfolio = s.portfolio.ValidateTransferGranular(ctx, from, to, ticker, amount)

	fromScope, err := s.scopeOrZero(ctx, ticker, from.Did)
	if err != nil {
		return TransferReport{}, err
	}
	toScope, err := s.scopeOrZero(ctx, ticker, to.Did)
	if err != nil {
		return TransferReport{}, err
	}
	fromAggregate, err := s.ledger.AggregateBalance(ctx, ticker, fromScope)
	if err != nil {
		return TransferReport{}, err
	}
	toAggregate, err := s.ledger.AggregateBalance(ctx, ticker, toScope)
	if err != nil {
		return TransferReport{}, err
	}
	report.Statistics = s.statistics.VerifyLimitsGranular(ctx, ticker, fromScope, toScope, amount, fromAggregate, toAggregate, token.TotalSupply)

	report.Compliance, err = s.compliance.GranularVerifyRestriction(ctx, ticker, &from.Did, &to.Did, token.PIAOrOwner())
	if err != nil {
		return TransferReport{}, err
	}

	statisticsPassed := true
	for _, rule := range report.Statistics {
		statisticsPassed = statisticsPassed && rule.Passed
	}
	report.Result = !report.InvalidGranularity &&
		!report.SelfTransfer &&
		!report.InvalidSenderCDD &&
		!report.InvalidReceiverCDD &&
		!report.MissingScopeClaim &&
		!report.SenderCustodianError &&
		!report.ReceiverCustodianError &&
		!report.SenderInsufficientBalance &&
		!report.AssetFrozen &&
		report.Portfolio.Result &&
		statisticsPassed &&
		report.Compliance.Allowed()

	return report, nil
}

// validateTransfer is the execution gate every commit must clear:
// freeze state, scope bindings, portfolio validity, statistics limits,
// compliance. Short-circuits on the first failure.
func (s *Service) validateTransfer(ctx context.Context, from, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance, token asset.SecurityToken) (Status, error) {
	frozen, err := s.registry.IsFrozen(ctx, ticker)
	if err != nil {
		return StatusTransferFailure, err
	}
	if frozen {
		return StatusTransfersHalted, nil
	}

	fromScope, fromBound, err := s.ledger.ScopeOf(ctx, ticker, from.Did)
	if err != nil {
		return StatusTransferFailure, err
	}
	toScope, toBound, err := s.ledger.ScopeOf(ctx, ticker, to.Did)
	if err != nil {
		return StatusTransferFailure, err
	}
	if !fromBound || !toBound {
		return StatusScopeClaimMissing, nil
	}

	if s.portfolio.ValidateTransfer(ctx, from, to, ticker, amount) != nil {
		return StatusPortfolioFailure, nil
	}

	fromAggregate, err := s.ledger.AggregateBalance(ctx, ticker, fromScope)
	if err != nil {
		return StatusTransferFailure, err
	}
	toAggregate, err := s.ledger.AggregateBalance(ctx, ticker, toScope)
	if err != nil {
		return StatusTransferFailure, err
	}
	if s.statistics.VerifyLimits(ctx, ticker, fromScope, toScope, amount, fromAggregate, toAggregate, token.TotalSupply) != nil {
		return StatusStatisticsFailure, nil
	}

	ok, err := s.compliance.VerifyRestriction(ctx, ticker, &from.Did, &to.Did, token.PIAOrOwner())
	if err != nil {
		return StatusTransferFailure, err
	}
	if !ok {
		return StatusComplianceFailure, nil
	}
	return StatusTransferSuccess, nil
}

// ============================================================================
// Commits
// ============================================================================

// Transfer moves amount between two identities' portfolios. The full
// validation gate runs first; a rejection returns ErrInvalidTransfer with
// the status logged. Every write lands in one transactional boundary.
func (s *Service) Transfer(ctx context.Context, from, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) (err error) {
	ctx, span := tracer.Start(ctx, "transfer.Transfer",
		trace.WithAttributes(attribute.String("ticker", string(ticker))))
	defer span.End()
	defer func(start time.Time) {
		s.metrics.ObserveCommit("transfer", err, time.Since(start))
	}(time.Now())

	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		token, err := s.registry.Token(ctx, ticker)
		if err != nil {
			return err
		}
		status, err := s.validateTransfer(ctx, from, to, ticker, amount, token)
		if err != nil {
			return err
		}
		if !status.Ok() {
			s.logInfo(ctx, "transfer rejected",
				"ticker", ticker, "from", from.String(), "to", to.String(), "status", status.String())
			return ErrInvalidTransfer
		}
		return s.unsafeTransfer(ctx, token, from, to, ticker, amount)
	})
}

// ControllerTransfer forcibly moves amount out of an investor's portfolio
// into the issuance agent's default portfolio. It does not consult the
// validation gate: the whole point of a controller action is recovering
// holdings that ordinary rules would pin in place. Arithmetic and
// granularity guards still apply.
func (s *Service) ControllerTransfer(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, amount domain.Balance, fromPortfolio domain.PortfolioID) (err error) {
	ctx, span := tracer.Start(ctx, "transfer.ControllerTransfer",
		trace.WithAttributes(attribute.String("ticker", string(ticker))))
	defer span.End()
	defer func(start time.Time) {
		s.metrics.ObserveCommit("controller_transfer", err, time.Since(start))
	}(time.Now())

	if err := validateActor(actor); err != nil {
		return err
	}
	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		pia, err := s.ensureIssuanceAgent(ctx, actor, ticker)
		if err != nil {
			return err
		}
		token, err := s.registry.Token(ctx, ticker)
		if err != nil {
			return err
		}
		toPortfolio := domain.DefaultPortfolio(pia)
		if err := s.unsafeTransfer(ctx, token, fromPortfolio, toPortfolio, ticker, amount); err != nil {
			return err
		}
		s.logInfo(ctx, "controller transfer committed",
			"ticker", ticker, "from", fromPortfolio.String(), "amount", amount)
		return s.events.Emit(ctx, events.Event{
			Type:    events.EventControllerTransfer,
			Ticker:  ticker,
			Actor:   pia,
			Payload: events.TransferPayload{From: fromPortfolio, To: toPortfolio, Amount: amount},
		})
	})
}

// Issue mints amount to the issuance agent. Supply arithmetic is checked
// against overflow and the per-asset cap before anything moves; the
// checkpoint advance runs before the writes so a failed advance costs
// nothing.
func (s *Service) Issue(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, amount domain.Balance) (err error) {
	ctx, span := tracer.Start(ctx, "transfer.Issue",
		trace.WithAttributes(attribute.String("ticker", string(ticker))))
	defer span.End()
	defer func(start time.Time) {
		s.metrics.ObserveCommit("issue", err, time.Since(start))
	}(time.Now())

	if err := validateActor(actor); err != nil {
		return err
	}
	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		pia, err := s.ensureIssuanceAgent(ctx, actor, ticker)
		if err != nil {
			return err
		}
		token, err := s.registry.Token(ctx, ticker)
		if err != nil {
			return err
		}
		if !token.ValidGranularity(amount) {
			return ErrInvalidGranularity
		}
		updatedSupply, ok := token.TotalSupply.CheckedAdd(amount)
		if !ok {
			return ErrTotalSupplyOverflow
		}
		if updatedSupply > domain.MaxSupply {
			return ErrMaxSupplyExceeded
		}

		preBalance, err := s.ledger.BalanceOf(ctx, ticker, pia)
		if err != nil {
			return err
		}
		if err := s.advanceCheckpoint(ctx, ticker, ports.BalanceSnapshot{Identity: pia, Balance: preBalance}); err != nil {
			return err
		}

		updatedBalance, err := s.ledger.Credit(ctx, ticker, pia, amount)
		if err != nil {
			return err
		}
		if err := s.registry.SetTotalSupply(ctx, ticker, updatedSupply); err != nil {
			return err
		}

		defaultPortfolio := domain.DefaultPortfolio(pia)
		held, err := s.portfolio.Balance(ctx, defaultPortfolio, ticker)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load portfolio balance")
		}
		if err := s.portfolio.SetBalance(ctx, defaultPortfolio, ticker, held.SaturatingAdd(amount)); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed portfolio balance")
		}

		// The scope views move only for scope-bound receivers. An unbound
		// issuance agent is assumed to be the scope's only identity, so its
		// own pre-mint balance stands in for the scope aggregate.
		scope, bound, err := s.ledger.ScopeOf(ctx, ticker, pia)
		if err != nil {
			return err
		}
		receiverWasNew := preBalance == 0 && amount > 0
		if bound {
			preAggregate, err := s.ledger.AggregateBalance(ctx, ticker, scope)
			if err != nil {
				return err
			}
			receiverWasNew = preAggregate == 0 && amount > 0
			if err := s.ledger.UpdateScopeBalance(ctx, ticker, scope, pia, amount, updatedBalance, false); err != nil {
				return err
			}
		}
		s.statistics.UpdateTransferStats(ctx, ticker, false, receiverWasNew)

		round, issuedInRound, err := s.registry.RecordIssuance(ctx, ticker, amount)
		if err != nil {
			return err
		}

		s.logInfo(ctx, "supply issued",
			"ticker", ticker, "to", pia, "amount", amount, "total_supply", updatedSupply)
		if err := s.events.Emit(ctx, events.Event{
			Type:    events.EventTransfer,
			Ticker:  ticker,
			Actor:   pia,
			Payload: events.TransferPayload{To: defaultPortfolio, Amount: amount},
		}); err != nil {
			return err
		}
		return s.events.Emit(ctx, events.Event{
			Type:   events.EventIssued,
			Ticker: ticker,
			Actor:  pia,
			Payload: events.IssuedPayload{
				To:            pia,
				Amount:        amount,
				FundingRound:  round,
				IssuedInRound: issuedInRound,
			},
		})
	})
}

// Redeem burns amount out of the issuance agent's default portfolio and
// shrinks the total supply. The portfolio reduction enforces the free
// (unlocked) balance; the checkpoint advance is atomic with it.
func (s *Service) Redeem(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, amount domain.Balance) (err error) {
	ctx, span := tracer.Start(ctx, "transfer.Redeem",
		trace.WithAttributes(attribute.String("ticker", string(ticker))))
	defer span.End()
	defer func(start time.Time) {
		s.metrics.ObserveCommit("redeem", err, time.Since(start))
	}(time.Now())

	if err := validateActor(actor); err != nil {
		return err
	}
	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		pia, err := s.ensureIssuanceAgent(ctx, actor, ticker)
		if err != nil {
			return err
		}
		token, err := s.registry.Token(ctx, ticker)
		if err != nil {
			return err
		}
		if !token.ValidGranularity(amount) {
			return ErrInvalidGranularity
		}

		piaPortfolio := domain.DefaultPortfolio(pia)
		if err := s.portfolio.ReduceBalance(ctx, piaPortfolio, ticker, amount); err != nil {
			return err
		}
		preBalance, err := s.ledger.BalanceOf(ctx, ticker, pia)
		if err != nil {
			return err
		}
		if err := s.advanceCheckpoint(ctx, ticker, ports.BalanceSnapshot{Identity: pia, Balance: preBalance}); err != nil {
			return err
		}

		updatedBalance, err := s.ledger.Debit(ctx, ticker, pia, amount)
		if err != nil {
			return err
		}
		updatedSupply, ok := token.TotalSupply.CheckedSub(amount)
		if !ok {
			return ErrTotalSupplyUnderflow
		}
		if err := s.registry.SetTotalSupply(ctx, ticker, updatedSupply); err != nil {
			return err
		}

		scope, err := s.scopeOrZero(ctx, ticker, pia)
		if err != nil {
			return err
		}
		if err := s.ledger.UpdateScopeBalance(ctx, ticker, scope, pia, amount, updatedBalance, true); err != nil {
			return err
		}
		postAggregate, err := s.ledger.AggregateBalance(ctx, ticker, scope)
		if err != nil {
			return err
		}
		s.statistics.UpdateTransferStats(ctx, ticker, postAggregate == 0 && amount > 0, false)

		s.logInfo(ctx, "supply redeemed",
			"ticker", ticker, "from", pia, "amount", amount, "total_supply", updatedSupply)
		if err := s.events.Emit(ctx, events.Event{
			Type:    events.EventTransfer,
			Ticker:  ticker,
			Actor:   pia,
			Payload: events.TransferPayload{From: piaPortfolio, Amount: amount},
		}); err != nil {
			return err
		}
		return s.events.Emit(ctx, events.Event{
			Type:    events.EventRedeemed,
			Ticker:  ticker,
			Actor:   pia,
			Payload: events.RedeemedPayload{From: pia, Amount: amount},
		})
	})
}

// unsafeTransfer is the shared commit body. Callers have already run
// whatever gate applies; granularity, distinct identities, and the balance
// arithmetic are still enforced here so no commit path can bypass them.
// Both updated balances are computed and checked before the checkpoint
// advance, which in turn precedes every write.
func (s *Service) unsafeTransfer(ctx context.Context, token asset.SecurityToken, from, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) error {
	if !token.ValidGranularity(amount) {
		return ErrInvalidGranularity
	}
	if from.Did == to.Did {
		return ErrSenderSameAsReceiver
	}

	fromBalance, err := s.ledger.BalanceOf(ctx, ticker, from.Did)
	if err != nil {
		return err
	}
	if _, ok := fromBalance.CheckedSub(amount); !ok {
		return ledger.ErrInsufficientBalance
	}
	toBalance, err := s.ledger.BalanceOf(ctx, ticker, to.Did)
	if err != nil {
		return err
	}
	if _, ok := toBalance.CheckedAdd(amount); !ok {
		return ledger.ErrBalanceOverflow
	}

	if err := s.advanceCheckpoint(ctx, ticker,
		ports.BalanceSnapshot{Identity: from.Did, Balance: fromBalance},
		ports.BalanceSnapshot{Identity: to.Did, Balance: toBalance},
	); err != nil {
		return err
	}

	updatedFrom, err := s.ledger.Debit(ctx, ticker, from.Did, amount)
	if err != nil {
		return err
	}
	updatedTo, err := s.ledger.Credit(ctx, ticker, to.Did, amount)
	if err != nil {
		return err
	}
	if err := s.portfolio.TransferBalance(ctx, from, to, ticker, amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to move portfolio balance")
	}

	fromScope, err := s.scopeOrZero(ctx, ticker, from.Did)
	if err != nil {
		return err
	}
	toScope, err := s.scopeOrZero(ctx, ticker, to.Did)
	if err != nil {
		return err
	}
	// Read the receiving scope before the moves: a transfer within one
	// scope must leave the investor count alone, and the pre-move aggregate
	// is nonzero then because the sender's holding is already in it.
	preToAggregate, err := s.ledger.AggregateBalance(ctx, ticker, toScope)
	if err != nil {
		return err
	}
	if err := s.ledger.UpdateScopeBalance(ctx, ticker, fromScope, from.Did, amount, updatedFrom, true); err != nil {
		return err
	}
	if err := s.ledger.UpdateScopeBalance(ctx, ticker, toScope, to.Did, amount, updatedTo, false); err != nil {
		return err
	}
	postFromAggregate, err := s.ledger.AggregateBalance(ctx, ticker, fromScope)
	if err != nil {
		return err
	}
	s.statistics.UpdateTransferStats(ctx, ticker,
		postFromAggregate == 0 && amount > 0, preToAggregate == 0 && amount > 0)

	s.logInfo(ctx, "transfer committed",
		"ticker", ticker, "from", from.String(), "to", to.String(), "amount", amount)
	return s.events.Emit(ctx, events.Event{
		Type:    events.EventTransfer,
		Ticker:  ticker,
		Actor:   from.Did,
		Payload: events.TransferPayload{From: from, To: to, Amount: amount},
	})
}

// ============================================================================
// Internals
// ============================================================================

// ensureIssuanceAgent resolves who holds issuance authority and requires the
// actor to be them, still holding custody of their own default portfolio.
func (s *Service) ensureIssuanceAgent(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker) (domain.IdentityID, error) {
	pia, err := s.registry.PIAOrOwner(ctx, ticker)
	if err != nil {
		return domain.IdentityID{}, err
	}
	if pia != actor {
		return domain.IdentityID{}, ErrNotIssuanceAgent
	}
	if err := s.portfolio.EnsureCustody(ctx, domain.DefaultPortfolio(pia), actor); err != nil {
		return domain.IdentityID{}, err
	}
	return pia, nil
}

func (s *Service) hasValidCDD(ctx context.Context, did domain.IdentityID) (bool, error) {
	valid, err := s.claims.HasValidCDD(ctx, did)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check due diligence")
	}
	return valid, nil
}

// missingScopeBinding reports whether either party lacks a scope binding
// for the asset.
func (s *Service) missingScopeBinding(ctx context.Context, ticker domain.Ticker, fromDid, toDid domain.IdentityID) (bool, error) {
	_, fromBound, err := s.ledger.ScopeOf(ctx, ticker, fromDid)
	if err != nil {
		return false, err
	}
	_, toBound, err := s.ledger.ScopeOf(ctx, ticker, toDid)
	if err != nil {
		return false, err
	}
	return !fromBound || !toBound, nil
}

// scopeOrZero resolves an identity's scope binding, defaulting to the zero
// scope for unbound identities so their aggregates pool there.
func (s *Service) scopeOrZero(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (domain.ScopeID, error) {
	scope, _, err := s.ledger.ScopeOf(ctx, ticker, did)
	return scope, err
}

func (s *Service) advanceCheckpoint(ctx context.Context, ticker domain.Ticker, balances ...ports.BalanceSnapshot) error {
	if err := s.checkpoint.AdvanceAndRecord(ctx, ticker, balances); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to advance checkpoint")
	}
	return nil
}

func custodianOr(custodian *domain.IdentityID, fallback domain.IdentityID) domain.IdentityID {
	if custodian != nil {
		return *custodian
	}
	return fallback
}

func validateActor(actor domain.IdentityID) error {
	if actor.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "actor identity is required")
	}
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
