package compliance

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"covenant/internal/claims"
	"covenant/internal/compliance/metrics"
	"covenant/pkg/domain"
	dErrors "covenant/pkg/domain-errors"
	"covenant/pkg/platform/events"
	"covenant/pkg/platform/tx"
)

// Config carries the engine's tunable budget.
type Config struct {
	// MaxComplexity caps the worst-case claim fetches one verification of
	// the full rule set can trigger.
	MaxComplexity uint64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{MaxComplexity: 50}
}

func (c Config) withDefaults() Config {
	if c.MaxComplexity == 0 {
		c.MaxComplexity = DefaultConfig().MaxComplexity
	}
	return c
}

type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

// Registry answers asset ownership questions. The asset service implements
// it; compliance needs nothing else from the registry.
type Registry interface {
	IsOwner(ctx context.Context, ticker domain.Ticker, did domain.IdentityID) (bool, error)
}

// Service owns the per-asset rule sets and answers the one question the
// transfer pipeline asks: may this sender move this asset to this receiver.
type Service struct {
	store    Store
	runner   tx.Runner
	events   EventPublisher
	claims   claims.Provider
	registry Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
	cfg      Config
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

// New constructs a Service. Every mutation runs its writes, including the
// emitted events, inside one boundary of the given runner.
func New(store Store, runner tx.Runner, publisher EventPublisher, provider claims.Provider, registry Registry, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:    store,
		runner:   runner,
		events:   publisher,
		claims:   provider,
		registry: registry,
		cfg:      cfg.withDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================================
// Verification
// ============================================================================

// VerifyRestriction reports whether a transfer passes the asset's rules.
// Requirements are tried in insertion order and the first one satisfied on
// both sides passes. A nil from or to probes one side only; the unsupplied
// side of every requirement is vacuously satisfied, so a requirement with no
// conditions at all passes any probe. Paused compliance passes everything
// without evaluating.
func (s *Service) VerifyRestriction(ctx context.Context, ticker domain.Ticker, from, to *domain.IdentityID, pia domain.IdentityID) (satisfied bool, err error) {
	defer func(start time.Time) {
		s.metrics.ObserveVerification(satisfied, err, time.Since(start))
	}(time.Now())

	record, err := s.record(ctx, ticker)
	if err != nil {
		return false, err
	}
	if record.Paused {
		return true, nil
	}
	if len(record.Requirements) == 0 {
		// No rules were ever configured: the asset is not yet open for
		// transfers, as opposed to paused, which opens it wide.
		return false, nil
	}

	trusted, err := s.trustedIssuers(ctx, ticker)
	if err != nil {
		return false, err
	}

	for _, req := range record.Requirements {
		ok, err := s.requirementSatisfied(ctx, req, from, to, pia, trusted)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// GranularVerifyRestriction evaluates every condition of every requirement,
// short-circuiting nothing, and reports each verdict. Paused state is
// carried on the report but does not suppress evaluation; Satisfied is the
// plain OR over requirements and Allowed folds the paused flag back in.
func (s *Service) GranularVerifyRestriction(ctx context.Context, ticker domain.Ticker, from, to *domain.IdentityID, pia domain.IdentityID) (ComplianceReport, error) {
	record, err := s.record(ctx, ticker)
	if err != nil {
		return ComplianceReport{}, err
	}
	trusted, err := s.trustedIssuers(ctx, ticker)
	if err != nil {
		return ComplianceReport{}, err
	}

	report := ComplianceReport{Paused: record.Paused}
	for _, req := range record.Requirements {
		rr := RequirementReport{ID: req.ID, Satisfied: true}

		rr.SenderResults, err = s.evaluateSide(ctx, req.SenderConditions, from, pia, trusted)
		if err != nil {
			return ComplianceReport{}, err
		}
		rr.ReceiverResults, err = s.evaluateSide(ctx, req.ReceiverConditions, to, pia, trusted)
		if err != nil {
			return ComplianceReport{}, err
		}

		for _, res := range rr.SenderResults {
			rr.Satisfied = rr.Satisfied && res.Satisfied
		}
		for _, res := range rr.ReceiverResults {
			rr.Satisfied = rr.Satisfied && res.Satisfied
		}

		report.Satisfied = report.Satisfied || rr.Satisfied
		report.Requirements = append(report.Requirements, rr)
	}
	return report, nil
}

func (s *Service) requirementSatisfied(ctx context.Context, req ComplianceRequirement, from, to *domain.IdentityID, pia domain.IdentityID, trusted []domain.IdentityID) (bool, error) {
	ok, err := s.sideSatisfied(ctx, req.SenderConditions, from, pia, trusted)
	if err != nil || !ok {
		return false, err
	}
	return s.sideSatisfied(ctx, req.ReceiverConditions, to, pia, trusted)
}

func (s *Service) sideSatisfied(ctx context.Context, conds []Condition, target *domain.IdentityID, pia domain.IdentityID, trusted []domain.IdentityID) (bool, error) {
	if target == nil {
		return true, nil
	}
	for _, cond := range conds {
		ok, err := s.conditionSatisfied(ctx, cond, *target, pia, trusted)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (s *Service) evaluateSide(ctx context.Context, conds []Condition, target *domain.IdentityID, pia domain.IdentityID, trusted []domain.IdentityID) ([]ConditionResult, error) {
	if len(conds) == 0 {
		return nil, nil
	}
	results := make([]ConditionResult, 0, len(conds))
	for _, cond := range conds {
		satisfied := true
		if target != nil {
			var err error
			satisfied, err = s.conditionSatisfied(ctx, cond, *target, pia, trusted)
			if err != nil {
				return nil, err
			}
		}
		results = append(results, ConditionResult{Condition: cond, Satisfied: satisfied})
	}
	return results, nil
}

func (s *Service) conditionSatisfied(ctx context.Context, cond Condition, target, pia domain.IdentityID, trusted []domain.IdentityID) (bool, error) {
	fetched, err := s.fetchConditionClaims(ctx, cond, target, trusted)
	if err != nil {
		return false, err
	}
	return evaluate(cond, evaluationContext{target: target, pia: pia, claims: fetched}), nil
}

// fetchConditionClaims collects the attestations one condition evaluates
// against: one lookup per referenced claim per counting issuer. A condition
// with no explicit issuers on an asset with no trusted issuers fetches
// nothing, so presence conditions cannot pass.
func (s *Service) fetchConditionClaims(ctx context.Context, cond Condition, target domain.IdentityID, trusted []domain.IdentityID) ([]domain.Claim, error) {
	issuers := cond.Issuers
	if len(issuers) == 0 {
		issuers = trusted
	}
	if len(issuers) == 0 {
		return nil, nil
	}

	var fetched []domain.Claim
	for _, want := range cond.referencedClaims() {
		for _, issuer := range issuers {
			claim, err := s.claims.FetchClaim(ctx, target, want.Type, issuer, want.Scope)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch claim")
			}
			if claim != nil {
				fetched = append(fetched, *claim)
			}
		}
	}
	return fetched, nil
}

// ============================================================================
// Reads
// ============================================================================

// Compliance returns the asset's full rule record.
func (s *Service) Compliance(ctx context.Context, ticker domain.Ticker) (AssetCompliance, error) {
	return s.record(ctx, ticker)
}

// TrustedIssuers returns the asset's default issuer list in insertion order.
func (s *Service) TrustedIssuers(ctx context.Context, ticker domain.Ticker) ([]domain.IdentityID, error) {
	return s.trustedIssuers(ctx, ticker)
}

// ============================================================================
// Requirement mutations
// ============================================================================

// AddRequirement appends a requirement under the next id. Re-adding an
// exact condition pair is a no-op returning the existing requirement, so
// retries never inflate the rule set.
func (s *Service) AddRequirement(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, senderConds, receiverConds []Condition) (req ComplianceRequirement, err error) {
	defer s.observe("add_requirement", time.Now(), &err)

	err = s.withOwner(ctx, actor, ticker, func(ctx context.Context) error {
		record, err := s.record(ctx, ticker)
		if err != nil {
			return err
		}

		candidate := ComplianceRequirement{
			ID:                 record.LatestID + 1,
			SenderConditions:   cloneConditions(senderConds),
			ReceiverConditions: cloneConditions(receiverConds),
		}
		for _, existing := range record.Requirements {
			if existing.sameConditions(candidate) {
				req = existing.clone()
				return nil
			}
		}

		record.Requirements = append(record.Requirements, candidate)
		record.LatestID = candidate.ID
		if err := s.ensureComplexity(ctx, ticker, record.Requirements); err != nil {
			return err
		}
		if err := s.putRecord(ctx, ticker, record); err != nil {
			return err
		}
		req = candidate

		s.logInfo(ctx, "compliance requirement added",
			"ticker", ticker, "requirement_id", candidate.ID)
		return s.emit(ctx, actor, ticker, events.EventComplianceRequirementCreated, events.RequirementPayload{
			RequirementID: candidate.ID,
			SenderRules:   len(senderConds),
			ReceiverRules: len(receiverConds),
		})
	})
	if err != nil {
		return ComplianceRequirement{}, err
	}
	return req, nil
}

// RemoveRequirement deletes a requirement by id. Ids are never reused, so a
// stale id is an error, not a no-op.
func (s *Service) RemoveRequirement(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, id uint32) (err error) {
	defer s.observe("remove_requirement", time.Now(), &err)

	return s.withOwner(ctx, actor, ticker, func(ctx context.Context) error {
		record, err := s.record(ctx, ticker)
		if err != nil {
			return err
		}
		idx := slices.IndexFunc(record.Requirements, func(r ComplianceRequirement) bool { return r.ID == id })
		if idx < 0 {
			return ErrInvalidRequirementID
		}
		record.Requirements = slices.Delete(record.Requirements, idx, idx+1)
		if err := s.putRecord(ctx, ticker, record); err != nil {
			return err
		}
		return s.emit(ctx, actor, ticker, events.EventComplianceRequirementRemoved, events.RequirementPayload{
			RequirementID: id,
		})
	})
}

// ReplaceCompliance swaps the whole requirement list. Ids may be arbitrary
// but must be unique; the batch is stored in the order given, since
// requirements are evaluated first to last and a replace-then-read must
// round-trip. The id counter still advances past the highest id in the
// batch so later adds never collide. The paused flag is untouched.
func (s *Service) ReplaceCompliance(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, reqs []ComplianceRequirement) (err error) {
	defer s.observe("replace_compliance", time.Now(), &err)

	return s.withOwner(ctx, actor, ticker, func(ctx context.Context) error {
		seen := make(map[uint32]struct{}, len(reqs))
		for _, req := range reqs {
			if _, dup := seen[req.ID]; dup {
				return ErrDuplicateRequirements
			}
			seen[req.ID] = struct{}{}
		}

		replacement := cloneRequirements(reqs)
		if err := s.ensureComplexity(ctx, ticker, replacement); err != nil {
			return err
		}

		record, err := s.record(ctx, ticker)
		if err != nil {
			return err
		}
		record.Requirements = replacement
		for _, req := range replacement {
			if req.ID > record.LatestID {
				record.LatestID = req.ID
			}
		}
		if err := s.putRecord(ctx, ticker, record); err != nil {
			return err
		}
		return s.emit(ctx, actor, ticker, events.EventAssetComplianceReplaced, events.CompliancePayload{
			Requirements: len(replacement),
			Paused:       record.Paused,
		})
	})
}

// ResetCompliance clears the rule record, requirements and paused flag
// both. Trusted issuers survive a reset.
func (s *Service) ResetCompliance(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker) (err error) {
	defer s.observe("reset_compliance", time.Now(), &err)

	return s.withOwner(ctx, actor, ticker, func(ctx context.Context) error {
		record, err := s.record(ctx, ticker)
		if err != nil {
			return err
		}
		// The id counter survives so ids from before the reset are never reissued.
		if err := s.putRecord(ctx, ticker, AssetCompliance{LatestID: record.LatestID}); err != nil {
			return err
		}
		return s.emit(ctx, actor, ticker, events.EventAssetComplianceReset, events.CompliancePayload{})
	})
}

// ChangeRequirement swaps one requirement in place. An id above the latest
// issued one was never created and errors; an id at or below it whose
// requirement was since removed is a silent no-op, since ids are never
// reissued.
func (s *Service) ChangeRequirement(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, req ComplianceRequirement) (err error) {
	defer s.observe("change_requirement", time.Now(), &err)

	return s.withOwner(ctx, actor, ticker, func(ctx context.Context) error {
		record, err := s.record(ctx, ticker)
		if err != nil {
			return err
		}
		if req.ID > record.LatestID {
			return ErrInvalidRequirementID
		}
		idx := slices.IndexFunc(record.Requirements, func(r ComplianceRequirement) bool { return r.ID == req.ID })
		if idx < 0 {
			return nil
		}

		record.Requirements[idx] = req.clone()
		if err := s.ensureComplexity(ctx, ticker, record.Requirements); err != nil {
			return err
		}
		if err := s.putRecord(ctx, ticker, record); err != nil {
			return err
		}
		return s.emit(ctx, actor, ticker, events.EventComplianceRequirementChanged, events.RequirementPayload{
			RequirementID: req.ID,
			SenderRules:   len(req.SenderConditions),
			ReceiverRules: len(req.ReceiverConditions),
		})
	})
}

// ChangeRequirements swaps several requirements at once. At least one id
// must have been issued; ids whose requirements were since removed are
// skipped. The complexity budget is checked once against the final set.
func (s *Service) ChangeRequirements(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, reqs []ComplianceRequirement) (err error) {
	defer s.observe("change_requirements", time.Now(), &err)

	if len(reqs) == 0 {
		return ErrEmptyBatch
	}
	return s.withOwner(ctx, actor, ticker, func(ctx context.Context) error {
		record, err := s.record(ctx, ticker)
		if err != nil {
			return err
		}
		latest := record.LatestID

		anyIssued := false
		for _, req := range reqs {
			if req.ID <= latest {
				anyIssued = true
				break
			}
		}
		if !anyIssued {
			return ErrInvalidRequirementID
		}

		var applied []ComplianceRequirement
		for _, req := range reqs {
			idx := slices.IndexFunc(record.Requirements, func(r ComplianceRequirement) bool { return r.ID == req.ID })
			if idx < 0 {
				continue
			}
			record.Requirements[idx] = req.clone()
			applied = append(applied, req)
		}

		if err := s.ensureComplexity(ctx, ticker, record.Requirements); err != nil {
			return err
		}
		if err := s.putRecord(ctx, ticker, record); err != nil {
			return err
		}
		for _, req := range applied {
			if err := s.emit(ctx, actor, ticker, events.EventComplianceRequirementChanged, events.RequirementPayload{
				RequirementID: req.ID,
				SenderRules:   len(req.SenderConditions),
				ReceiverRules: len(req.ReceiverConditions),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// PauseCompliance suspends enforcement: every transfer passes until resumed.
// The rule set is untouched.
func (s *Service) PauseCompliance(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker) (err error) {
	defer s.observe("pause_compliance", time.Now(), &err)
	return s.setPaused(ctx, actor, ticker, true)
}

// ResumeCompliance reinstates enforcement.
func (s *Service) ResumeCompliance(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker) (err error) {
	defer s.observe("resume_compliance", time.Now(), &err)
	return s.setPaused(ctx, actor, ticker, false)
}

func (s *Service) setPaused(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, paused bool) error {
	return s.withOwner(ctx, actor, ticker, func(ctx context.Context) error {
		record, err := s.record(ctx, ticker)
		if err != nil {
			return err
		}
		record.Paused = paused
		if err := s.putRecord(ctx, ticker, record); err != nil {
			return err
		}

		eventType := events.EventAssetCompliancePaused
		if !paused {
			eventType = events.EventAssetComplianceResumed
		}
		s.logInfo(ctx, "compliance enforcement toggled", "ticker", ticker, "paused", paused)
		return s.emit(ctx, actor, ticker, eventType, nil)
	})
}

// ============================================================================
// Trusted issuer mutations
// ============================================================================

// AddTrustedIssuer appends an issuer to the asset's default list. Because
// conditions without explicit issuers fan out over this list, the
// complexity budget is re-checked with the prospective count before the
// write.
func (s *Service) AddTrustedIssuer(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, issuer domain.IdentityID) (err error) {
	defer s.observe("add_trusted_issuer", time.Now(), &err)

	return s.withOwner(ctx, actor, ticker, func(ctx context.Context) error {
		trusted, err := s.validateNewIssuers(ctx, ticker, []domain.IdentityID{issuer})
		if err != nil {
			return err
		}
		trusted = append(trusted, issuer)
		if err := s.putTrustedIssuers(ctx, ticker, trusted); err != nil {
			return err
		}
		return s.emit(ctx, actor, ticker, events.EventTrustedIssuerAdded, events.TrustedIssuerPayload{Issuer: issuer})
	})
}

// RemoveTrustedIssuer drops an issuer from the default list. Removing one
// that is not listed is an error so callers notice disagreement about the
// current state.
func (s *Service) RemoveTrustedIssuer(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, issuer domain.IdentityID) (err error) {
	defer s.observe("remove_trusted_issuer", time.Now(), &err)

	return s.withOwner(ctx, actor, ticker, func(ctx context.Context) error {
		trusted, err := s.trustedIssuers(ctx, ticker)
		if err != nil {
			return err
		}
		idx := slices.Index(trusted, issuer)
		if idx < 0 {
			return ErrIncorrectIssuerOperation
		}
		trusted = slices.Delete(trusted, idx, idx+1)
		if err := s.putTrustedIssuers(ctx, ticker, trusted); err != nil {
			return err
		}
		return s.emit(ctx, actor, ticker, events.EventTrustedIssuerRemoved, events.TrustedIssuerPayload{Issuer: issuer})
	})
}

// AddTrustedIssuers is the batch form: every issuer is validated before any
// is written, so the batch applies entirely or not at all.
func (s *Service) AddTrustedIssuers(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, issuers []domain.IdentityID) (err error) {
	defer s.observe("add_trusted_issuers", time.Now(), &err)

	if len(issuers) == 0 {
		return ErrEmptyBatch
	}
	return s.withOwner(ctx, actor, ticker, func(ctx context.Context) error {
		trusted, err := s.validateNewIssuers(ctx, ticker, issuers)
		if err != nil {
			return err
		}
		trusted = append(trusted, issuers...)
		if err := s.putTrustedIssuers(ctx, ticker, trusted); err != nil {
			return err
		}
		for _, issuer := range issuers {
			if err := s.emit(ctx, actor, ticker, events.EventTrustedIssuerAdded, events.TrustedIssuerPayload{Issuer: issuer}); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveTrustedIssuers is the batch form of RemoveTrustedIssuer.
func (s *Service) RemoveTrustedIssuers(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, issuers []domain.IdentityID) (err error) {
	defer s.observe("remove_trusted_issuers", time.Now(), &err)

	if len(issuers) == 0 {
		return ErrEmptyBatch
	}
	return s.withOwner(ctx, actor, ticker, func(ctx context.Context) error {
		trusted, err := s.trustedIssuers(ctx, ticker)
		if err != nil {
			return err
		}
		for _, issuer := range issuers {
			idx := slices.Index(trusted, issuer)
			if idx < 0 {
				return ErrIncorrectIssuerOperation
			}
			trusted = slices.Delete(trusted, idx, idx+1)
		}
		if err := s.putTrustedIssuers(ctx, ticker, trusted); err != nil {
			return err
		}
		for _, issuer := range issuers {
			if err := s.emit(ctx, actor, ticker, events.EventTrustedIssuerRemoved, events.TrustedIssuerPayload{Issuer: issuer}); err != nil {
				return err
			}
		}
		return nil
	})
}

// validateNewIssuers checks existence, duplicates (against the current list
// and within the batch), and the prospective complexity. It returns the
// current list so callers can append.
func (s *Service) validateNewIssuers(ctx context.Context, ticker domain.Ticker, issuers []domain.IdentityID) ([]domain.IdentityID, error) {
	trusted, err := s.trustedIssuers(ctx, ticker)
	if err != nil {
		return nil, err
	}

	seen := make(map[domain.IdentityID]struct{}, len(issuers))
	for _, issuer := range issuers {
		exists, err := s.claims.IdentityExists(ctx, issuer)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve issuer identity")
		}
		if !exists {
			return nil, ErrIdentityNotFound
		}
		if _, dup := seen[issuer]; dup {
			return nil, ErrIncorrectIssuerOperation
		}
		if slices.Contains(trusted, issuer) {
			return nil, ErrIncorrectIssuerOperation
		}
		seen[issuer] = struct{}{}
	}

	record, err := s.record(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBudget(record.Requirements, len(trusted)+len(issuers)); err != nil {
		return nil, err
	}
	return trusted, nil
}

// ============================================================================
// Internals
// ============================================================================

func (s *Service) withOwner(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, fn func(ctx context.Context) error) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		owner, err := s.registry.IsOwner(ctx, ticker, actor)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check asset ownership")
		}
		if !owner {
			return ErrNotOwner
		}
		return fn(ctx)
	})
}

func (s *Service) ensureComplexity(ctx context.Context, ticker domain.Ticker, reqs []ComplianceRequirement) error {
	trusted, err := s.trustedIssuers(ctx, ticker)
	if err != nil {
		return err
	}
	return s.ensureBudget(reqs, len(trusted))
}

func (s *Service) ensureBudget(reqs []ComplianceRequirement, trustedIssuerCount int) error {
	if cost := setComplexity(reqs, trustedIssuerCount); cost > s.cfg.MaxComplexity {
		return ErrComplianceTooComplex
	}
	return nil
}

func (s *Service) record(ctx context.Context, ticker domain.Ticker) (AssetCompliance, error) {
	record, err := s.store.Compliance(ctx, ticker)
	if err != nil {
		return AssetCompliance{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load compliance record")
	}
	return record, nil
}

func (s *Service) putRecord(ctx context.Context, ticker domain.Ticker, record AssetCompliance) error {
	if err := s.store.PutCompliance(ctx, ticker, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store compliance record")
	}
	return nil
}

func (s *Service) trustedIssuers(ctx context.Context, ticker domain.Ticker) ([]domain.IdentityID, error) {
	trusted, err := s.store.TrustedIssuers(ctx, ticker)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load trusted issuers")
	}
	return trusted, nil
}

func (s *Service) putTrustedIssuers(ctx context.Context, ticker domain.Ticker, issuers []domain.IdentityID) error {
	if err := s.store.PutTrustedIssuers(ctx, ticker, issuers); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store trusted issuers")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, actor domain.IdentityID, ticker domain.Ticker, eventType events.EventType, payload any) error {
	return s.events.Emit(ctx, events.Event{
		Type:    eventType,
		Ticker:  ticker,
		Actor:   actor,
		Payload: payload,
	})
}

func validateActor(actor domain.IdentityID) error {
	if actor.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "actor identity is required")
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
