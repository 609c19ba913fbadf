package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"covenant/internal/asset"
	"covenant/internal/claims"
	"covenant/internal/compliance"
	"covenant/internal/ledger"
	"covenant/internal/transfer/ports"
	"covenant/internal/transfer/ports/mocks"
	"covenant/pkg/domain"
	dErrors "covenant/pkg/domain-errors"
	"covenant/pkg/platform/events"
	"covenant/pkg/platform/events/store/memory"
	"covenant/pkg/platform/tx"
)

// =============================================================================
// Transfer Pipeline Test Suite
// =============================================================================
// The pipeline is wired against the real registry, ledger, and compliance
// services over in-memory stores, so these tests exercise the same paths the
// single-process server runs: the ordered diagnostic, the execution gate,
// and the commit semantics that keep every balance view consistent.

type TransferServiceSuite struct {
	suite.Suite
	assets     *asset.Service
	balances   *ledger.Service
	engine     *compliance.Service
	provider   *claims.InMemoryProvider
	portfolio  *ports.InMemoryPortfolio
	statistics *ports.InMemoryStatistics
	checkpoint *ports.InMemoryCheckpoint
	eventStore *memory.InMemoryStore
	publisher  *events.Publisher
	runner     *tx.LockRunner
	service    *Service

	owner  domain.IdentityID
	issuer domain.IdentityID
	alice  domain.IdentityID
	bob    domain.IdentityID
	ctx    context.Context
}

func TestTransferServiceSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceSuite))
}

func (s *TransferServiceSuite) SetupTest() {
	s.eventStore = memory.NewInMemoryStore()
	s.runner = &tx.LockRunner{}
	s.publisher = events.NewPublisher(s.eventStore)
	s.provider = claims.NewInMemoryProvider()

	s.assets = asset.New(asset.NewInMemoryStore(), s.runner, s.publisher, asset.Config{})
	s.balances = ledger.New(ledger.NewInMemoryStore(), s.runner, s.publisher)
	s.engine = compliance.New(compliance.NewInMemoryStore(), s.runner, s.publisher,
		s.provider, s.assets, compliance.Config{})

	s.portfolio = ports.NewInMemoryPortfolio()
	s.statistics = ports.NewInMemoryStatistics()
	s.checkpoint = ports.NewInMemoryCheckpoint()

	s.service = New(s.assets, s.balances, s.engine, s.provider,
		s.checkpoint, s.portfolio, s.statistics, s.runner, s.publisher)

	s.owner = domain.NewIdentityID()
	s.issuer = domain.NewIdentityID()
	s.alice = domain.NewIdentityID()
	s.bob = domain.NewIdentityID()
	s.provider.SetCDD(s.owner, true)
	s.provider.SetCDD(s.alice, true)
	s.provider.SetCDD(s.bob, true)
	s.provider.RegisterIdentity(s.issuer)
	s.ctx = context.Background()
}

// =============================================================================
// Fixtures
// =============================================================================

func (s *TransferServiceSuite) createAsset(divisible bool) {
	_, err := s.assets.CreateAsset(s.ctx, s.owner, "ACME", asset.CreateAssetParams{
		Name:      "Acme Holdings",
		Type:      asset.TypeEquityCommon,
		Divisible: divisible,
	})
	s.Require().NoError(err)
}

// openCompliance installs one unconditional requirement, so the gate's
// compliance leg passes for anyone.
func (s *TransferServiceSuite) openCompliance() {
	_, err := s.engine.AddRequirement(s.ctx, s.owner, "ACME", nil, nil)
	s.Require().NoError(err)
}

func (s *TransferServiceSuite) bindScope(did domain.IdentityID) {
	s.Require().NoError(s.balances.RebindScope(s.ctx, "ACME", did, domain.ScopeFromIdentity(did)))
}

func (s *TransferServiceSuite) issue(amount domain.Balance) {
	s.Require().NoError(s.service.Issue(s.ctx, s.owner, "ACME", amount))
}

func (s *TransferServiceSuite) transfer(from, to domain.IdentityID, amount domain.Balance) error {
	return s.service.Transfer(s.ctx, domain.DefaultPortfolio(from), domain.DefaultPortfolio(to), "ACME", amount)
}

func (s *TransferServiceSuite) check(from, to domain.IdentityID, amount domain.Balance) Status {
	status, err := s.service.CanTransfer(s.ctx,
		nil, domain.DefaultPortfolio(from), nil, domain.DefaultPortfolio(to), "ACME", amount)
	s.Require().NoError(err)
	return status
}

func (s *TransferServiceSuite) granular(from, to domain.IdentityID, amount domain.Balance) TransferReport {
	report, err := s.service.CanTransferGranular(s.ctx,
		nil, domain.DefaultPortfolio(from), nil, domain.DefaultPortfolio(to), "ACME", amount)
	s.Require().NoError(err)
	return report
}

func (s *TransferServiceSuite) balanceOf(did domain.IdentityID) domain.Balance {
	balance, err := s.balances.BalanceOf(s.ctx, "ACME", did)
	s.Require().NoError(err)
	return balance
}

func (s *TransferServiceSuite) portfolioBalance(p domain.PortfolioID) domain.Balance {
	balance, err := s.portfolio.Balance(s.ctx, p, "ACME")
	s.Require().NoError(err)
	return balance
}

func (s *TransferServiceSuite) aggregateOf(scope domain.ScopeID) domain.Balance {
	aggregate, err := s.balances.AggregateBalance(s.ctx, "ACME", scope)
	s.Require().NoError(err)
	return aggregate
}

func (s *TransferServiceSuite) totalSupply() domain.Balance {
	token, err := s.assets.Token(s.ctx, "ACME")
	s.Require().NoError(err)
	return token.TotalSupply
}

// assertConservation pins the core invariant: the identity balances of every
// holder sum exactly to the recorded total supply.
func (s *TransferServiceSuite) assertConservation(holders ...domain.IdentityID) {
	var sum domain.Balance
	for _, did := range holders {
		sum += s.balanceOf(did)
	}
	s.Equal(s.totalSupply(), sum)
}

func (s *TransferServiceSuite) tickerEvents() []events.Event {
	evts, err := s.eventStore.ListByTicker(s.ctx, "ACME")
	s.Require().NoError(err)
	return evts
}

func (s *TransferServiceSuite) lastEvents(n int) []events.Event {
	evts := s.tickerEvents()
	s.Require().GreaterOrEqual(len(evts), n)
	return evts[len(evts)-n:]
}

// setupLiquidAsset is the standard fixture: a divisible asset with open
// compliance, every suite identity scope-bound, 1000 units minted to the
// owner and 400 moved to alice.
func (s *TransferServiceSuite) setupLiquidAsset() {
	s.createAsset(true)
	s.openCompliance()
	s.bindScope(s.owner)
	s.bindScope(s.alice)
	s.bindScope(s.bob)
	s.issue(1_000 * domain.OneUnit)
	s.Require().NoError(s.transfer(s.owner, s.alice, 400*domain.OneUnit))
}

// =============================================================================
// Commit Semantics
// =============================================================================

func (s *TransferServiceSuite) TestTransferMovesEveryView() {
	s.setupLiquidAsset()

	s.Require().NoError(s.transfer(s.alice, s.bob, 150*domain.OneUnit))

	s.Run("identity balances", func() {
		s.Equal(250*domain.OneUnit, s.balanceOf(s.alice))
		s.Equal(150*domain.OneUnit, s.balanceOf(s.bob))
	})

	s.Run("portfolio balances", func() {
		s.Equal(250*domain.OneUnit, s.portfolioBalance(domain.DefaultPortfolio(s.alice)))
		s.Equal(150*domain.OneUnit, s.portfolioBalance(domain.DefaultPortfolio(s.bob)))
	})

	s.Run("scope views", func() {
		aliceScope := domain.ScopeFromIdentity(s.alice)
		bobScope := domain.ScopeFromIdentity(s.bob)
		s.Equal(250*domain.OneUnit, s.aggregateOf(aliceScope))
		s.Equal(150*domain.OneUnit, s.aggregateOf(bobScope))

		row, err := s.balances.BalanceAtScope(s.ctx, "ACME", aliceScope, s.alice)
		s.Require().NoError(err)
		s.Equal(250*domain.OneUnit, row)
	})

	s.Run("investor count", func() {
		s.Equal(uint64(3), s.statistics.InvestorCount("ACME"))
	})

	s.Run("checkpoint holds the pre-transfer balances", func() {
		batches := s.checkpoint.Recorded("ACME")
		s.Require().NotEmpty(batches)
		s.Equal([]ports.BalanceSnapshot{
			{Identity: s.alice, Balance: 400 * domain.OneUnit},
			{Identity: s.bob, Balance: 0},
		}, batches[len(batches)-1])
	})

	s.Run("transfer event", func() {
		last := s.lastEvents(1)[0]
		s.Equal(events.EventTransfer, last.Type)
		s.Equal(s.alice, last.Actor)
		s.Equal(events.TransferPayload{
			From:   domain.DefaultPortfolio(s.alice),
			To:     domain.DefaultPortfolio(s.bob),
			Amount: 150 * domain.OneUnit,
		}, last.Payload)
	})

	s.assertConservation(s.owner, s.alice, s.bob)
}

func (s *TransferServiceSuite) TestBalanceConservation() {
	s.setupLiquidAsset()
	s.assertConservation(s.owner, s.alice, s.bob)

	s.issue(500 * domain.OneUnit)
	s.assertConservation(s.owner, s.alice, s.bob)

	s.Require().NoError(s.transfer(s.alice, s.bob, 100*domain.OneUnit))
	s.assertConservation(s.owner, s.alice, s.bob)

	s.Require().NoError(s.service.Redeem(s.ctx, s.owner, "ACME", 200*domain.OneUnit))
	s.assertConservation(s.owner, s.alice, s.bob)

	s.Equal(1_300*domain.OneUnit, s.totalSupply())
}

func (s *TransferServiceSuite) TestRejectedTransferLeavesNoTrace() {
	s.setupLiquidAsset()
	s.Require().NoError(s.assets.Freeze(s.ctx, s.owner, "ACME"))

	eventsBefore := len(s.tickerEvents())
	batchesBefore := len(s.checkpoint.Recorded("ACME"))

	err := s.transfer(s.alice, s.bob, 10*domain.OneUnit)
	s.ErrorIs(err, ErrInvalidTransfer)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	s.Equal(400*domain.OneUnit, s.balanceOf(s.alice))
	s.Equal(domain.Balance(0), s.balanceOf(s.bob))
	s.Len(s.tickerEvents(), eventsBefore, "a rejected transfer emits nothing")
	s.Len(s.checkpoint.Recorded("ACME"), batchesBefore)
}

func (s *TransferServiceSuite) TestCheckpointFailureAbortsCommit() {
	s.setupLiquidAsset()

	ctrl := gomock.NewController(s.T())
	failing := mocks.NewMockCheckpoint(ctrl)
	failing.EXPECT().
		AdvanceAndRecord(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("schedule store down"))

	svc := New(s.assets, s.balances, s.engine, s.provider,
		failing, s.portfolio, s.statistics, s.runner, s.publisher)

	err := svc.Transfer(s.ctx,
		domain.DefaultPortfolio(s.alice), domain.DefaultPortfolio(s.bob), "ACME", 10*domain.OneUnit)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	s.Equal(400*domain.OneUnit, s.balanceOf(s.alice), "nothing may move after a failed advance")
	s.Equal(domain.Balance(0), s.balanceOf(s.bob))
	s.Equal(400*domain.OneUnit, s.portfolioBalance(domain.DefaultPortfolio(s.alice)))
}

func (s *TransferServiceSuite) TestTransferWithinOneIdentityRejected() {
	s.setupLiquidAsset()
	side := domain.UserPortfolio(s.alice, 1)
	s.portfolio.CreatePortfolio(side)

	err := s.service.Transfer(s.ctx, domain.DefaultPortfolio(s.alice), side, "ACME", 10*domain.OneUnit)
	s.ErrorIs(err, ErrSenderSameAsReceiver)
	s.Equal(400*domain.OneUnit, s.balanceOf(s.alice))
}

func (s *TransferServiceSuite) TestTransferUnknownAsset() {
	err := s.service.Transfer(s.ctx,
		domain.DefaultPortfolio(s.alice), domain.DefaultPortfolio(s.bob), "GHOST", domain.OneUnit)
	s.ErrorIs(err, asset.ErrAssetNotFound)
}

// =============================================================================
// Spec Scenarios
// =============================================================================

func (s *TransferServiceSuite) TestGranularityScenario() {
	s.createAsset(false)
	s.openCompliance()
	s.bindScope(s.owner)
	s.bindScope(s.alice)
	s.issue(2 * domain.OneUnit)

	s.Run("fractional amount is rejected", func() {
		err := s.transfer(s.owner, s.alice, 500_000)
		s.ErrorIs(err, ErrInvalidGranularity)
		s.Equal(2*domain.OneUnit, s.balanceOf(s.owner))

		s.Equal(StatusInvalidGranularity, s.check(s.owner, s.alice, 500_000))
	})

	s.Run("whole units move", func() {
		s.Equal(StatusTransferSuccess, s.check(s.owner, s.alice, domain.OneUnit))
		s.NoError(s.transfer(s.owner, s.alice, domain.OneUnit))
		s.Equal(domain.OneUnit, s.balanceOf(s.alice))
	})
}

func (s *TransferServiceSuite) TestComplianceOrAndScenario() {
	s.setupLiquidAsset()

	// Replace the open rule set: the sender must be accredited, the
	// receiver must hold KYC and must not be blocked.
	s.Require().NoError(s.engine.ResetCompliance(s.ctx, s.owner, "ACME"))
	s.Require().NoError(s.engine.AddTrustedIssuer(s.ctx, s.owner, "ACME", s.issuer))
	accredited := domain.Claim{Type: domain.ClaimTypeAccredited, Scope: "ACME"}
	blocked := domain.Claim{Type: domain.ClaimTypeBlocked, Scope: "ACME"}
	kyc := domain.Claim{Type: domain.ClaimTypeKnowYourCustomer, Scope: "ACME"}
	_, err := s.engine.AddRequirement(s.ctx, s.owner, "ACME",
		[]compliance.Condition{compliance.Present(accredited)},
		[]compliance.Condition{compliance.Absent(blocked), compliance.Present(kyc)})
	s.Require().NoError(err)

	s.provider.AddClaim(s.alice, s.issuer, accredited)
	s.provider.AddClaim(s.bob, s.issuer, kyc)

	s.Run("all receiver conditions holding admits the transfer", func() {
		s.Equal(StatusTransferSuccess, s.check(s.alice, s.bob, 10*domain.OneUnit))
		s.NoError(s.transfer(s.alice, s.bob, 10*domain.OneUnit))
	})

	s.Run("acquiring the blocking claim fails the whole requirement", func() {
		s.provider.AddClaim(s.bob, s.issuer, blocked)

		s.Equal(StatusComplianceFailure, s.check(s.alice, s.bob, 10*domain.OneUnit))
		s.ErrorIs(s.transfer(s.alice, s.bob, 10*domain.OneUnit), ErrInvalidTransfer)
	})
}

func (s *TransferServiceSuite) TestPausedComplianceOpensTheGate() {
	s.createAsset(true)
	s.bindScope(s.owner)
	s.bindScope(s.alice)
	s.issue(100 * domain.OneUnit)

	s.Run("no rules configured rejects everything", func() {
		s.Equal(StatusComplianceFailure, s.check(s.owner, s.alice, domain.OneUnit))
		s.ErrorIs(s.transfer(s.owner, s.alice, domain.OneUnit), ErrInvalidTransfer)
	})

	s.Run("pausing waves transfers through without rules", func() {
		s.Require().NoError(s.engine.PauseCompliance(s.ctx, s.owner, "ACME"))

		s.Equal(StatusTransferSuccess, s.check(s.owner, s.alice, domain.OneUnit))
		s.NoError(s.transfer(s.owner, s.alice, domain.OneUnit))
	})
}

// =============================================================================
// Ordered Diagnostic
// =============================================================================

// TestDiagnosticOrdering drives the single-status diagnostic through every
// verdict in its evaluation order. Each step breaks exactly one earlier
// check while later ones would also fail, pinning the precedence.
func (s *TransferServiceSuite) TestDiagnosticOrdering() {
	s.createAsset(false)
	s.openCompliance()
	s.bindScope(s.owner)
	s.bindScope(s.alice)
	s.issue(10 * domain.OneUnit)
	s.Require().NoError(s.transfer(s.owner, s.alice, 4*domain.OneUnit))

	s.Run("granularity outranks everything", func() {
		s.Equal(StatusInvalidGranularity, s.check(s.alice, s.alice, 500_000))
	})

	s.Run("self transfer", func() {
		s.Equal(StatusInvalidReceiverIdentity, s.check(s.alice, s.alice, domain.OneUnit))
	})

	s.Run("sender due diligence", func() {
		s.provider.SetCDD(s.alice, false)
		s.Equal(StatusInvalidSenderIdentity, s.check(s.alice, s.bob, domain.OneUnit))
		s.provider.SetCDD(s.alice, true)
	})

	s.Run("scope binding", func() {
		// bob has no binding yet; his CDD is fine.
		s.Equal(StatusScopeClaimMissing, s.check(s.alice, s.bob, domain.OneUnit))
		s.bindScope(s.bob)
	})

	s.Run("sender custody", func() {
		s.portfolio.SetCustodian(domain.DefaultPortfolio(s.alice), s.owner)
		s.Equal(StatusCustodianError, s.check(s.alice, s.bob, domain.OneUnit))
	})

	s.Run("an explicit custodian is honored", func() {
		// Custody still sits with the owner from the previous step.
		status, err := s.service.CanTransfer(s.ctx,
			&s.owner, domain.DefaultPortfolio(s.alice),
			nil, domain.DefaultPortfolio(s.bob), "ACME", domain.OneUnit)
		s.Require().NoError(err)
		s.Equal(StatusTransferSuccess, status)
		s.portfolio.SetCustodian(domain.DefaultPortfolio(s.alice), s.alice)
	})

	s.Run("receiver due diligence", func() {
		s.provider.SetCDD(s.bob, false)
		s.Equal(StatusInvalidReceiverIdentity, s.check(s.alice, s.bob, domain.OneUnit))
		s.provider.SetCDD(s.bob, true)
	})

	s.Run("receiver custody", func() {
		s.portfolio.SetCustodian(domain.DefaultPortfolio(s.bob), s.owner)
		s.Equal(StatusCustodianError, s.check(s.alice, s.bob, domain.OneUnit))
		s.portfolio.SetCustodian(domain.DefaultPortfolio(s.bob), s.bob)
	})

	s.Run("insufficient balance", func() {
		s.Equal(StatusInsufficientBalance, s.check(s.alice, s.bob, 100*domain.OneUnit))
	})

	s.Run("portfolio validity", func() {
		status, err := s.service.CanTransfer(s.ctx,
			nil, domain.UserPortfolio(s.alice, 7),
			nil, domain.DefaultPortfolio(s.bob), "ACME", domain.OneUnit)
		s.Require().NoError(err)
		s.Equal(StatusPortfolioFailure, status, "an uncreated portfolio cannot send")
	})

	s.Run("frozen asset", func() {
		s.Require().NoError(s.assets.Freeze(s.ctx, s.owner, "ACME"))
		s.Equal(StatusTransfersHalted, s.check(s.alice, s.bob, domain.OneUnit))
		s.Require().NoError(s.assets.Unfreeze(s.ctx, s.owner, "ACME"))
	})

	s.Run("statistics limits", func() {
		s.statistics.SetMaxInvestors("ACME", 2)
		s.Equal(StatusStatisticsFailure, s.check(s.alice, s.bob, domain.OneUnit),
			"a third holder would exceed the cap")
		s.statistics.SetMaxInvestors("ACME", 0)
	})

	s.Run("compliance", func() {
		s.Require().NoError(s.engine.ResetCompliance(s.ctx, s.owner, "ACME"))
		s.Equal(StatusComplianceFailure, s.check(s.alice, s.bob, domain.OneUnit))
		s.openCompliance()
	})

	s.Run("everything in order", func() {
		s.Equal(StatusTransferSuccess, s.check(s.alice, s.bob, domain.OneUnit))
	})
}

// =============================================================================
// Granular Diagnostic
// =============================================================================

func (s *TransferServiceSuite) TestGranularReportsEveryFailureAtOnce() {
	s.createAsset(false)
	s.bindScope(s.owner)
	s.bindScope(s.alice)
	s.issue(10 * domain.OneUnit)
	s.Require().NoError(s.engine.PauseCompliance(s.ctx, s.owner, "ACME"))
	s.Require().NoError(s.transfer(s.owner, s.alice, 4*domain.OneUnit))
	s.Require().NoError(s.engine.ResumeCompliance(s.ctx, s.owner, "ACME"))

	// Break as much as possible in one shot: fractional oversized amount,
	// sender without due diligence or custody, unbound receiver, frozen
	// asset, and an empty rule set.
	s.provider.SetCDD(s.alice, false)
	s.portfolio.SetCustodian(domain.DefaultPortfolio(s.alice), s.owner)
	s.Require().NoError(s.assets.Freeze(s.ctx, s.owner, "ACME"))

	report := s.granular(s.alice, s.bob, 100*domain.OneUnit+500_000)

	s.True(report.InvalidGranularity)
	s.False(report.SelfTransfer)
	s.True(report.InvalidSenderCDD)
	s.False(report.InvalidReceiverCDD, "the receiver's due diligence is intact")
	s.True(report.MissingScopeClaim)
	s.True(report.SenderCustodianError)
	s.False(report.ReceiverCustodianError)
	s.True(report.SenderInsufficientBalance)
	s.True(report.AssetFrozen)
	s.False(report.Portfolio.Result)
	s.True(report.Portfolio.SenderInsufficientBalance)
	s.False(report.Compliance.Allowed())
	s.False(report.Result)
}

// TestGranularReceiverDueDiligence pins that each party's due-diligence
// verdict comes from that party. A copy-paste slip deriving the receiver
// flag from the sender would pass one direction and fail the other.
func (s *TransferServiceSuite) TestGranularReceiverDueDiligence() {
	s.setupLiquidAsset()

	s.Run("only the receiver lapsed", func() {
		s.provider.SetCDD(s.alice, true)
		s.provider.SetCDD(s.bob, false)

		report := s.granular(s.alice, s.bob, domain.OneUnit)
		s.False(report.InvalidSenderCDD)
		s.True(report.InvalidReceiverCDD)
		s.False(report.Result)
	})

	s.Run("only the sender lapsed", func() {
		s.provider.SetCDD(s.alice, false)
		s.provider.SetCDD(s.bob, true)

		report := s.granular(s.alice, s.bob, domain.OneUnit)
		s.True(report.InvalidSenderCDD)
		s.False(report.InvalidReceiverCDD)
		s.False(report.Result)
	})

	s.Run("both intact passes", func() {
		s.provider.SetCDD(s.alice, true)

		report := s.granular(s.alice, s.bob, domain.OneUnit)
		s.False(report.InvalidSenderCDD)
		s.False(report.InvalidReceiverCDD)
		s.True(report.Result)
	})
}

func (s *TransferServiceSuite) TestGranularCarriesRuleVerdicts() {
	s.setupLiquidAsset()
	s.statistics.SetMaxInvestors("ACME", 2)
	s.statistics.SetOwnershipCap("ACME", 1_000) // 10% of supply

	report := s.granular(s.alice, s.bob, 150*domain.OneUnit)

	s.Require().Len(report.Statistics, 2)
	s.Equal(ports.RuleResult{Rule: ports.RuleMaxInvestors, Passed: false}, report.Statistics[0])
	s.Equal(ports.RuleResult{Rule: ports.RuleMaxOwnership, Passed: false}, report.Statistics[1])
	s.Require().Len(report.Compliance.Requirements, 1)
	s.True(report.Compliance.Satisfied)
	s.False(report.Result)
}

// =============================================================================
// Issuance
// =============================================================================

func (s *TransferServiceSuite) TestIssue() {
	s.createAsset(true)
	s.bindScope(s.owner)

	s.issue(100 * domain.OneUnit)

	s.Run("supply and balances", func() {
		s.Equal(100*domain.OneUnit, s.totalSupply())
		s.Equal(100*domain.OneUnit, s.balanceOf(s.owner))
		s.Equal(100*domain.OneUnit, s.portfolioBalance(domain.DefaultPortfolio(s.owner)))
		s.Equal(100*domain.OneUnit, s.aggregateOf(domain.ScopeFromIdentity(s.owner)))
		s.Equal(uint64(1), s.statistics.InvestorCount("ACME"))
	})

	s.Run("checkpoint saw the pre-mint balance", func() {
		batches := s.checkpoint.Recorded("ACME")
		s.Require().NotEmpty(batches)
		s.Equal([]ports.BalanceSnapshot{{Identity: s.owner, Balance: 0}}, batches[len(batches)-1])
	})

	s.Run("events", func() {
		last := s.lastEvents(2)
		s.Equal(events.EventTransfer, last[0].Type)
		s.Equal(events.TransferPayload{
			To:     domain.DefaultPortfolio(s.owner),
			Amount: 100 * domain.OneUnit,
		}, last[0].Payload, "a mint arrives from the zero coordinate")

		s.Equal(events.EventIssued, last[1].Type)
		s.Equal(events.IssuedPayload{
			To:            s.owner,
			Amount:        100 * domain.OneUnit,
			IssuedInRound: 100 * domain.OneUnit,
		}, last[1].Payload)
	})

	s.Run("issuance follows the agent role", func() {
		s.ErrorIs(s.service.Issue(s.ctx, s.alice, "ACME", domain.OneUnit), ErrNotIssuanceAgent)

		s.Require().NoError(s.assets.TransferPIA(s.ctx, s.owner, "ACME", s.alice))
		s.ErrorIs(s.service.Issue(s.ctx, s.owner, "ACME", domain.OneUnit), ErrNotIssuanceAgent)
		s.NoError(s.service.Issue(s.ctx, s.alice, "ACME", domain.OneUnit))
		s.Equal(domain.OneUnit, s.balanceOf(s.alice))
	})
}

func (s *TransferServiceSuite) TestIssueSupplyGuards() {
	s.createAsset(true)
	s.bindScope(s.owner)

	s.Run("the cap is reachable", func() {
		s.NoError(s.service.Issue(s.ctx, s.owner, "ACME", domain.MaxSupply))
		s.Equal(domain.MaxSupply, s.totalSupply())
	})

	s.Run("beyond the cap", func() {
		err := s.service.Issue(s.ctx, s.owner, "ACME", domain.OneUnit)
		s.ErrorIs(err, ErrMaxSupplyExceeded)
		s.Equal(domain.MaxSupply, s.totalSupply())
	})

	s.Run("wrapping the supply", func() {
		err := s.service.Issue(s.ctx, s.owner, "ACME", domain.Balance(^uint64(0)))
		s.ErrorIs(err, ErrTotalSupplyOverflow)
		s.Equal(domain.MaxSupply, s.totalSupply())
		s.Equal(domain.MaxSupply, s.balanceOf(s.owner), "a rejected mint credits nothing")
	})
}

func (s *TransferServiceSuite) TestIssueWithoutScopeBinding() {
	s.createAsset(true)

	s.issue(100 * domain.OneUnit)

	// With no binding the scope views stay untouched and the agent is
	// assumed to be the scope's only identity.
	s.Equal(uint64(1), s.statistics.InvestorCount("ACME"))
	s.Equal(domain.Balance(0), s.aggregateOf(domain.ScopeID{}))
	s.Equal(100*domain.OneUnit, s.balanceOf(s.owner))
}

func (s *TransferServiceSuite) TestRepeatedIssueCountsOneHolder() {
	s.createAsset(true)

	s.Run("unbound agent", func() {
		s.issue(10 * domain.OneUnit)
		s.issue(10 * domain.OneUnit)
		s.issue(10 * domain.OneUnit)
		s.Equal(uint64(1), s.statistics.InvestorCount("ACME"),
			"minting again to an agent that already holds adds no holder")
	})

	s.Run("bound agent", func() {
		// Binding seeds the scope views with the balance minted so far.
		s.bindScope(s.owner)
		s.issue(10 * domain.OneUnit)
		s.issue(10 * domain.OneUnit)
		s.Equal(uint64(1), s.statistics.InvestorCount("ACME"))
	})
}

func (s *TransferServiceSuite) TestHolderCountFollowsScopeOccupancy() {
	s.setupLiquidAsset()
	s.Equal(uint64(2), s.statistics.InvestorCount("ACME"), "owner and alice hold")

	s.Run("a partial move to a fresh scope adds a holder", func() {
		s.Require().NoError(s.transfer(s.alice, s.bob, 100*domain.OneUnit))
		s.Equal(uint64(3), s.statistics.InvestorCount("ACME"))
	})

	s.Run("a move between occupied scopes changes nothing", func() {
		s.Require().NoError(s.transfer(s.owner, s.alice, 100*domain.OneUnit))
		s.Equal(uint64(3), s.statistics.InvestorCount("ACME"))
	})

	s.Run("draining a scope hands its slot back", func() {
		s.Require().NoError(s.transfer(s.bob, s.alice, 100*domain.OneUnit))
		s.Equal(uint64(2), s.statistics.InvestorCount("ACME"))
	})
}

func (s *TransferServiceSuite) TestIssueFundingRoundTally() {
	s.createAsset(true)
	s.bindScope(s.owner)
	s.Require().NoError(s.assets.SetFundingRound(s.ctx, s.owner, "ACME", "series-a"))

	s.issue(100 * domain.OneUnit)
	s.issue(50 * domain.OneUnit)

	issued := s.lastEvents(1)[0]
	s.Require().Equal(events.EventIssued, issued.Type)
	s.Equal(events.IssuedPayload{
		To:            s.owner,
		Amount:        50 * domain.OneUnit,
		FundingRound:  "series-a",
		IssuedInRound: 150 * domain.OneUnit,
	}, issued.Payload)

	total, err := s.assets.FundingRoundTotal(s.ctx, "ACME", "series-a")
	s.Require().NoError(err)
	s.Equal(150*domain.OneUnit, total)
}

// =============================================================================
// Redemption
// =============================================================================

func (s *TransferServiceSuite) TestRedeem() {
	s.createAsset(true)
	s.bindScope(s.owner)
	s.issue(500 * domain.OneUnit)

	s.Require().NoError(s.service.Redeem(s.ctx, s.owner, "ACME", 200*domain.OneUnit))

	s.Run("burns through every view", func() {
		s.Equal(300*domain.OneUnit, s.totalSupply())
		s.Equal(300*domain.OneUnit, s.balanceOf(s.owner))
		s.Equal(300*domain.OneUnit, s.portfolioBalance(domain.DefaultPortfolio(s.owner)))
		s.Equal(300*domain.OneUnit, s.aggregateOf(domain.ScopeFromIdentity(s.owner)))
	})

	s.Run("checkpoint saw the pre-burn balance", func() {
		batches := s.checkpoint.Recorded("ACME")
		s.Require().NotEmpty(batches)
		s.Equal([]ports.BalanceSnapshot{{Identity: s.owner, Balance: 500 * domain.OneUnit}},
			batches[len(batches)-1])
	})

	s.Run("events", func() {
		last := s.lastEvents(2)
		s.Equal(events.EventTransfer, last[0].Type)
		s.Equal(events.TransferPayload{
			From:   domain.DefaultPortfolio(s.owner),
			Amount: 200 * domain.OneUnit,
		}, last[0].Payload, "a burn heads to the zero coordinate")
		s.Equal(events.EventRedeemed, last[1].Type)
		s.Equal(events.RedeemedPayload{From: s.owner, Amount: 200 * domain.OneUnit}, last[1].Payload)
	})

	s.Run("only the issuance agent may redeem", func() {
		s.ErrorIs(s.service.Redeem(s.ctx, s.alice, "ACME", domain.OneUnit), ErrNotIssuanceAgent)
	})

	s.Run("redeeming everything clears the holder count", func() {
		s.Require().NoError(s.service.Redeem(s.ctx, s.owner, "ACME", 300*domain.OneUnit))
		s.Equal(uint64(0), s.statistics.InvestorCount("ACME"))
		s.Equal(domain.Balance(0), s.totalSupply())
	})
}

func (s *TransferServiceSuite) TestRedeemHonorsLocks() {
	s.createAsset(true)
	s.bindScope(s.owner)
	s.issue(300 * domain.OneUnit)

	s.portfolio.Lock(domain.DefaultPortfolio(s.owner), "ACME", 250*domain.OneUnit)

	err := s.service.Redeem(s.ctx, s.owner, "ACME", 100*domain.OneUnit)
	s.ErrorIs(err, ports.ErrInsufficientPortfolioBalance)
	s.Equal(300*domain.OneUnit, s.totalSupply(), "a failed burn changes nothing")
	s.Equal(300*domain.OneUnit, s.balanceOf(s.owner))

	s.NoError(s.service.Redeem(s.ctx, s.owner, "ACME", 50*domain.OneUnit))
	s.Equal(250*domain.OneUnit, s.totalSupply())
}

func (s *TransferServiceSuite) TestSupplyOperationsGranularity() {
	s.createAsset(false)
	s.bindScope(s.owner)

	s.ErrorIs(s.service.Issue(s.ctx, s.owner, "ACME", 500_000), ErrInvalidGranularity)
	s.NoError(s.service.Issue(s.ctx, s.owner, "ACME", 2*domain.OneUnit))

	s.ErrorIs(s.service.Redeem(s.ctx, s.owner, "ACME", 500_000), ErrInvalidGranularity)
	s.NoError(s.service.Redeem(s.ctx, s.owner, "ACME", domain.OneUnit))
	s.Equal(domain.OneUnit, s.totalSupply())
}

// =============================================================================
// Controller Transfer
// =============================================================================

func (s *TransferServiceSuite) TestControllerTransfer() {
	s.setupLiquidAsset()
	s.Require().NoError(s.assets.Freeze(s.ctx, s.owner, "ACME"))

	s.Run("ordinary transfers are frozen out", func() {
		s.ErrorIs(s.transfer(s.alice, s.owner, 10*domain.OneUnit), ErrInvalidTransfer)
	})

	s.Run("the controller recovers holdings anyway", func() {
		err := s.service.ControllerTransfer(s.ctx, s.owner, "ACME",
			150*domain.OneUnit, domain.DefaultPortfolio(s.alice))
		s.Require().NoError(err)

		s.Equal(250*domain.OneUnit, s.balanceOf(s.alice))
		s.Equal(750*domain.OneUnit, s.balanceOf(s.owner))
		s.Equal(750*domain.OneUnit, s.portfolioBalance(domain.DefaultPortfolio(s.owner)))
		s.assertConservation(s.owner, s.alice, s.bob)
	})

	s.Run("events carry both the move and the controller action", func() {
		last := s.lastEvents(2)
		s.Equal(events.EventTransfer, last[0].Type)
		s.Equal(s.alice, last[0].Actor, "the move is recorded against the investor")
		s.Equal(events.EventControllerTransfer, last[1].Type)
		s.Equal(s.owner, last[1].Actor)
		s.Equal(events.TransferPayload{
			From:   domain.DefaultPortfolio(s.alice),
			To:     domain.DefaultPortfolio(s.owner),
			Amount: 150 * domain.OneUnit,
		}, last[1].Payload)
	})

	s.Run("only the issuance agent", func() {
		err := s.service.ControllerTransfer(s.ctx, s.alice, "ACME",
			domain.OneUnit, domain.DefaultPortfolio(s.bob))
		s.ErrorIs(err, ErrNotIssuanceAgent)
	})

	s.Run("the agent must still hold their own custody", func() {
		s.portfolio.SetCustodian(domain.DefaultPortfolio(s.owner), s.bob)
		err := s.service.ControllerTransfer(s.ctx, s.owner, "ACME",
			domain.OneUnit, domain.DefaultPortfolio(s.alice))
		s.ErrorIs(err, ports.ErrUnauthorizedCustodian)
	})
}

// =============================================================================
// Scope Index Consistency
// =============================================================================

func (s *TransferServiceSuite) TestSharedScopeKeepsAggregateSteady() {
	s.createAsset(true)
	s.openCompliance()
	s.bindScope(s.owner)

	shared := domain.NewScopeID()
	s.Require().NoError(s.balances.RebindScope(s.ctx, "ACME", s.alice, shared))
	s.Require().NoError(s.balances.RebindScope(s.ctx, "ACME", s.bob, shared))

	s.issue(1_000 * domain.OneUnit)
	s.Require().NoError(s.transfer(s.owner, s.alice, 400*domain.OneUnit))
	s.Equal(uint64(2), s.statistics.InvestorCount("ACME"), "one scope, one holder")

	s.Require().NoError(s.transfer(s.alice, s.bob, 100*domain.OneUnit))

	s.Equal(300*domain.OneUnit, s.balanceOf(s.alice))
	s.Equal(100*domain.OneUnit, s.balanceOf(s.bob))
	s.Equal(400*domain.OneUnit, s.aggregateOf(shared),
		"a move inside one scope leaves its aggregate alone")
	s.Equal(uint64(2), s.statistics.InvestorCount("ACME"))

	aliceRow, err := s.balances.BalanceAtScope(s.ctx, "ACME", shared, s.alice)
	s.Require().NoError(err)
	bobRow, err := s.balances.BalanceAtScope(s.ctx, "ACME", shared, s.bob)
	s.Require().NoError(err)
	s.Equal(s.aggregateOf(shared), aliceRow+bobRow, "holder rows reconcile with the aggregate")
}
