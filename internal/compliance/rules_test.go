package compliance

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"covenant/pkg/domain"
)

// =============================================================================
// Rule Evaluator Test Suite
// =============================================================================
// The evaluator is pure, so every branch is pinned down here; service tests
// then only cover claim resolution and persistence around it.

type RulesSuite struct {
	suite.Suite

	target domain.IdentityID
	pia    domain.IdentityID
	scope  domain.Ticker
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesSuite))
}

func (s *RulesSuite) SetupTest() {
	s.target = domain.NewIdentityID()
	s.pia = domain.NewIdentityID()
	s.scope = domain.Ticker("ACME")
}

func (s *RulesSuite) ectx(claims ...domain.Claim) evaluationContext {
	return evaluationContext{target: s.target, pia: s.pia, claims: claims}
}

func (s *RulesSuite) accredited() domain.Claim {
	return domain.Claim{Type: domain.ClaimTypeAccredited, Scope: s.scope}
}

// =============================================================================
// Presence and absence
// =============================================================================

func (s *RulesSuite) TestIsPresent() {
	cond := Present(s.accredited())

	s.True(evaluate(cond, s.ectx(s.accredited())))
	s.False(evaluate(cond, s.ectx()), "no attestations fetched")
	s.False(evaluate(cond, s.ectx(domain.Claim{Type: domain.ClaimTypeKnowYourCustomer, Scope: s.scope})))
}

func (s *RulesSuite) TestIsPresentComparesWholeClaims() {
	cond := Present(domain.JurisdictionClaim(s.scope, "US"))

	s.True(evaluate(cond, s.ectx(domain.JurisdictionClaim(s.scope, "US"))))
	s.False(evaluate(cond, s.ectx(domain.JurisdictionClaim(s.scope, "CA"))),
		"a jurisdiction claim matches only with the same country")
	s.False(evaluate(cond, s.ectx(domain.JurisdictionClaim("OTHER", "US"))),
		"scope is part of the claim value")
}

func (s *RulesSuite) TestIsAbsent() {
	cond := Absent(domain.Claim{Type: domain.ClaimTypeBlocked, Scope: s.scope})

	s.True(evaluate(cond, s.ectx()))
	s.True(evaluate(cond, s.ectx(s.accredited())))
	s.False(evaluate(cond, s.ectx(domain.Claim{Type: domain.ClaimTypeBlocked, Scope: s.scope})))
}

// =============================================================================
// Set membership
// =============================================================================

func (s *RulesSuite) TestIsAnyOf() {
	cond := AnyOf([]domain.Claim{
		domain.JurisdictionClaim(s.scope, "US"),
		domain.JurisdictionClaim(s.scope, "GB"),
	})

	s.True(evaluate(cond, s.ectx(domain.JurisdictionClaim(s.scope, "GB"))))
	s.False(evaluate(cond, s.ectx(domain.JurisdictionClaim(s.scope, "DE"))))
	s.False(evaluate(cond, s.ectx()))
	s.False(evaluate(AnyOf(nil), s.ectx(s.accredited())), "empty disjunction is unsatisfiable")
}

func (s *RulesSuite) TestIsNoneOf() {
	cond := NoneOf([]domain.Claim{
		domain.JurisdictionClaim(s.scope, "KP"),
		domain.JurisdictionClaim(s.scope, "IR"),
	})

	s.True(evaluate(cond, s.ectx()))
	s.True(evaluate(cond, s.ectx(domain.JurisdictionClaim(s.scope, "US"))))
	s.False(evaluate(cond, s.ectx(domain.JurisdictionClaim(s.scope, "KP"))))
	s.True(evaluate(NoneOf(nil), s.ectx(s.accredited())), "empty exclusion always holds")
}

// =============================================================================
// Identity matching
// =============================================================================

func (s *RulesSuite) TestIsIdentitySpecific() {
	s.True(evaluate(MatchesIdentity(SpecificIdentity(s.target)), s.ectx()))
	s.False(evaluate(MatchesIdentity(SpecificIdentity(domain.NewIdentityID())), s.ectx()))
}

func (s *RulesSuite) TestIsIdentityPIA() {
	cond := MatchesIdentity(PrimaryIssuanceAgent())

	s.False(evaluate(cond, s.ectx()))

	agent := evaluationContext{target: s.pia, pia: s.pia}
	s.True(evaluate(cond, agent), "pia resolves at evaluation time")
}

func (s *RulesSuite) TestUnknownShapesDeny() {
	s.False(evaluate(Condition{Kind: ConditionKind("bogus")}, s.ectx(s.accredited())))
	s.False(evaluate(Condition{Kind: ConditionIsIdentity, Identity: TargetIdentity{Kind: TargetKind("bogus")}}, s.ectx()))
}

// =============================================================================
// Structural equality (duplicate detection)
// =============================================================================

func (s *RulesSuite) TestConditionEquality() {
	issuer := domain.NewIdentityID()

	s.True(Present(s.accredited(), issuer).Equal(Present(s.accredited(), issuer)))
	s.False(Present(s.accredited(), issuer).Equal(Present(s.accredited())),
		"issuer lists are part of the condition")
	s.False(Present(s.accredited()).Equal(Absent(s.accredited())))

	us := domain.JurisdictionClaim(s.scope, "US")
	gb := domain.JurisdictionClaim(s.scope, "GB")
	s.False(AnyOf([]domain.Claim{us, gb}).Equal(AnyOf([]domain.Claim{gb, us})),
		"claim order is significant")
}

// =============================================================================
// Complexity accounting
// =============================================================================

func (s *RulesSuite) TestConditionCost() {
	issuerA := domain.NewIdentityID()
	issuerB := domain.NewIdentityID()
	us := domain.JurisdictionClaim(s.scope, "US")
	gb := domain.JurisdictionClaim(s.scope, "GB")
	de := domain.JurisdictionClaim(s.scope, "DE")

	s.Equal(uint64(1), conditionCost(Present(s.accredited()), 0), "no issuers anywhere still costs one")
	s.Equal(uint64(2), conditionCost(Present(s.accredited(), issuerA, issuerB), 7),
		"explicit issuers win over the trusted count")
	s.Equal(uint64(4), conditionCost(Present(s.accredited()), 4))
	s.Equal(uint64(3), conditionCost(AnyOf([]domain.Claim{us, gb, de}, issuerA), 5),
		"three claims, one explicit issuer")
	s.Equal(uint64(6), conditionCost(AnyOf([]domain.Claim{us, gb, de}, issuerA, issuerB), 0))
	s.Equal(uint64(5), conditionCost(MatchesIdentity(PrimaryIssuanceAgent()), 5),
		"identity conditions count one unit per issuer")
}

func (s *RulesSuite) TestSetComplexitySumsBothSides() {
	kyc := domain.Claim{Type: domain.ClaimTypeKnowYourCustomer, Scope: s.scope}
	reqs := []ComplianceRequirement{
		{
			ID:                 1,
			SenderConditions:   []Condition{Present(s.accredited())},                       // 1 * 2 trusted
			ReceiverConditions: []Condition{AnyOf([]domain.Claim{s.accredited(), kyc})}, // 2 * 2 trusted
		},
		{
			ID:               2,
			SenderConditions: []Condition{Absent(s.accredited(), domain.NewIdentityID())}, // 1 * 1 explicit
		},
	}

	s.Equal(uint64(7), setComplexity(reqs, 2))
	s.Equal(uint64(0), setComplexity(nil, 2))
}
