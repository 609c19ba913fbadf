package compliance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"covenant/pkg/domain"
)

type ComplianceStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestComplianceStoreSuite(t *testing.T) {
	suite.Run(t, new(ComplianceStoreSuite))
}

func (s *ComplianceStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *ComplianceStoreSuite) TestComplianceRecords() {
	s.Run("absent record reads as the zero value", func() {
		record, err := s.store.Compliance(s.ctx, "NONE")
		s.NoError(err)
		s.Empty(record.Requirements)
		s.False(record.Paused)
		s.Zero(record.LatestID)
	})

	s.Run("round-trips requirements, paused flag and id mark", func() {
		kyc := domain.Claim{Type: domain.ClaimTypeKnowYourCustomer, Scope: "ACME"}
		record := AssetCompliance{
			Paused:   true,
			LatestID: 9,
			Requirements: []ComplianceRequirement{
				{ID: 3, SenderConditions: []Condition{Present(kyc)}},
				{ID: 9, ReceiverConditions: []Condition{Absent(kyc)}},
			},
		}
		s.Require().NoError(s.store.PutCompliance(s.ctx, "ACME", record))

		got, err := s.store.Compliance(s.ctx, "ACME")
		s.Require().NoError(err)
		s.Equal(record, got)
	})

	s.Run("stored record is isolated from later caller mutation", func() {
		kyc := domain.Claim{Type: domain.ClaimTypeKnowYourCustomer, Scope: "ISO"}
		record := AssetCompliance{
			Requirements: []ComplianceRequirement{{ID: 1, SenderConditions: []Condition{Present(kyc)}}},
			LatestID:     1,
		}
		s.Require().NoError(s.store.PutCompliance(s.ctx, "ISO", record))

		record.Requirements[0].SenderConditions[0].Kind = ConditionIsAbsent

		got, err := s.store.Compliance(s.ctx, "ISO")
		s.Require().NoError(err)
		s.Equal(ConditionIsPresent, got.Requirements[0].SenderConditions[0].Kind)
	})
}

func (s *ComplianceStoreSuite) TestTrustedIssuers() {
	s.Run("absent list reads as empty", func() {
		issuers, err := s.store.TrustedIssuers(s.ctx, "NONE")
		s.NoError(err)
		s.Empty(issuers)
	})

	s.Run("replace preserves insertion order", func() {
		a, b, c := domain.NewIdentityID(), domain.NewIdentityID(), domain.NewIdentityID()
		s.Require().NoError(s.store.PutTrustedIssuers(s.ctx, "ACME", []domain.IdentityID{c, a, b}))

		issuers, err := s.store.TrustedIssuers(s.ctx, "ACME")
		s.NoError(err)
		s.Equal([]domain.IdentityID{c, a, b}, issuers)

		s.Require().NoError(s.store.PutTrustedIssuers(s.ctx, "ACME", []domain.IdentityID{b}))
		issuers, err = s.store.TrustedIssuers(s.ctx, "ACME")
		s.NoError(err)
		s.Equal([]domain.IdentityID{b}, issuers)
	})

	s.Run("lists are scoped per ticker", func() {
		issuer := domain.NewIdentityID()
		s.Require().NoError(s.store.PutTrustedIssuers(s.ctx, "ONE", []domain.IdentityID{issuer}))

		issuers, err := s.store.TrustedIssuers(s.ctx, "TWO")
		s.NoError(err)
		s.Empty(issuers)
	})
}
