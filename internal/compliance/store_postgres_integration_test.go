//go:build integration

package compliance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"covenant/internal/compliance"
	"covenant/pkg/domain"
	"covenant/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *compliance.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = compliance.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"trusted_issuers",
		"asset_compliance",
	)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestComplianceRoundTrip() {
	ctx := context.Background()
	issuer := domain.NewIdentityID()
	kyc := domain.Claim{Type: domain.ClaimTypeKnowYourCustomer, Scope: "ACME"}

	record, err := s.store.Compliance(ctx, "ACME")
	s.Require().NoError(err)
	s.Empty(record.Requirements)
	s.False(record.Paused)
	s.Zero(record.LatestID)

	record = compliance.AssetCompliance{
		Paused:   true,
		LatestID: 7,
		Requirements: []compliance.ComplianceRequirement{
			{ID: 2, SenderConditions: []compliance.Condition{compliance.Present(kyc, issuer)}},
			{ID: 7, ReceiverConditions: []compliance.Condition{
				compliance.AnyOf([]domain.Claim{
					domain.JurisdictionClaim("ACME", "US"),
					domain.JurisdictionClaim("ACME", "CA"),
				}),
				compliance.MatchesIdentity(compliance.PrimaryIssuanceAgent()),
			}},
		},
	}
	s.Require().NoError(s.store.PutCompliance(ctx, "ACME", record))

	got, err := s.store.Compliance(ctx, "ACME")
	s.Require().NoError(err)
	s.Equal(record, got)
}

func (s *PostgresStoreSuite) TestUpsertReplacesTheRecord() {
	ctx := context.Background()
	kyc := domain.Claim{Type: domain.ClaimTypeKnowYourCustomer, Scope: "ACME"}

	s.Require().NoError(s.store.PutCompliance(ctx, "ACME", compliance.AssetCompliance{
		Requirements: []compliance.ComplianceRequirement{{ID: 1, SenderConditions: []compliance.Condition{compliance.Present(kyc)}}},
		LatestID:     1,
	}))
	s.Require().NoError(s.store.PutCompliance(ctx, "ACME", compliance.AssetCompliance{LatestID: 1}))

	got, err := s.store.Compliance(ctx, "ACME")
	s.Require().NoError(err)
	s.Empty(got.Requirements)
	s.Equal(uint32(1), got.LatestID, "the id mark survives an empty rewrite")
}

func (s *PostgresStoreSuite) TestTrustedIssuersPreserveOrder() {
	ctx := context.Background()
	a, b, c := domain.NewIdentityID(), domain.NewIdentityID(), domain.NewIdentityID()

	issuers, err := s.store.TrustedIssuers(ctx, "ACME")
	s.Require().NoError(err)
	s.Empty(issuers)

	s.Require().NoError(s.store.PutTrustedIssuers(ctx, "ACME", []domain.IdentityID{c, a, b}))
	issuers, err = s.store.TrustedIssuers(ctx, "ACME")
	s.Require().NoError(err)
	s.Equal([]domain.IdentityID{c, a, b}, issuers)

	s.Require().NoError(s.store.PutTrustedIssuers(ctx, "ACME", nil))
	issuers, err = s.store.TrustedIssuers(ctx, "ACME")
	s.Require().NoError(err)
	s.Empty(issuers)
}
