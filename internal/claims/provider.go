// Package claims is the port to the identity and attestation system. The
// compliance engine consumes it to resolve what trusted issuers have
// attested about a transfer's parties; it never writes through it.
package claims

import (
	"context"

	"covenant/pkg/domain"
)

// Provider answers attestation questions about identities. Implementations
// sit in front of whatever identity system a deployment runs; the in-memory
// provider in this package serves tests and single-process wiring.
type Provider interface {
	// FetchClaim returns the claim of the given type and scope that issuer
	// has attested about target, or nil when no such attestation exists.
	// Absence is a result, not an error.
	FetchClaim(ctx context.Context, target domain.IdentityID, claimType domain.ClaimType, issuer domain.IdentityID, scope domain.Ticker) (*domain.Claim, error)

	// HasValidCDD reports whether the identity holds a live customer
	// due-diligence attestation.
	HasValidCDD(ctx context.Context, did domain.IdentityID) (bool, error)

	// IdentityExists reports whether the identity is known at all.
	IdentityExists(ctx context.Context, did domain.IdentityID) (bool, error)
}
