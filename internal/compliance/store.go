package compliance

import (
	"context"

	"covenant/pkg/domain"
)

// Store persists per-ticker rule records. Absent rows read back as zero
// values: an asset nobody configured has no requirements, is not paused,
// and trusts no issuers. The requirement list and the trusted-issuer list
// round-trip in insertion order.
type Store interface {
	Compliance(ctx context.Context, ticker domain.Ticker) (AssetCompliance, error)
	PutCompliance(ctx context.Context, ticker domain.Ticker, record AssetCompliance) error

	TrustedIssuers(ctx context.Context, ticker domain.Ticker) ([]domain.IdentityID, error)
	PutTrustedIssuers(ctx context.Context, ticker domain.Ticker, issuers []domain.IdentityID) error
}
