// Package asset is the ticker and security-token registry. A ticker is
// reserved first, optionally expiring, and an asset is then created on top of
// it, which makes the reservation permanent. The registry also tracks
// transfer freezes, funding-round issuance totals, and external identifiers.
package asset

import (
	"time"

	"covenant/pkg/domain"
	dErrors "covenant/pkg/domain-errors"
)

var (
	// ErrTickerNotASCII rejects tickers containing non-printable bytes.
	ErrTickerNotASCII = dErrors.New(dErrors.CodeValidation, "ticker must be printable ASCII")

	// ErrTickerTooLong rejects tickers over the configured length.
	ErrTickerTooLong = dErrors.New(dErrors.CodeValidation, "ticker exceeds maximum length")

	// ErrTickerAlreadyRegistered means another identity holds a live
	// registration for the ticker.
	ErrTickerAlreadyRegistered = dErrors.New(dErrors.CodeConflict, "ticker is registered to another identity")

	// ErrTickerNotRegistered means no live registration exists.
	ErrTickerNotRegistered = dErrors.New(dErrors.CodeNotFound, "ticker is not registered")

	// ErrTickerExpired means the registration lapsed and must be re-registered.
	ErrTickerExpired = dErrors.New(dErrors.CodeConflict, "ticker registration has expired")

	// ErrAssetAlreadyCreated guards the one-asset-per-ticker rule.
	ErrAssetAlreadyCreated = dErrors.New(dErrors.CodeConflict, "asset has already been created for this ticker")

	// ErrAssetNotFound means no asset exists for the ticker.
	ErrAssetNotFound = dErrors.New(dErrors.CodeNotFound, "asset does not exist")

	// ErrNameTooLong rejects asset names over the configured length.
	ErrNameTooLong = dErrors.New(dErrors.CodeValidation, "asset name exceeds maximum length")

	// ErrFundingRoundTooLong rejects funding round names over the configured length.
	ErrFundingRoundTooLong = dErrors.New(dErrors.CodeValidation, "funding round name exceeds maximum length")

	// ErrInvalidIdentifier rejects malformed external identifiers.
	ErrInvalidIdentifier = dErrors.New(dErrors.CodeValidation, "asset identifier failed validation")

	// ErrAlreadyFrozen keeps Freeze idempotence explicit rather than silent.
	ErrAlreadyFrozen = dErrors.New(dErrors.CodeConflict, "asset transfers are already frozen")

	// ErrNotFrozen keeps Unfreeze idempotence explicit rather than silent.
	ErrNotFrozen = dErrors.New(dErrors.CodeConflict, "asset transfers are not frozen")

	// ErrAssetAlreadyDivisible guards the one-way divisibility switch.
	ErrAssetAlreadyDivisible = dErrors.New(dErrors.CodeConflict, "asset is already divisible")

	// ErrNotOwner means the acting identity lacks rights over the ticker or asset.
	ErrNotOwner = dErrors.New(dErrors.CodeUnauthorized, "identity is not authorized for this asset")
)

// AssetType classifies the instrument an asset represents.
type AssetType string

const (
	TypeEquityCommon          AssetType = "equity_common"
	TypeEquityPreferred       AssetType = "equity_preferred"
	TypeCommodity             AssetType = "commodity"
	TypeFixedIncome           AssetType = "fixed_income"
	TypeREIT                  AssetType = "reit"
	TypeFund                  AssetType = "fund"
	TypeRevenueShareAgreement AssetType = "revenue_share_agreement"
	TypeStructuredProduct     AssetType = "structured_product"
	TypeDerivative            AssetType = "derivative"
	TypeCustom                AssetType = "custom"
)

// TickerStatus is the availability of a ticker as seen by one identity.
type TickerStatus string

const (
	// TickerAvailable covers both never-registered and expired tickers.
	TickerAvailable TickerStatus = "available"

	// TickerRegisteredByOther means a different identity holds a live registration.
	TickerRegisteredByOther TickerStatus = "registered_by_other"

	// TickerRegisteredByDid means the asking identity holds a live registration.
	TickerRegisteredByDid TickerStatus = "registered_by_did"
)

// TickerRegistration reserves a ticker for an identity. A nil Expiry never
// lapses; tickers carrying an asset always have a nil Expiry.
type TickerRegistration struct {
	Owner  domain.IdentityID
	Expiry *time.Time
}

// IsExpired reports whether the reservation has lapsed at the given instant.
// Expiry is exclusive: a registration is dead from its expiry time onward.
func (r TickerRegistration) IsExpired(now time.Time) bool {
	return r.Expiry != nil && !now.Before(*r.Expiry)
}

// SecurityToken is the on-ledger asset configuration. Supply and ownership
// live here; per-identity balances live in the portfolio ledger.
type SecurityToken struct {
	Name         string
	TotalSupply  domain.Balance
	Owner        domain.IdentityID
	Divisible    bool
	Type         AssetType
	PIA          *domain.IdentityID
	FundingRound string
}

// PIAOrOwner resolves the primary issuance agent, falling back to the owner
// when none is appointed.
func (t SecurityToken) PIAOrOwner() domain.IdentityID {
	if t.PIA != nil {
		return *t.PIA
	}
	return t.Owner
}

// ValidGranularity reports whether a value respects the asset's divisibility:
// indivisible assets only move in whole units.
func (t SecurityToken) ValidGranularity(value domain.Balance) bool {
	return t.Divisible || value.IsUnitMultiple()
}

// OwnershipRelation records what an identity holds against a ticker.
type OwnershipRelation string

const (
	RelationNotOwned    OwnershipRelation = "not_owned"
	RelationTickerOwned OwnershipRelation = "ticker_owned"
	RelationAssetOwned  OwnershipRelation = "asset_owned"
)

// IdentifierType names an external securities identifier standard.
type IdentifierType string

const (
	IdentifierCUSIP IdentifierType = "cusip"
	IdentifierCINS  IdentifierType = "cins"
	IdentifierISIN  IdentifierType = "isin"
	IdentifierLEI   IdentifierType = "lei"
	IdentifierFIGI  IdentifierType = "figi"
)

// AssetIdentifier links an asset to an external identifier such as an ISIN.
type AssetIdentifier struct {
	Type  IdentifierType
	Value string
}

// CreateAssetParams carries the configuration for a new asset.
type CreateAssetParams struct {
	Name         string
	Type         AssetType
	Divisible    bool
	FundingRound string
	Identifiers  []AssetIdentifier
}
