package domain

// ClaimType classifies an assertion an issuer makes about an identity.
type ClaimType string

const (
	ClaimTypeAccredited           ClaimType = "accredited"
	ClaimTypeAffiliate            ClaimType = "affiliate"
	ClaimTypeBuyLockup            ClaimType = "buy_lockup"
	ClaimTypeSellLockup           ClaimType = "sell_lockup"
	ClaimTypeCustomerDueDiligence ClaimType = "customer_due_diligence"
	ClaimTypeKnowYourCustomer     ClaimType = "know_your_customer"
	ClaimTypeJurisdiction         ClaimType = "jurisdiction"
	ClaimTypeExempted             ClaimType = "exempted"
	ClaimTypeBlocked              ClaimType = "blocked"
)

// CountryCode is an ISO 3166-1 alpha-2 jurisdiction code.
type CountryCode string

// Claim is an assertion about an identity, scoped to one asset. Two claims
// are the same claim exactly when every field matches; rule evaluation
// compares whole values, never partial fields.
type Claim struct {
	Type  ClaimType `json:"type"`
	Scope Ticker    `json:"scope,omitempty"`
	// Jurisdiction is set only for ClaimTypeJurisdiction.
	Jurisdiction CountryCode `json:"jurisdiction,omitempty"`
}

// JurisdictionClaim builds the one claim shape that carries a country.
func JurisdictionClaim(scope Ticker, country CountryCode) Claim {
	return Claim{Type: ClaimTypeJurisdiction, Scope: scope, Jurisdiction: country}
}
