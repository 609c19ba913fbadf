package domain

import "fmt"

// PortfolioKind separates the implicit default portfolio every identity owns
// from explicitly numbered user portfolios.
type PortfolioKind string

const (
	PortfolioKindDefault PortfolioKind = "default"
	PortfolioKindUser    PortfolioKind = "user"
)

// PortfolioID addresses one portfolio of one identity. Number is meaningful
// only for user portfolios.
type PortfolioID struct {
	Did    IdentityID    `json:"did"`
	Kind   PortfolioKind `json:"kind"`
	Number uint64        `json:"number,omitempty"`
}

// DefaultPortfolio returns the identity's implicit portfolio, which always
// exists and cannot be deleted.
func DefaultPortfolio(did IdentityID) PortfolioID {
	return PortfolioID{Did: did, Kind: PortfolioKindDefault}
}

// UserPortfolio returns the identity's numbered portfolio coordinate.
func UserPortfolio(did IdentityID, number uint64) PortfolioID {
	return PortfolioID{Did: did, Kind: PortfolioKindUser, Number: number}
}

func (p PortfolioID) IsDefault() bool { return p.Kind == PortfolioKindDefault }

func (p PortfolioID) String() string {
	if p.IsDefault() {
		return fmt.Sprintf("%s/default", p.Did)
	}
	return fmt.Sprintf("%s/user-%d", p.Did, p.Number)
}
