package domain

// Balance is a token amount in minimum representable units.
type Balance uint64

const (
	// OneUnit is the number of minimum units in one whole token. Indivisible
	// assets transact only in exact multiples of it.
	OneUnit Balance = 1_000_000

	// MaxSupply caps the total supply of any single asset.
	MaxSupply Balance = OneUnit * 1_000_000_000_000
)

// CheckedAdd returns a+b and whether it stayed in range. Identity balances
// and total supply must use the checked forms; wrapping silently would break
// conservation.
func (b Balance) CheckedAdd(v Balance) (Balance, bool) {
	sum := b + v
	return sum, sum >= b
}

// CheckedSub returns b-v and whether the subtraction was covered.
func (b Balance) CheckedSub(v Balance) (Balance, bool) {
	if v > b {
		return 0, false
	}
	return b - v, true
}

// SaturatingAdd clamps at the maximum representable value. Reserved for
// derived aggregates that are reconstructable from primary balances.
func (b Balance) SaturatingAdd(v Balance) Balance {
	if sum := b + v; sum >= b {
		return sum
	}
	return ^Balance(0)
}

// SaturatingSub clamps at zero. Reserved for derived aggregates.
func (b Balance) SaturatingSub(v Balance) Balance {
	if v > b {
		return 0
	}
	return b - v
}

// IsUnitMultiple reports whether the amount is an exact multiple of OneUnit.
func (b Balance) IsUnitMultiple() bool { return b%OneUnit == 0 }
