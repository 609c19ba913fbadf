// Package ledger owns every balance view of an asset: the per-identity
// balances that conservation is defined over, the scope index mapping
// holders to their investor-uniqueness scope, and the derived per-scope
// aggregates that holder statistics read. All mutation routes through the
// service so the views cannot drift apart.
package ledger

import (
	dErrors "covenant/pkg/domain-errors"
)

var (
	// ErrBalanceOverflow means a credit would wrap the identity's balance.
	ErrBalanceOverflow = dErrors.New(dErrors.CodeArithmetic, "balance overflow")

	// ErrInsufficientBalance means a debit exceeds the identity's balance.
	ErrInsufficientBalance = dErrors.New(dErrors.CodeArithmetic, "insufficient balance")
)
