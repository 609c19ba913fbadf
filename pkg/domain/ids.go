// Package domain holds the shared vocabulary of the ledger: typed
// identifiers, tickers, balances, portfolio coordinates, and claims.
// Everything here is a value type with no I/O so any layer may import it.
package domain

import (
	"github.com/google/uuid"

	dErrors "covenant/pkg/domain-errors"
)

// IdentityID identifies a participant (investor, issuer, trusted claim
// issuer). Distinct named types keep identity and scope values from being
// swapped at compile time.
type IdentityID uuid.UUID

// ScopeID identifies an investor-uniqueness scope. Identities controlled by
// the same beneficial owner share a scope so holder statistics count them
// once.
type ScopeID uuid.UUID

// NewIdentityID returns a fresh random identity.
func NewIdentityID() IdentityID { return IdentityID(uuid.New()) }

// NewScopeID returns a fresh random scope.
func NewScopeID() ScopeID { return ScopeID(uuid.New()) }

// ParseIdentityID parses and validates an identity identifier.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseIdentityID(s string) (IdentityID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return IdentityID{}, err
	}
	return IdentityID(u), nil
}

// ParseScopeID parses and validates a scope identifier.
func ParseScopeID(s string) (ScopeID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ScopeID{}, err
	}
	return ScopeID(u), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid uuid")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil uuid")
	}
	return u, nil
}

func (id IdentityID) String() string { return uuid.UUID(id).String() }
func (id IdentityID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the canonical uuid form so identities appear as
// strings in JSON, not byte arrays. UnmarshalText is the pure codec inverse;
// use ParseIdentityID where empty or nil ids must be rejected.
func (id IdentityID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *IdentityID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid uuid")
	}
	*id = IdentityID(u)
	return nil
}

func (id ScopeID) String() string { return uuid.UUID(id).String() }
func (id ScopeID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

func (id ScopeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ScopeID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "scope must be a valid uuid")
	}
	*id = ScopeID(u)
	return nil
}

// ScopeFromIdentity derives the scope used for an identity that has no
// shared-ownership scope yet: the identity is its own scope.
func ScopeFromIdentity(id IdentityID) ScopeID { return ScopeID(id) }
