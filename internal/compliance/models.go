// Package compliance owns the per-asset transfer rule sets: which claim
// conditions a sender and receiver must satisfy before the ledger moves a
// balance. Rule evaluation itself is pure (rules.go); the service resolves
// claims through the claims provider and persists rule sets through Store.
package compliance

import (
	"slices"

	"covenant/pkg/domain"
	dErrors "covenant/pkg/domain-errors"
)

var (
	// ErrInvalidRequirementID means the referenced requirement was never
	// created or points past the latest issued id.
	ErrInvalidRequirementID = dErrors.New(dErrors.CodeNotFound, "compliance requirement id does not exist")

	// ErrDuplicateRequirements rejects a replacement batch that carries the
	// same requirement id twice.
	ErrDuplicateRequirements = dErrors.New(dErrors.CodeConflict, "duplicate requirement ids in batch")

	// ErrComplianceTooComplex rejects rule sets whose worst-case claim fetch
	// count exceeds the configured budget.
	ErrComplianceTooComplex = dErrors.New(dErrors.CodeCapacityExceeded, "compliance requirements exceed the complexity budget")

	// ErrIdentityNotFound rejects trusted-issuer mutations naming an unknown
	// identity.
	ErrIdentityNotFound = dErrors.New(dErrors.CodeNotFound, "identity does not exist")

	// ErrIncorrectIssuerOperation means adding an issuer already trusted or
	// removing one that never was.
	ErrIncorrectIssuerOperation = dErrors.New(dErrors.CodeConflict, "trusted issuer operation does not apply")

	// ErrEmptyBatch rejects batch mutations with nothing to do.
	ErrEmptyBatch = dErrors.New(dErrors.CodeBadRequest, "batch cannot be empty")

	// ErrNotOwner guards owner-only compliance mutations.
	ErrNotOwner = dErrors.New(dErrors.CodeUnauthorized, "identity does not own the asset")
)

// ConditionKind discriminates the closed set of condition shapes. A kind
// plus its payload fields is the whole union; there is no open interface to
// implement.
type ConditionKind string

const (
	// ConditionIsPresent requires the exact claim among the fetched set.
	ConditionIsPresent ConditionKind = "is_present"
	// ConditionIsAbsent requires the exact claim to be missing.
	ConditionIsAbsent ConditionKind = "is_absent"
	// ConditionIsAnyOf requires at least one of the listed claims.
	ConditionIsAnyOf ConditionKind = "is_any_of"
	// ConditionIsNoneOf requires every listed claim to be missing.
	ConditionIsNoneOf ConditionKind = "is_none_of"
	// ConditionIsIdentity requires the identity under test to be a specific
	// identity or the asset's primary issuance agent.
	ConditionIsIdentity ConditionKind = "is_identity"
)

// TargetKind discriminates the identity a ConditionIsIdentity names.
type TargetKind string

const (
	TargetKindSpecific TargetKind = "specific"
	TargetKindPIA      TargetKind = "primary_issuance_agent"
)

// TargetIdentity names who a ConditionIsIdentity matches. The PIA variant
// resolves at evaluation time, so rules survive agent handovers.
type TargetIdentity struct {
	Kind TargetKind        `json:"kind"`
	DID  domain.IdentityID `json:"did"`
}

// SpecificIdentity targets one fixed identity.
func SpecificIdentity(did domain.IdentityID) TargetIdentity {
	return TargetIdentity{Kind: TargetKindSpecific, DID: did}
}

// PrimaryIssuanceAgent targets whoever holds the PIA role when the condition
// is evaluated, falling back to the asset owner when unset.
func PrimaryIssuanceAgent() TargetIdentity {
	return TargetIdentity{Kind: TargetKindPIA}
}

// Condition is one transfer-rule predicate. Issuers restricts whose
// attestations count; an empty list falls back to the ticker's trusted
// issuers.
type Condition struct {
	Kind     ConditionKind       `json:"kind"`
	Claim    domain.Claim        `json:"claim,omitzero"`
	Claims   []domain.Claim      `json:"claims,omitempty"`
	Identity TargetIdentity      `json:"identity,omitzero"`
	Issuers  []domain.IdentityID `json:"issuers,omitempty"`
}

// Present requires the claim to be attested by a counting issuer.
func Present(claim domain.Claim, issuers ...domain.IdentityID) Condition {
	return Condition{Kind: ConditionIsPresent, Claim: claim, Issuers: issuers}
}

// Absent requires that no counting issuer attested the claim.
func Absent(claim domain.Claim, issuers ...domain.IdentityID) Condition {
	return Condition{Kind: ConditionIsAbsent, Claim: claim, Issuers: issuers}
}

// AnyOf requires at least one of the claims.
func AnyOf(claims []domain.Claim, issuers ...domain.IdentityID) Condition {
	return Condition{Kind: ConditionIsAnyOf, Claims: claims, Issuers: issuers}
}

// NoneOf requires all of the claims to be missing.
func NoneOf(claims []domain.Claim, issuers ...domain.IdentityID) Condition {
	return Condition{Kind: ConditionIsNoneOf, Claims: claims, Issuers: issuers}
}

// MatchesIdentity requires the identity under test to be the target.
func MatchesIdentity(target TargetIdentity, issuers ...domain.IdentityID) Condition {
	return Condition{Kind: ConditionIsIdentity, Identity: target, Issuers: issuers}
}

// Equal reports exact structural equality, the notion used for duplicate
// detection. Order of claims and issuers is significant.
func (c Condition) Equal(other Condition) bool {
	if c.Kind != other.Kind || c.Claim != other.Claim || c.Identity != other.Identity {
		return false
	}
	return slices.Equal(c.Claims, other.Claims) && slices.Equal(c.Issuers, other.Issuers)
}

// referencedClaims returns the claims whose attestations the condition's
// evaluation fetches. Identity conditions fetch nothing.
func (c Condition) referencedClaims() []domain.Claim {
	switch c.Kind {
	case ConditionIsPresent, ConditionIsAbsent:
		return []domain.Claim{c.Claim}
	case ConditionIsAnyOf, ConditionIsNoneOf:
		return c.Claims
	default:
		return nil
	}
}

func conditionsEqual(a, b []Condition) bool {
	return slices.EqualFunc(a, b, Condition.Equal)
}

func cloneConditions(conds []Condition) []Condition {
	if conds == nil {
		return nil
	}
	out := make([]Condition, len(conds))
	for i, c := range conds {
		c.Claims = slices.Clone(c.Claims)
		c.Issuers = slices.Clone(c.Issuers)
		out[i] = c
	}
	return out
}

// ComplianceRequirement pairs the conditions a sender must satisfy with the
// conditions a receiver must satisfy. A transfer passes when any single
// requirement is fully satisfied on both sides.
type ComplianceRequirement struct {
	ID                 uint32      `json:"id"`
	SenderConditions   []Condition `json:"sender_conditions,omitempty"`
	ReceiverConditions []Condition `json:"receiver_conditions,omitempty"`
}

func (r ComplianceRequirement) clone() ComplianceRequirement {
	return ComplianceRequirement{
		ID:                 r.ID,
		SenderConditions:   cloneConditions(r.SenderConditions),
		ReceiverConditions: cloneConditions(r.ReceiverConditions),
	}
}

// sameConditions reports whether two requirements carry identical condition
// pairs, ignoring ids.
func (r ComplianceRequirement) sameConditions(other ComplianceRequirement) bool {
	return conditionsEqual(r.SenderConditions, other.SenderConditions) &&
		conditionsEqual(r.ReceiverConditions, other.ReceiverConditions)
}

func cloneRequirements(reqs []ComplianceRequirement) []ComplianceRequirement {
	if reqs == nil {
		return nil
	}
	out := make([]ComplianceRequirement, len(reqs))
	for i, r := range reqs {
		out[i] = r.clone()
	}
	return out
}

// AssetCompliance is the whole per-ticker rule record. Requirement ids
// strictly increase in list order and are never reused; Paused suspends
// enforcement without touching the rules.
type AssetCompliance struct {
	Paused       bool                    `json:"paused"`
	Requirements []ComplianceRequirement `json:"requirements"`
	// LatestID is the high-water mark of issued requirement ids. It outlives
	// the requirements themselves: removing the newest requirement, or
	// resetting the record, never frees its id for reissue.
	LatestID uint32 `json:"latest_id,omitempty"`
}

// ConditionResult is one evaluated condition inside a compliance report.
type ConditionResult struct {
	Condition Condition `json:"condition"`
	Satisfied bool      `json:"satisfied"`
}

// RequirementReport is one fully-evaluated requirement: every condition's
// verdict on both sides, plus the requirement conjunction.
type RequirementReport struct {
	ID              uint32            `json:"id"`
	SenderResults   []ConditionResult `json:"sender_results,omitempty"`
	ReceiverResults []ConditionResult `json:"receiver_results,omitempty"`
	Satisfied       bool              `json:"satisfied"`
}

// ComplianceReport is the full-evaluation result: nothing short-circuits, so
// callers see why each requirement passed or failed. Satisfied is the OR
// over requirements; Allowed additionally honors the paused flag the way
// enforcement does.
type ComplianceReport struct {
	Paused       bool                `json:"paused"`
	Requirements []RequirementReport `json:"requirements"`
	Satisfied    bool                `json:"satisfied"`
}

// Allowed reports whether enforcement would let the transfer through.
func (r ComplianceReport) Allowed() bool {
	return r.Paused || r.Satisfied
}
