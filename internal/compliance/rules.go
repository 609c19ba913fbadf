package compliance

import "covenant/pkg/domain"

// evaluationContext is everything one condition evaluation may consult. The
// service assembles it (fetching claims through the provider) so evaluation
// stays pure and exhaustively testable.
type evaluationContext struct {
	// target is the identity under test (sender or receiver).
	target domain.IdentityID
	// pia is the asset's resolved primary issuance agent.
	pia domain.IdentityID
	// claims are the attestations fetched for this condition: one lookup per
	// referenced claim per counting issuer, non-nil results only.
	claims []domain.Claim
}

// evaluate reports whether the condition holds. Claim comparison is
// whole-value equality: a jurisdiction claim matches only if the country
// matches too.
func evaluate(cond Condition, ectx evaluationContext) bool {
	switch cond.Kind {
	case ConditionIsPresent:
		return containsClaim(ectx.claims, cond.Claim)
	case ConditionIsAbsent:
		return !containsClaim(ectx.claims, cond.Claim)
	case ConditionIsAnyOf:
		for _, want := range cond.Claims {
			if containsClaim(ectx.claims, want) {
				return true
			}
		}
		return false
	case ConditionIsNoneOf:
		for _, want := range cond.Claims {
			if containsClaim(ectx.claims, want) {
				return false
			}
		}
		return true
	case ConditionIsIdentity:
		switch cond.Identity.Kind {
		case TargetKindSpecific:
			return ectx.target == cond.Identity.DID
		case TargetKindPIA:
			return ectx.target == ectx.pia
		}
		return false
	default:
		// Unknown kinds deny rather than allow.
		return false
	}
}

func containsClaim(claims []domain.Claim, want domain.Claim) bool {
	for _, c := range claims {
		if c == want {
			return true
		}
	}
	return false
}
