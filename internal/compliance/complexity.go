package compliance

// Complexity bounds the work a single verification can trigger. Each
// condition costs one claim fetch per referenced claim per counting issuer,
// so the budget is expressed in worst-case fetches across the whole rule
// set. Mutations that could raise the cost re-validate against the budget
// before writing anything.

// conditionCost is claimCount * max(1, issuerCount). Identity conditions
// fetch no claims but still count one unit of evaluation work; a condition
// with no explicit issuers falls back to the trusted-issuer list.
func conditionCost(cond Condition, trustedIssuerCount int) uint64 {
	claims := uint64(1)
	switch cond.Kind {
	case ConditionIsAnyOf, ConditionIsNoneOf:
		claims = uint64(len(cond.Claims))
	}

	issuers := len(cond.Issuers)
	if issuers == 0 {
		issuers = trustedIssuerCount
	}
	if issuers < 1 {
		issuers = 1
	}
	return claims * uint64(issuers)
}

// setComplexity sums the cost of every condition on both sides of every
// requirement.
func setComplexity(reqs []ComplianceRequirement, trustedIssuerCount int) uint64 {
	var total uint64
	for _, req := range reqs {
		for _, cond := range req.SenderConditions {
			total += conditionCost(cond, trustedIssuerCount)
		}
		for _, cond := range req.ReceiverConditions {
			total += conditionCost(cond, trustedIssuerCount)
		}
	}
	return total
}
