package claims

import (
	"context"
	"sync"

	"covenant/pkg/domain"
)

type claimKey struct {
	target    domain.IdentityID
	issuer    domain.IdentityID
	claimType domain.ClaimType
	scope     domain.Ticker
}

// InMemoryProvider is a Provider backed by process memory. It is the
// reference implementation for tests and single-node deployments; an issuer
// holds at most one claim per (target, type, scope), so re-adding replaces.
type InMemoryProvider struct {
	mu         sync.RWMutex
	identities map[domain.IdentityID]struct{}
	cdd        map[domain.IdentityID]bool
	claims     map[claimKey]domain.Claim
}

// NewInMemoryProvider returns an empty provider. No identities are known
// until registered.
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{
		identities: make(map[domain.IdentityID]struct{}),
		cdd:        make(map[domain.IdentityID]bool),
		claims:     make(map[claimKey]domain.Claim),
	}
}

// RegisterIdentity makes the identity known to the provider.
func (p *InMemoryProvider) RegisterIdentity(did domain.IdentityID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identities[did] = struct{}{}
}

// SetCDD records whether the identity holds a live due-diligence
// attestation. The identity is registered as a side effect.
func (p *InMemoryProvider) SetCDD(did domain.IdentityID, valid bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identities[did] = struct{}{}
	p.cdd[did] = valid
}

// AddClaim stores issuer's attestation about target, replacing any previous
// claim of the same type and scope from that issuer.
func (p *InMemoryProvider) AddClaim(target, issuer domain.IdentityID, claim domain.Claim) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.claims[claimKey{target: target, issuer: issuer, claimType: claim.Type, scope: claim.Scope}] = claim
}

// RemoveClaim withdraws an attestation. Removing a claim that was never
// made is a no-op.
func (p *InMemoryProvider) RemoveClaim(target, issuer domain.IdentityID, claimType domain.ClaimType, scope domain.Ticker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.claims, claimKey{target: target, issuer: issuer, claimType: claimType, scope: scope})
}

func (p *InMemoryProvider) FetchClaim(_ context.Context, target domain.IdentityID, claimType domain.ClaimType, issuer domain.IdentityID, scope domain.Ticker) (*domain.Claim, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	claim, ok := p.claims[claimKey{target: target, issuer: issuer, claimType: claimType, scope: scope}]
	if !ok {
		return nil, nil
	}
	return &claim, nil
}

func (p *InMemoryProvider) HasValidCDD(_ context.Context, did domain.IdentityID) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cdd[did], nil
}

func (p *InMemoryProvider) IdentityExists(_ context.Context, did domain.IdentityID) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.identities[did]
	return ok, nil
}
