// Package events defines the domain event envelope and the fail-closed
// publishing path. Every state mutation in the ledger emits an event through
// the transactional outbox so downstream consumers (settlement, reporting)
// see exactly the writes that committed.
package events

import (
	"time"

	"github.com/google/uuid"

	"covenant/pkg/domain"
)

// EventType names a domain event.
type EventType string

const (
	// Registry events
	EventTickerRegistered          EventType = "ticker_registered"
	EventTickerTransferred         EventType = "ticker_transferred"
	EventAssetCreated              EventType = "asset_created"
	EventAssetRenamed              EventType = "asset_renamed"
	EventAssetFrozen               EventType = "asset_frozen"
	EventAssetUnfrozen             EventType = "asset_unfrozen"
	EventDivisibilityChanged       EventType = "divisibility_changed"
	EventFundingRoundSet           EventType = "funding_round_set"
	EventIdentifiersUpdated        EventType = "identifiers_updated"
	EventAssetOwnershipTransferred EventType = "asset_ownership_transferred"
	EventPIATransferred            EventType = "pia_transferred"

	// Ledger events
	EventTransfer           EventType = "transfer"
	EventIssued             EventType = "issued"
	EventRedeemed           EventType = "redeemed"
	EventControllerTransfer EventType = "controller_transfer"
	EventScopeRebound       EventType = "scope_rebound"

	// Compliance events
	EventComplianceRequirementCreated EventType = "compliance_requirement_created"
	EventComplianceRequirementRemoved EventType = "compliance_requirement_removed"
	EventComplianceRequirementChanged EventType = "compliance_requirement_changed"
	EventAssetComplianceReplaced      EventType = "asset_compliance_replaced"
	EventAssetComplianceReset         EventType = "asset_compliance_reset"
	EventAssetCompliancePaused        EventType = "asset_compliance_paused"
	EventAssetComplianceResumed       EventType = "asset_compliance_resumed"
	EventTrustedIssuerAdded           EventType = "trusted_issuer_added"
	EventTrustedIssuerRemoved         EventType = "trusted_issuer_removed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. Ticker is the
// aggregate: consumers partition by it and replays stay per-asset ordered.
type Event struct {
	ID        uuid.UUID
	Type      EventType
	Ticker    domain.Ticker
	Actor     domain.IdentityID
	Timestamp time.Time
	RequestID string
	// Payload carries the type-specific fields; it marshals to JSON at the
	// store boundary. Nil is allowed for events whose envelope says it all.
	Payload any
}

// TickerPayload records a ticker registration window.
type TickerPayload struct {
	Owner  domain.IdentityID `json:"owner"`
	Expiry *time.Time        `json:"expiry,omitempty"`
}

// AssetPayload snapshots the asset fields a registry mutation touched.
type AssetPayload struct {
	Name         string `json:"name,omitempty"`
	Type         string `json:"type,omitempty"`
	Divisible    bool   `json:"divisible,omitempty"`
	FundingRound string `json:"funding_round,omitempty"`
}

// AssetIdentifierPayload is one external identifier attached to an asset.
type AssetIdentifierPayload struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// IdentifiersPayload lists the full identifier set after an update.
type IdentifiersPayload struct {
	Identifiers []AssetIdentifierPayload `json:"identifiers"`
}

// TransferPayload describes balance movement between two portfolios.
// Mint uses a zero From coordinate, redeem a zero To coordinate.
type TransferPayload struct {
	From   domain.PortfolioID `json:"from"`
	To     domain.PortfolioID `json:"to"`
	Amount domain.Balance     `json:"amount"`
}

// IssuedPayload carries mint accounting alongside the Transfer event.
type IssuedPayload struct {
	To            domain.IdentityID `json:"to"`
	Amount        domain.Balance    `json:"amount"`
	FundingRound  string            `json:"funding_round,omitempty"`
	IssuedInRound domain.Balance    `json:"issued_in_round"`
}

// RedeemedPayload carries burn accounting alongside the Transfer event.
type RedeemedPayload struct {
	From   domain.IdentityID `json:"from"`
	Amount domain.Balance    `json:"amount"`
}

// RequirementPayload snapshots a compliance requirement after a mutation.
type RequirementPayload struct {
	RequirementID uint32 `json:"requirement_id"`
	SenderRules   int    `json:"sender_rules"`
	ReceiverRules int    `json:"receiver_rules"`
}

// TrustedIssuerPayload names the issuer a trusted-list mutation touched.
type TrustedIssuerPayload struct {
	Issuer domain.IdentityID `json:"issuer"`
}

// CompliancePayload summarizes a whole-record compliance change.
type CompliancePayload struct {
	Requirements int  `json:"requirements"`
	Paused       bool `json:"paused"`
}

// OwnershipPayload records owner or agent handovers.
type OwnershipPayload struct {
	From domain.IdentityID `json:"from"`
	To   domain.IdentityID `json:"to"`
}

// ScopePayload records an investor-uniqueness scope binding.
type ScopePayload struct {
	Identity domain.IdentityID `json:"identity"`
	Scope    domain.ScopeID    `json:"scope"`
}
