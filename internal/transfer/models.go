// Package transfer implements the transfer validation pipeline: the ordered
// short-circuit gate every commit must clear, the read-only diagnostics that
// report why a transfer would fail, and the commit paths that move balances
// through every view atomically.
package transfer

import (
	"covenant/internal/compliance"
	"covenant/internal/transfer/ports"
	dErrors "covenant/pkg/domain-errors"
)

var (
	// ErrInvalidTransfer rejects a commit whose validation gate returned a
	// non-success status. The status is logged, not carried.
	ErrInvalidTransfer = dErrors.New(dErrors.CodeInvariantViolation, "transfer does not satisfy the validation gate")

	// ErrInvalidGranularity rejects amounts an indivisible asset cannot
	// move: anything but whole-unit multiples.
	ErrInvalidGranularity = dErrors.New(dErrors.CodeValidation, "amount violates asset granularity")

	// ErrSenderSameAsReceiver rejects transfers within one identity.
	ErrSenderSameAsReceiver = dErrors.New(dErrors.CodeInvalidInput, "sender and receiver are the same identity")

	// ErrTotalSupplyOverflow rejects a mint whose supply would wrap.
	ErrTotalSupplyOverflow = dErrors.New(dErrors.CodeArithmetic, "total supply overflow")

	// ErrMaxSupplyExceeded rejects a mint beyond the per-asset supply cap.
	ErrMaxSupplyExceeded = dErrors.New(dErrors.CodeCapacityExceeded, "total supply above limit")

	// ErrTotalSupplyUnderflow rejects a redemption burning more than the
	// recorded supply; a balance above supply means corrupted state.
	ErrTotalSupplyUnderflow = dErrors.New(dErrors.CodeArithmetic, "total supply underflow")

	// ErrNotIssuanceAgent rejects supply operations from identities other
	// than the primary issuance agent (the owner when none is assigned).
	ErrNotIssuanceAgent = dErrors.New(dErrors.CodeUnauthorized, "identity is not the issuance agent or owner")
)

// TransferReport is the no-short-circuit diagnostic: every gate evaluated
// independently so a caller sees all failures at once. Sender and receiver
// due-diligence verdicts are each computed from their own party.
type TransferReport struct {
	InvalidGranularity        bool                        `json:"invalid_granularity"`
	SelfTransfer              bool                        `json:"self_transfer"`
	InvalidSenderCDD          bool                        `json:"invalid_sender_cdd"`
	InvalidReceiverCDD        bool                        `json:"invalid_receiver_cdd"`
	MissingScopeClaim         bool                        `json:"missing_scope_claim"`
	SenderCustodianError      bool                        `json:"sender_custodian_error"`
	ReceiverCustodianError    bool                        `json:"receiver_custodian_error"`
	SenderInsufficientBalance bool                        `json:"sender_insufficient_balance"`
	AssetFrozen               bool                        `json:"asset_frozen"`
	Portfolio                 ports.PortfolioValidity     `json:"portfolio"`
	Statistics                []ports.RuleResult          `json:"statistics,omitempty"`
	Compliance                compliance.ComplianceReport `json:"compliance"`
	Result                    bool                        `json:"result"`
}
