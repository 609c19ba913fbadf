package transfer

import "fmt"

// Status is the single-byte verdict of a transfer check, following the
// ERC-1400 status convention: the 0x5x range carries the standard codes,
// 0xa8 and above the application-specific causes.
type Status byte

const (
	StatusTransferFailure       Status = 0x50
	StatusTransferSuccess       Status = 0x51
	StatusInsufficientBalance   Status = 0x52
	StatusInsufficientAllowance Status = 0x53
	StatusTransfersHalted       Status = 0x54
	StatusFundsLocked           Status = 0x55
	StatusInvalidSender         Status = 0x56
	StatusInvalidReceiver       Status = 0x57
	StatusInvalidOperator       Status = 0x58

	StatusInvalidGranularity      Status = 0xa8
	StatusPortfolioFailure        Status = 0xa9
	StatusCustodianError          Status = 0xaa
	StatusScopeClaimMissing       Status = 0xab
	StatusStatisticsFailure       Status = 0xac
	StatusComplianceFailure       Status = 0xad
	StatusInvalidSenderIdentity   Status = 0xae
	StatusInvalidReceiverIdentity Status = 0xaf
)

// Ok reports whether the status admits the transfer.
func (s Status) Ok() bool { return s == StatusTransferSuccess }

func (s Status) String() string {
	switch s {
	case StatusTransferFailure:
		return "transfer_failure"
	case StatusTransferSuccess:
		return "transfer_success"
	case StatusInsufficientBalance:
		return "insufficient_balance"
	case StatusInsufficientAllowance:
		return "insufficient_allowance"
	case StatusTransfersHalted:
		return "transfers_halted"
	case StatusFundsLocked:
		return "funds_locked"
	case StatusInvalidSender:
		return "invalid_sender"
	case StatusInvalidReceiver:
		return "invalid_receiver"
	case StatusInvalidOperator:
		return "invalid_operator"
	case StatusInvalidGranularity:
		return "invalid_granularity"
	case StatusPortfolioFailure:
		return "portfolio_failure"
	case StatusCustodianError:
		return "custodian_error"
	case StatusScopeClaimMissing:
		return "scope_claim_missing"
	case StatusStatisticsFailure:
		return "statistics_failure"
	case StatusComplianceFailure:
		return "compliance_failure"
	case StatusInvalidSenderIdentity:
		return "invalid_sender_identity"
	case StatusInvalidReceiverIdentity:
		return "invalid_receiver_identity"
	default:
		return fmt.Sprintf("status_0x%02x", byte(s))
	}
}
