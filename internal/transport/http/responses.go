package httptransport

import (
	"covenant/internal/compliance"
	"covenant/internal/transfer"
	"covenant/pkg/domain"
)

// CheckTransferResponse is the HTTP response for POST /v1/transfers/check.
// The report echoes the probe parameters so responses are self-describing
// when archived.
type CheckTransferResponse struct {
	Ticker string                  `json:"ticker"`
	Amount uint64                  `json:"amount"`
	Report transfer.TransferReport `json:"report"`
}

// FromReport converts a granular pipeline report to an HTTP response.
func FromReport(req *CheckTransferRequest, report transfer.TransferReport) *CheckTransferResponse {
	return &CheckTransferResponse{
		Ticker: req.ParsedTicker().String(),
		Amount: req.Amount,
		Report: report,
	}
}

// AssetComplianceResponse is the HTTP response for
// GET /v1/assets/{ticker}/compliance. An asset with no recorded rules reports
// an empty requirement list, mirroring the engine's fail-closed default.
type AssetComplianceResponse struct {
	Ticker         string                             `json:"ticker"`
	Paused         bool                               `json:"paused"`
	Requirements   []compliance.ComplianceRequirement `json:"requirements"`
	TrustedIssuers []domain.IdentityID                `json:"trusted_issuers,omitempty"`
}

// FromCompliance converts engine state to an HTTP response.
func FromCompliance(ticker domain.Ticker, record compliance.AssetCompliance, issuers []domain.IdentityID) *AssetComplianceResponse {
	reqs := record.Requirements
	if reqs == nil {
		reqs = []compliance.ComplianceRequirement{}
	}
	return &AssetComplianceResponse{
		Ticker:         ticker.String(),
		Paused:         record.Paused,
		Requirements:   reqs,
		TrustedIssuers: issuers,
	}
}
