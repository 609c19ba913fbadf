package httptransport

import (
	"covenant/pkg/domain"
	dErrors "covenant/pkg/domain-errors"
)

// PortfolioRef addresses one portfolio in request bodies. Number zero (or
// absent) means the identity's default portfolio, matching the ledger's
// numbering where user portfolios start at one.
type PortfolioRef struct {
	Did    string `json:"did"`
	Number uint64 `json:"number,omitempty"`
}

func (p PortfolioRef) parse(field string) (domain.PortfolioID, error) {
	did, err := domain.ParseIdentityID(p.Did)
	if err != nil {
		return domain.PortfolioID{}, dErrors.Newf(dErrors.CodeValidation, "%s.did must be a valid uuid", field)
	}
	if p.Number == 0 {
		return domain.DefaultPortfolio(did), nil
	}
	return domain.UserPortfolio(did, p.Number), nil
}

// CheckTransferRequest is the HTTP request body for POST /v1/transfers/check.
type CheckTransferRequest struct {
	Ticker        string       `json:"ticker"`
	Amount        uint64       `json:"amount"`
	From          PortfolioRef `json:"from"`
	To            PortfolioRef `json:"to"`
	FromCustodian string       `json:"from_custodian,omitempty"`
	ToCustodian   string       `json:"to_custodian,omitempty"`

	// Parsed values (populated by Validate)
	parsedTicker        domain.Ticker
	parsedFrom          domain.PortfolioID
	parsedTo            domain.PortfolioID
	parsedFromCustodian *domain.IdentityID
	parsedToCustodian   *domain.IdentityID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CheckTransferRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if r.Ticker == "" {
		return dErrors.New(dErrors.CodeValidation, "ticker is required")
	}
	ticker, err := domain.ParseTicker(r.Ticker)
	if err != nil {
		return err
	}
	r.parsedTicker = ticker

	from, err := r.From.parse("from")
	if err != nil {
		return err
	}
	r.parsedFrom = from

	to, err := r.To.parse("to")
	if err != nil {
		return err
	}
	r.parsedTo = to

	if r.FromCustodian != "" {
		did, err := domain.ParseIdentityID(r.FromCustodian)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "from_custodian must be a valid uuid")
		}
		r.parsedFromCustodian = &did
	}
	if r.ToCustodian != "" {
		did, err := domain.ParseIdentityID(r.ToCustodian)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "to_custodian must be a valid uuid")
		}
		r.parsedToCustodian = &did
	}

	return nil
}

// ParsedTicker returns the validated ticker.
func (r *CheckTransferRequest) ParsedTicker() domain.Ticker {
	return r.parsedTicker
}

// ParsedFrom returns the validated sender portfolio.
func (r *CheckTransferRequest) ParsedFrom() domain.PortfolioID {
	return r.parsedFrom
}

// ParsedTo returns the validated receiver portfolio.
func (r *CheckTransferRequest) ParsedTo() domain.PortfolioID {
	return r.parsedTo
}

// ParsedFromCustodian returns the sender-side custodian, nil when the probe
// should assume the portfolio owner moves the funds.
func (r *CheckTransferRequest) ParsedFromCustodian() *domain.IdentityID {
	return r.parsedFromCustodian
}

// ParsedToCustodian returns the receiver-side custodian, nil when absent.
func (r *CheckTransferRequest) ParsedToCustodian() *domain.IdentityID {
	return r.parsedToCustodian
}

// ParsedAmount returns the probed amount as a ledger balance.
func (r *CheckTransferRequest) ParsedAmount() domain.Balance {
	return domain.Balance(r.Amount)
}
