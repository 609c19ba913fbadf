package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"covenant/internal/transfer"
	"covenant/pkg/domain"
	"covenant/pkg/platform/httputil"
	"covenant/pkg/platform/middleware/auth"
	"covenant/pkg/requestcontext"
)

// TransferService defines the pipeline diagnostics the transport consumes.
type TransferService interface {
	CanTransferGranular(ctx context.Context, fromCustodian *domain.IdentityID, from domain.PortfolioID, toCustodian *domain.IdentityID, to domain.PortfolioID, ticker domain.Ticker, amount domain.Balance) (transfer.TransferReport, error)
}

// TransferHandler wires transfer diagnostics to the pipeline service.
type TransferHandler struct {
	service TransferService
	logger  *slog.Logger
}

// NewTransferHandler constructs a transfer handler with its dependencies.
func NewTransferHandler(service TransferService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		service: service,
		logger:  logger,
	}
}

// Register mounts transfer endpoints on the router.
func (h *TransferHandler) Register(r chi.Router) {
	r.Post("/transfers/check", h.HandleCheckTransfer)
}

// HandleCheckTransfer handles POST /v1/transfers/check requests. The probe
// is read-only: it evaluates every gate independently and moves nothing.
func (h *TransferHandler) HandleCheckTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CheckTransferRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	report, err := h.service.CanTransferGranular(ctx,
		req.ParsedFromCustodian(), req.ParsedFrom(),
		req.ParsedToCustodian(), req.ParsedTo(),
		req.ParsedTicker(), req.ParsedAmount(),
	)
	if err != nil {
		h.logger.ErrorContext(ctx, "transfer diagnostic failed",
			"request_id", requestID,
			"ticker", req.Ticker,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "transfer diagnostic evaluated",
		"request_id", requestID,
		"caller", auth.Caller(ctx),
		"ticker", req.Ticker,
		"result", report.Result,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromReport(req, report))
}
