package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"covenant/internal/compliance"
	"covenant/pkg/domain"
	"covenant/pkg/platform/httputil"
	"covenant/pkg/requestcontext"
)

// ComplianceService defines the engine reads the transport consumes.
type ComplianceService interface {
	Compliance(ctx context.Context, ticker domain.Ticker) (compliance.AssetCompliance, error)
	TrustedIssuers(ctx context.Context, ticker domain.Ticker) ([]domain.IdentityID, error)
}

// AssetHandler serves per-asset compliance state.
type AssetHandler struct {
	service ComplianceService
	logger  *slog.Logger
}

// NewAssetHandler constructs an asset handler with its dependencies.
func NewAssetHandler(service ComplianceService, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		service: service,
		logger:  logger,
	}
}

// Register mounts asset endpoints on the router.
func (h *AssetHandler) Register(r chi.Router) {
	r.Get("/assets/{ticker}/compliance", h.HandleAssetCompliance)
}

// HandleAssetCompliance handles GET /v1/assets/{ticker}/compliance requests.
func (h *AssetHandler) HandleAssetCompliance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	ticker, err := domain.ParseTicker(chi.URLParam(r, "ticker"))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid ticker in compliance lookup",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Compliance(ctx, ticker)
	if err != nil {
		h.logger.ErrorContext(ctx, "compliance lookup failed",
			"request_id", requestID,
			"ticker", ticker,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	issuers, err := h.service.TrustedIssuers(ctx, ticker)
	if err != nil {
		h.logger.ErrorContext(ctx, "trusted issuer lookup failed",
			"request_id", requestID,
			"ticker", ticker,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromCompliance(ticker, record, issuers))
}
