// Package httptransport assembles the diagnostic HTTP surface: read-only
// probes over the transfer pipeline and the compliance engine, plus the
// operational endpoints. Ledger mutations are deliberately not exposed here;
// they run through the service layer with an explicit acting identity.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"covenant/internal/platform/metrics"
	"covenant/pkg/platform/httputil"
	"covenant/pkg/platform/middleware/auth"
	"covenant/pkg/platform/middleware/metadata"
	"covenant/pkg/platform/middleware/request"
	"covenant/pkg/platform/middleware/requesttime"
)

const readinessTimeout = 5 * time.Second

// RouterConfig carries the router dependencies.
type RouterConfig struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Validator auth.JWTValidator
	Transfers *TransferHandler
	Assets    *AssetHandler

	// Ready reports whether backing stores answer; nil means always ready.
	Ready func(ctx context.Context) error
}

// NewRouter wires middleware, operational endpoints, and the authenticated
// v1 API group.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requesttime.Middleware)
	r.Use(request.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(instrument(cfg.Metrics))

	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz(cfg.Ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(auth.RequireAuth(cfg.Validator, cfg.Logger))
		cfg.Transfers.Register(v1)
		cfg.Assets.Register(v1)
	})

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReadyz(ready func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			defer cancel()
			if err := ready(ctx); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// instrument records request counts and latency against the matched route
// pattern, so path parameters don't explode label cardinality.
func instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(route, r.Method, ww.Status(), time.Since(start))
		})
	}
}
