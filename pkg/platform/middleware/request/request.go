// Package request provides middleware for request identification.
// Every request gets a stable ID, propagated through the context and echoed
// in the X-Request-ID response header so clients can quote it in reports.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"covenant/pkg/requestcontext"
)

// Middleware assigns the request ID: an inbound X-Request-ID header when the
// caller supplied one, a fresh UUID otherwise.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
// Deprecated: Use requestcontext.RequestID(ctx) instead.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
