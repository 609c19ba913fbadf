package testutil

import (
	"context"
	"net/http"

	authmw "covenant/pkg/platform/middleware/auth"
)

// WithCaller stamps a caller DID on the request context, simulating what the
// bearer-auth middleware does for authenticated requests.
func WithCaller(req *http.Request, did string) *http.Request {
	return req.WithContext(authmw.WithCaller(req.Context(), did))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
