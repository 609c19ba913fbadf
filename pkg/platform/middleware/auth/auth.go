// Package auth gates the diagnostic HTTP surface behind HS256 bearer tokens.
// The token authenticates the caller; it grants no ledger authority, since
// every service operation takes the acting identity explicitly.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "covenant/pkg/domain-errors"
	"covenant/pkg/platform/httputil"
	"covenant/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims the middleware needs from a validated token.
type JWTClaims struct {
	Did string
	JTI string
}

type contextKeyCaller struct{}

// ContextKeyCaller is exported for tests that build contexts directly.
var ContextKeyCaller = contextKeyCaller{}

// Caller retrieves the authenticated caller DID from the context.
func Caller(ctx context.Context) string {
	if did, ok := ctx.Value(ContextKeyCaller).(string); ok {
		return did
	}
	return ""
}

// WithCaller injects a caller DID into a context. Useful for handler tests
// that don't run the middleware chain.
func WithCaller(ctx context.Context, did string) context.Context {
	return context.WithValue(ctx, ContextKeyCaller, did)
}

// RequireAuth rejects requests without a valid bearer token and stashes the
// caller DID for handler logs.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(ctx, claims.Did)))
		})
	}
}
