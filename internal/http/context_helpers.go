package httpx

import (
	"context"

	"github.com/clario/auth-api/internal/tokens"
)

// claimsKey is an unexported context key type for access token claims.
type claimsKey struct{}

// SetClaimsInContext returns a context carrying the verified access claims.
func SetClaimsInContext(ctx context.Context, claims tokens.AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext retrieves verified access claims from the context.
// The second return is false when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) (tokens.AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(tokens.AccessClaims)
	return claims, ok
}
