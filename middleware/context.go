package middleware

import (
	"context"

	"github.com/roadtodev/rolegate/authz"
)

// Context key type to avoid collisions
type contextKey string

const (
	// claimSetKey is the context key for the caller's ClaimSet
	claimSetKey contextKey = "claim_set"
)

// WithClaimSet adds the caller's ClaimSet to the context.
func WithClaimSet(ctx context.Context, claims authz.ClaimSet) context.Context {
	return context.WithValue(ctx, claimSetKey, claims)
}

// ClaimSetFromContext retrieves the caller's ClaimSet from the context.
// The second return is false for unauthenticated requests, including
// requests admitted through a public policy.
func ClaimSetFromContext(ctx context.Context) (authz.ClaimSet, bool) {
	if val := ctx.Value(claimSetKey); val != nil {
		if claims, ok := val.(authz.ClaimSet); ok {
			return claims, true
		}
	}
	return authz.Anonymous(), false
}
