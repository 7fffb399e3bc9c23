package token

import (
	"context"
	"errors"
)

// ErrProviderUnavailable is returned by Source and Validator
// implementations when the identity provider failed to initialize or
// answer. Guards downgrade it to an unauthenticated session rather than
// surfacing it; access fails closed.
var ErrProviderUnavailable = errors.New("identity provider unavailable")

// Validator is the server-side capability that vouches for a bearer
// token and returns its claims. Implementations own signature and expiry
// checking; callers treat any error as "no valid session".
type Validator interface {
	// ValidateToken validates a bearer token and returns its claims.
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

// Source is the client-side view of the identity provider: the current
// session plus login/logout notifications. Implementations wrap the
// provider SDK; the core never talks to the provider directly.
//
// Callback registration is not synchronized by this interface. The
// session.Listener is the single registration point and binds callbacks
// once, before any evaluation runs.
type Source interface {
	// Initialize brings the provider session up (e.g. silent SSO check).
	// It must complete before IsAuthenticated or CurrentClaims are
	// meaningful.
	Initialize(ctx context.Context) error

	// IsAuthenticated reports whether a valid session exists.
	IsAuthenticated() bool

	// CurrentClaims returns the claims of the current session, or nil
	// when there is none. Consumers normalize via ExtractClaimSet.
	CurrentClaims() *Claims

	// OnLoginSuccess registers fn to run after each successful login.
	OnLoginSuccess(fn func())

	// OnLogout registers fn to run after each logout.
	OnLogout(fn func())
}
