// Package middleware provides the server-side route guard: chi-compatible
// middleware that resolves the caller's claims through an injected token
// validator, evaluates the route's role requirements, and either forwards
// the request or short-circuits with a machine-readable denial.
package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/roadtodev/rolegate/authz"
	"github.com/roadtodev/rolegate/token"
	"github.com/roadtodev/rolegate/utils"
)

// authTokenCookieName is the cookie fallback for bearer tokens
// (Authorization header takes precedence)
const authTokenCookieName = "auth_token"

// Guard intercepts requests bound to a role requirement. It never mutates
// any shared auth state; each request is evaluated independently.
type Guard struct {
	validator token.Validator
	logger    *zap.Logger
}

// NewGuard creates a Guard around the given token validator.
func NewGuard(validator token.Validator, logger *zap.Logger) *Guard {
	return &Guard{
		validator: validator,
		logger:    logger,
	}
}

// RequireRoles returns middleware enforcing that the caller holds at
// least one of the given roles (the authz.RolePublic sentinel admits
// everyone). Denials are written as 401/403 JSON carrying the deny
// reason code; claim contents never leak into the response.
//
// A missing, malformed, or rejected token is not an error: the request
// is evaluated as unauthenticated, so public routes stay reachable and
// everything else fails closed.
func (g *Guard) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims, authenticated := g.resolveCaller(r)

			decision := authz.Evaluate(roles, claims, authenticated)
			if !decision.Allow() {
				g.deny(w, r, decision, claims)
				return
			}

			if authenticated {
				ctx = WithClaimSet(ctx, claims)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePolicy returns middleware enforcing a full RoutePolicy,
// including its redirect-on-deny behavior. Redirect decisions become
// 302s to the policy's target.
func (g *Guard) RequirePolicy(policy authz.RoutePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims, authenticated := g.resolveCaller(r)

			decision := policy.Decide(claims, authenticated)
			switch decision.Effect {
			case authz.EffectAllow:
				if authenticated {
					ctx = WithClaimSet(ctx, claims)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
			case authz.EffectRedirect:
				g.logger.Debug("redirecting denied request",
					zap.String("path", r.URL.Path),
					zap.String("reason", decision.Reason),
					zap.String("target", decision.Target))
				http.Redirect(w, r, decision.Target, http.StatusFound)
			default:
				g.deny(w, r, decision, claims)
			}
		})
	}
}

// resolveCaller resolves the request's claims through the validator. A
// missing or rejected token yields an anonymous caller, not an error:
// provider failures degrade to "unauthenticated" locally.
func (g *Guard) resolveCaller(r *http.Request) (authz.ClaimSet, bool) {
	raw := extractToken(r)
	if raw == "" {
		return authz.Anonymous(), false
	}

	parsed, err := g.validator.ValidateToken(r.Context(), raw)
	if err != nil {
		g.logger.Warn("token validation failed, treating request as unauthenticated",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		return authz.Anonymous(), false
	}

	return token.ExtractClaimSet(parsed, g.logger), true
}

// deny writes the protocol-appropriate rejection for a deny decision.
func (g *Guard) deny(w http.ResponseWriter, r *http.Request, decision authz.Decision, claims authz.ClaimSet) {
	switch decision.Reason {
	case authz.ReasonUnauthenticated:
		g.logger.Debug("denying unauthenticated request",
			zap.String("path", r.URL.Path))
		_ = utils.WriteUnauthorized(w, decision.Reason)
	default:
		g.logger.Warn("insufficient permissions",
			zap.String("path", r.URL.Path),
			zap.String("subject", claims.Subject),
			zap.Strings("caller_roles", claims.Roles.List()))
		_ = utils.WriteForbidden(w, decision.Reason)
	}
}

// extractToken extracts the bearer token from the Authorization header or
// the auth_token cookie. The header takes precedence when both are set.
func extractToken(r *http.Request) string {
	if tok := extractBearerToken(r); tok != "" {
		return tok
	}
	if cookie, err := r.Cookie(authTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
