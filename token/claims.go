// Package token abstracts the identity provider: the claim shapes its
// tokens carry, the validator capability that vouches for them, and the
// event source that drives client-side auth state. The package never
// verifies signatures itself; that is the provider's job.
package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roadtodev/rolegate/authz"
)

// RealmAccess is the realm-level role container of a Keycloak access
// token.
type RealmAccess struct {
	Roles []string `json:"roles"`
}

// Claims is the subset of Keycloak access-token claims the guards care
// about: standard OIDC claims plus the realm role container and the
// preferred display identifier.
type Claims struct {
	jwt.RegisteredClaims

	PreferredUsername string      `json:"preferred_username"`
	Email             string      `json:"email"`
	EmailVerified     bool        `json:"email_verified"`
	RealmAccess       RealmAccess `json:"realm_access"`
}

// SubjectID parses the token subject as a UUID, which is how Keycloak
// identifies users.
func (c *Claims) SubjectID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid sub UUID: %w", err)
	}
	return id, nil
}

// ParseClaims decodes the claim segment of a compact JWT without
// verifying the signature. Use it only downstream of a Validator that
// has already vouched for the token.
func ParseClaims(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// ExtractClaimSet normalizes provider claims into the evaluator's
// ClaimSet. It is tolerant on purpose: nil claims or a token without a
// role container produce an empty-role ClaimSet and a diagnostic log
// line, never an error. Role names are taken verbatim.
func ExtractClaimSet(c *Claims, logger *zap.Logger) authz.ClaimSet {
	if c == nil {
		logger.Debug("no claims available, treating caller as anonymous")
		return authz.Anonymous()
	}

	subject := c.PreferredUsername
	if subject == "" {
		subject = c.Subject
	}

	if len(c.RealmAccess.Roles) == 0 {
		logger.Debug("token carries no realm roles",
			zap.String("subject", subject))
	}

	return authz.NewClaimSet(subject, c.RealmAccess.Roles)
}
