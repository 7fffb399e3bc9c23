package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrTokenExpired is returned when a token's exp claim is in the past.
var ErrTokenExpired = errors.New("token expired")

// InsecureValidator accepts any well-formed token whose time claims hold.
// It does NOT verify signatures and exists for local development against
// a provider the deployment trusts at the network layer; production
// deployments plug in a real JWKS-backed Validator.
type InsecureValidator struct {
	logger *zap.Logger
	leeway time.Duration
	now    func() time.Time
}

// NewInsecureValidator creates an InsecureValidator with the given clock
// leeway for expiry checks.
func NewInsecureValidator(logger *zap.Logger, leeway time.Duration) *InsecureValidator {
	return &InsecureValidator{
		logger: logger,
		leeway: leeway,
		now:    time.Now,
	}
}

// ValidateToken parses the token and checks its expiry and not-before
// claims against the wall clock.
func (v *InsecureValidator) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := ParseClaims(tokenString)
	if err != nil {
		return nil, err
	}

	now := v.now()
	if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time.Add(v.leeway)) {
		v.logger.Debug("rejecting expired token",
			zap.Time("exp", claims.ExpiresAt.Time))
		return nil, ErrTokenExpired
	}
	if claims.NotBefore != nil && now.Add(v.leeway).Before(claims.NotBefore.Time) {
		return nil, fmt.Errorf("token not valid yet (nbf %s)", claims.NotBefore.Time)
	}

	return claims, nil
}
