package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/roadtodev/rolegate/token"
)

// ErrAlreadyBound is returned by Bind when a Listener already holds a
// provider subscription.
var ErrAlreadyBound = errors.New("session listener already bound to a token source")

// Listener is the single registration point between the identity
// provider and the AuthState cell. Exactly one subscription exists per
// Listener; a second Bind is refused rather than discouraged, so the
// cell can never be double-updated per provider event.
type Listener struct {
	cell   *AuthState
	logger *zap.Logger

	mu    sync.Mutex
	bound bool
}

// NewListener creates a Listener that will write into cell.
func NewListener(cell *AuthState, logger *zap.Logger) *Listener {
	return &Listener{
		cell:   cell,
		logger: logger,
	}
}

// Bind subscribes to the source's login/logout events, initializes the
// provider session, and seeds the cell with the initial state. It blocks
// until initialization completes, at which point AuthState.Await
// unblocks for all guards.
//
// A provider initialization failure is not an error: the cell is moved
// to StateUnauthenticated (fail closed) and the outage is logged as a
// diagnostic.
func (l *Listener) Bind(ctx context.Context, src token.Source) error {
	l.mu.Lock()
	if l.bound {
		l.mu.Unlock()
		return ErrAlreadyBound
	}
	l.bound = true
	l.mu.Unlock()

	l.cell.beginInitializing()

	src.OnLoginSuccess(func() {
		claims := token.ExtractClaimSet(src.CurrentClaims(), l.logger)
		l.cell.setAuthenticated(claims)
		l.logger.Info("session authenticated",
			zap.String("subject", claims.Subject),
			zap.Strings("roles", claims.Roles.List()))
	})
	src.OnLogout(func() {
		l.cell.setUnauthenticated()
		l.logger.Info("session cleared")
	})

	if err := src.Initialize(ctx); err != nil {
		l.logger.Warn("identity provider initialization failed, failing closed",
			zap.Error(err))
		l.cell.setUnauthenticated()
		return nil
	}

	if src.IsAuthenticated() {
		claims := token.ExtractClaimSet(src.CurrentClaims(), l.logger)
		l.cell.setAuthenticated(claims)
		l.logger.Info("existing session restored",
			zap.String("subject", claims.Subject))
	} else {
		l.cell.setUnauthenticated()
	}

	return nil
}
