package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roadtodev/rolegate/authz"
	"github.com/roadtodev/rolegate/token"
)

// fakeSource is an in-memory token.Source driven by the test.
type fakeSource struct {
	authenticated bool
	claims        *token.Claims
	initErr       error

	onLogin  func()
	onLogout func()
}

func (f *fakeSource) Initialize(ctx context.Context) error { return f.initErr }
func (f *fakeSource) IsAuthenticated() bool                { return f.authenticated }
func (f *fakeSource) CurrentClaims() *token.Claims         { return f.claims }
func (f *fakeSource) OnLoginSuccess(fn func())             { f.onLogin = fn }
func (f *fakeSource) OnLogout(fn func())                   { f.onLogout = fn }

func (f *fakeSource) login(claims *token.Claims) {
	f.authenticated = true
	f.claims = claims
	f.onLogin()
}

func (f *fakeSource) logout() {
	f.authenticated = false
	f.claims = nil
	f.onLogout()
}

func viewerClaims(username string) *token.Claims {
	return &token.Claims{
		PreferredUsername: username,
		RealmAccess:       token.RealmAccess{Roles: []string{"viewer"}},
	}
}

func TestListenerBind(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("second bind is refused", func(t *testing.T) {
		cell := NewAuthState()
		listener := NewListener(cell, logger)

		require.NoError(t, listener.Bind(ctx, &fakeSource{}))
		assert.ErrorIs(t, listener.Bind(ctx, &fakeSource{}), ErrAlreadyBound)
	})

	t.Run("bind without a session lands in unauthenticated", func(t *testing.T) {
		cell := NewAuthState()
		require.NoError(t, NewListener(cell, logger).Bind(ctx, &fakeSource{}))

		state, claims := cell.Snapshot()
		assert.Equal(t, StateUnauthenticated, state)
		assert.Empty(t, claims.Roles.List())
	})

	t.Run("bind restores an existing session", func(t *testing.T) {
		cell := NewAuthState()
		src := &fakeSource{authenticated: true, claims: viewerClaims("alice")}
		require.NoError(t, NewListener(cell, logger).Bind(ctx, src))

		state, claims := cell.Snapshot()
		assert.Equal(t, StateAuthenticated, state)
		assert.Equal(t, "alice", claims.Subject)
		assert.True(t, claims.Roles.Has("viewer"))
	})

	t.Run("provider failure fails closed, not loudly", func(t *testing.T) {
		cell := NewAuthState()
		src := &fakeSource{initErr: token.ErrProviderUnavailable}

		err := NewListener(cell, logger).Bind(ctx, src)
		assert.NoError(t, err)

		state, _ := cell.Snapshot()
		assert.Equal(t, StateUnauthenticated, state)
		// The gate must open even on failure so guards do not hang.
		assert.NoError(t, cell.Await(ctx))
	})

	t.Run("login and logout events transition the cell", func(t *testing.T) {
		cell := NewAuthState()
		src := &fakeSource{}
		require.NoError(t, NewListener(cell, logger).Bind(ctx, src))

		src.login(viewerClaims("alice"))
		state, claims := cell.Snapshot()
		assert.Equal(t, StateAuthenticated, state)
		assert.Equal(t, "alice", claims.Subject)

		src.logout()
		state, claims = cell.Snapshot()
		assert.Equal(t, StateUnauthenticated, state)
		assert.Empty(t, claims.Subject)
		assert.Empty(t, claims.Roles.List())
	})
}

func TestAuthStateAwait(t *testing.T) {
	logger := zap.NewNop()

	t.Run("blocks until the listener seeds the cell", func(t *testing.T) {
		cell := NewAuthState()

		done := make(chan error, 1)
		go func() { done <- cell.Await(context.Background()) }()

		select {
		case <-done:
			t.Fatal("Await returned before initialization")
		case <-time.After(20 * time.Millisecond):
		}

		require.NoError(t, NewListener(cell, logger).Bind(context.Background(), &fakeSource{}))

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Await did not unblock after bind")
		}
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		cell := NewAuthState()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, cell.Await(ctx), context.Canceled)
	})
}

func TestGuardEvaluate(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	bind := func(t *testing.T, src *fakeSource) (*Guard, *AuthState) {
		t.Helper()
		cell := NewAuthState()
		require.NoError(t, NewListener(cell, logger).Bind(ctx, src))
		return NewGuard(cell, logger), cell
	}

	t.Run("authenticated caller with role renders content", func(t *testing.T) {
		guard, _ := bind(t, &fakeSource{authenticated: true, claims: viewerClaims("alice")})
		policy, err := authz.NewRoutePolicy("viewer")
		require.NoError(t, err)

		d, err := guard.Evaluate(ctx, policy)
		require.NoError(t, err)
		assert.Equal(t, RenderContent, d.Outcome)
	})

	t.Run("missing role renders fallback", func(t *testing.T) {
		guard, _ := bind(t, &fakeSource{authenticated: true, claims: viewerClaims("alice")})
		policy, err := authz.NewRoutePolicy("admin")
		require.NoError(t, err)

		d, err := guard.Evaluate(ctx, policy)
		require.NoError(t, err)
		assert.Equal(t, RenderFallback, d.Outcome)
		assert.Equal(t, authz.ReasonMissingRole, d.Reason)
	})

	t.Run("unauthenticated caller with redirect policy navigates to login", func(t *testing.T) {
		guard, _ := bind(t, &fakeSource{})
		policy, err := authz.NewRedirectPolicy("/login", "viewer")
		require.NoError(t, err)

		d, err := guard.Evaluate(ctx, policy)
		require.NoError(t, err)
		assert.Equal(t, RenderRedirect, d.Outcome)
		assert.Equal(t, "/login", d.Target)
		assert.Equal(t, authz.ReasonUnauthenticated, d.Reason)
	})

	t.Run("public policy renders content with no session", func(t *testing.T) {
		guard, _ := bind(t, &fakeSource{})
		policy, err := authz.NewRoutePolicy(authz.RolePublic)
		require.NoError(t, err)

		d, err := guard.Evaluate(ctx, policy)
		require.NoError(t, err)
		assert.Equal(t, RenderContent, d.Outcome)
	})

	t.Run("logout between evaluations is reflected immediately", func(t *testing.T) {
		src := &fakeSource{authenticated: true, claims: viewerClaims("alice")}
		guard, _ := bind(t, src)
		policy, err := authz.NewRoutePolicy("viewer")
		require.NoError(t, err)

		d, err := guard.Evaluate(ctx, policy)
		require.NoError(t, err)
		assert.Equal(t, RenderContent, d.Outcome)

		src.logout()

		d, err = guard.Evaluate(ctx, policy)
		require.NoError(t, err)
		assert.Equal(t, RenderFallback, d.Outcome)
		assert.Equal(t, authz.ReasonUnauthenticated, d.Reason)
	})

	t.Run("evaluation before bind blocks on the loading gate", func(t *testing.T) {
		cell := NewAuthState()
		guard := NewGuard(cell, logger)
		policy, err := authz.NewRoutePolicy("viewer")
		require.NoError(t, err)

		shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err = guard.Evaluate(shortCtx, policy)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
