// Package session holds the client-side half of the guard stack: the
// shared authentication-state cell, the listener that keeps it in sync
// with the identity provider, and the render guard that evaluates route
// policies against it.
package session

import (
	"context"
	"sync"

	"github.com/roadtodev/rolegate/authz"
)

// State is the lifecycle phase of the client session.
type State int

const (
	// StateUninitialized is the startup state before a Listener binds.
	StateUninitialized State = iota

	// StateInitializing means the provider session check is in flight.
	// Guards must Await before evaluating.
	StateInitializing

	// StateAuthenticated means a valid session with claims exists.
	StateAuthenticated

	// StateUnauthenticated means there is no session. This is also the
	// fail-closed state after a provider outage.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// AuthState is the process-wide session cell. Guards read snapshots; the
// Listener is the only writer. The RWMutex stands in for the single
// event-loop thread the browser runtime would provide.
type AuthState struct {
	mu     sync.RWMutex
	state  State
	claims authz.ClaimSet

	ready     chan struct{}
	readyOnce sync.Once
}

// NewAuthState returns a cell in StateUninitialized with empty claims.
func NewAuthState() *AuthState {
	return &AuthState{
		state:  StateUninitialized,
		claims: authz.Anonymous(),
		ready:  make(chan struct{}),
	}
}

// Snapshot returns the current state and an immutable view of the
// claims. Decisions built from one snapshot are never reused across
// state transitions; callers re-evaluate per render.
func (s *AuthState) Snapshot() (State, authz.ClaimSet) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.claims
}

// Await blocks until the cell has left StateInitializing, i.e. until the
// first provider answer (or failure) has landed. It is the loading gate
// that keeps guards from evaluating a not-yet-populated cell.
func (s *AuthState) Await(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// beginInitializing marks the provider session check as in flight.
func (s *AuthState) beginInitializing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateInitializing
}

// setAuthenticated records a login with the session's claims and opens
// the Await gate.
func (s *AuthState) setAuthenticated(claims authz.ClaimSet) {
	s.mu.Lock()
	s.state = StateAuthenticated
	s.claims = claims
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
}

// setUnauthenticated clears the session and opens the Await gate.
func (s *AuthState) setUnauthenticated() {
	s.mu.Lock()
	s.state = StateUnauthenticated
	s.claims = authz.Anonymous()
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
}
