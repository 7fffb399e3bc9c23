package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/roadtodev/rolegate/authz"
)

// RenderOutcome tells the view layer what to do with a guarded subtree.
// Rendering itself stays in the caller; the guard only decides.
type RenderOutcome int

const (
	// RenderContent means the wrapped content may be shown.
	RenderContent RenderOutcome = iota

	// RenderFallback means the policy's fallback (possibly nothing)
	// should be shown instead.
	RenderFallback

	// RenderRedirect means the caller should navigate to Target.
	RenderRedirect
)

func (o RenderOutcome) String() string {
	switch o {
	case RenderContent:
		return "content"
	case RenderFallback:
		return "fallback"
	case RenderRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// RenderDecision is the client-side counterpart of an authz.Decision.
type RenderDecision struct {
	Outcome RenderOutcome
	Reason  string // deny reason code, empty on RenderContent
	Target  string // navigation target, set on RenderRedirect
}

// Guard evaluates route policies against the cached AuthState for
// renders and navigations. It holds no decision cache of its own: every
// call reads a fresh snapshot, so a logout between two evaluations is
// reflected immediately.
type Guard struct {
	cell   *AuthState
	logger *zap.Logger
}

// NewGuard creates a Guard reading from cell.
func NewGuard(cell *AuthState, logger *zap.Logger) *Guard {
	return &Guard{
		cell:   cell,
		logger: logger,
	}
}

// Evaluate decides whether the content guarded by policy may render. It
// blocks until the initial provider session check has completed; the
// only error it can return is the context expiring while waiting.
func (g *Guard) Evaluate(ctx context.Context, policy authz.RoutePolicy) (RenderDecision, error) {
	if err := g.cell.Await(ctx); err != nil {
		return RenderDecision{}, err
	}

	state, claims := g.cell.Snapshot()
	decision := policy.Decide(claims, state == StateAuthenticated)

	switch decision.Effect {
	case authz.EffectAllow:
		return RenderDecision{Outcome: RenderContent}, nil
	case authz.EffectRedirect:
		g.logger.Debug("render denied, redirecting",
			zap.String("reason", decision.Reason),
			zap.String("target", decision.Target))
		return RenderDecision{
			Outcome: RenderRedirect,
			Reason:  decision.Reason,
			Target:  decision.Target,
		}, nil
	default:
		g.logger.Debug("render denied, showing fallback",
			zap.String("reason", decision.Reason))
		return RenderDecision{
			Outcome: RenderFallback,
			Reason:  decision.Reason,
		}, nil
	}
}
