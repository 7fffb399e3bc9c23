// Package authz implements the role-based authorization decision core:
// claim sets, route policies, and the pure evaluator that turns them into
// allow/deny/redirect decisions. It performs no I/O and never touches
// tokens directly; claim extraction lives in the token package.
package authz

// Effect is the outcome class of a Decision.
type Effect string

const (
	// EffectAllow grants access to the protected resource.
	EffectAllow Effect = "allow"

	// EffectDeny refuses access; Decision.Reason carries the cause.
	EffectDeny Effect = "deny"

	// EffectRedirect refuses access and points the caller at
	// Decision.Target instead of a plain denial.
	EffectRedirect Effect = "redirect"
)

// Machine-readable deny reason codes. These are safe to return to clients;
// they never carry claim contents.
const (
	// ReasonUnauthenticated means no valid session was presented.
	ReasonUnauthenticated = "unauthenticated"

	// ReasonMissingRole means the session is valid but holds none of the
	// required roles.
	ReasonMissingRole = "missing-role"
)

// Decision is the result of a single policy evaluation. It is a plain
// value produced fresh per evaluation and is never persisted.
type Decision struct {
	Effect Effect
	Reason string // set when Effect is EffectDeny or EffectRedirect
	Target string // set when Effect is EffectRedirect
}

// Allowed returns an allow decision.
func Allowed() Decision {
	return Decision{Effect: EffectAllow}
}

// Denied returns a deny decision with the given reason code.
func Denied(reason string) Decision {
	return Decision{Effect: EffectDeny, Reason: reason}
}

// Redirected returns a redirect decision pointing at target. The reason
// explains why the original access was refused.
func Redirected(target, reason string) Decision {
	return Decision{Effect: EffectRedirect, Reason: reason, Target: target}
}

// Allow reports whether the decision grants access.
func (d Decision) Allow() bool {
	return d.Effect == EffectAllow
}
