package authz

import (
	"fmt"

	"github.com/roadtodev/rolegate/utils"
)

// RolePublic is the sentinel role meaning "no authentication required".
// A policy listing it is reachable without any session, and the check
// runs before the authentication check.
const RolePublic = "public"

// RoutePolicy declares the access requirements of one protected resource.
// Immutable after construction; build it once per route and reuse it.
type RoutePolicy struct {
	// RequiredRoles lists the roles that grant access; holding any one of
	// them suffices. It may contain the RolePublic sentinel. An empty
	// list without the sentinel denies everything, deliberately: an
	// accidentally empty role list must not open a route.
	RequiredRoles []string `validate:"omitempty,dive,min=1"`

	// RedirectOnDeny converts denials into redirects to RedirectTarget.
	RedirectOnDeny bool

	// RedirectTarget is where denied callers are sent when RedirectOnDeny
	// is set. Typically a login page.
	RedirectTarget string `validate:"required_if=RedirectOnDeny true"`
}

// NewRoutePolicy builds and validates a plain deny-on-failure policy.
func NewRoutePolicy(requiredRoles ...string) (RoutePolicy, error) {
	p := RoutePolicy{RequiredRoles: requiredRoles}
	if err := utils.ValidateStruct(p); err != nil {
		return RoutePolicy{}, fmt.Errorf("invalid route policy: %w", err)
	}
	return p, nil
}

// NewRedirectPolicy builds and validates a policy that redirects denied
// callers to target instead of failing outright.
func NewRedirectPolicy(target string, requiredRoles ...string) (RoutePolicy, error) {
	p := RoutePolicy{
		RequiredRoles:  requiredRoles,
		RedirectOnDeny: true,
		RedirectTarget: target,
	}
	if err := utils.ValidateStruct(p); err != nil {
		return RoutePolicy{}, fmt.Errorf("invalid route policy: %w", err)
	}
	return p, nil
}

// Evaluate decides access for one caller against one role requirement.
//
// The algorithm, in order:
//  1. A RolePublic sentinel in required grants access unconditionally,
//     before any authentication check, so public resources stay reachable
//     with no session at all.
//  2. Without authentication the caller is denied with
//     ReasonUnauthenticated.
//  3. The match is disjunctive: possessing any one required role grants
//     access. This is OR on purpose, not AND.
//  4. No match denies with ReasonMissingRole. An empty required list
//     lands here too, so it never grants.
//
// Evaluate is pure: same inputs, same Decision, no side effects.
func Evaluate(required []string, claims ClaimSet, authenticated bool) Decision {
	for _, role := range required {
		if role == RolePublic {
			return Allowed()
		}
	}

	if !authenticated {
		return Denied(ReasonUnauthenticated)
	}

	for _, role := range required {
		if claims.Roles.Has(role) {
			return Allowed()
		}
	}
	return Denied(ReasonMissingRole)
}

// Decide evaluates the policy and applies its redirect behavior: a deny
// becomes a redirect to RedirectTarget when RedirectOnDeny is set.
func (p RoutePolicy) Decide(claims ClaimSet, authenticated bool) Decision {
	d := Evaluate(p.RequiredRoles, claims, authenticated)
	if d.Effect == EffectDeny && p.RedirectOnDeny {
		return Redirected(p.RedirectTarget, d.Reason)
	}
	return d
}
