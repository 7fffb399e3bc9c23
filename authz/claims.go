package authz

import "sort"

// RoleSet is an unordered set of role names. Membership is exact-match:
// no case folding is applied.
type RoleSet map[string]struct{}

// NewRoleSet builds a RoleSet from role names. Duplicates collapse under
// natural set semantics. The result is never nil.
func NewRoleSet(roles ...string) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Has reports whether role is a member of the set.
func (s RoleSet) Has(role string) bool {
	_, ok := s[role]
	return ok
}

// List returns the members in sorted order, for logging and responses.
func (s RoleSet) List() []string {
	roles := make([]string, 0, len(s))
	for r := range s {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// ClaimSet is the normalized identity snapshot used by the evaluator:
// the caller's display subject and the roles attached to the session.
// It is immutable at evaluation time.
type ClaimSet struct {
	Subject string
	Roles   RoleSet
}

// NewClaimSet builds a ClaimSet. Roles is never nil on the result: an
// absent role claim yields an empty set, not an error.
func NewClaimSet(subject string, roles []string) ClaimSet {
	return ClaimSet{
		Subject: subject,
		Roles:   NewRoleSet(roles...),
	}
}

// Anonymous returns the empty ClaimSet used for unauthenticated callers.
func Anonymous() ClaimSet {
	return ClaimSet{Roles: RoleSet{}}
}
