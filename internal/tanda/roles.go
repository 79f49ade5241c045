package tanda

import "github.com/roslynlu/TandaPay/internal/models"

// Role predicates. Pure checks over current state, no side effects; every
// mutating operation evaluates the relevant predicate before touching
// anything.

// IsAdministrator reports whether the caller is the system administrator.
func (r Rules) IsAdministrator(caller string) bool {
	return caller != "" && caller == r.Administrator
}

// IsSecretary reports whether the caller is the group's secretary.
func (r Rules) IsSecretary(caller string, g *models.Group) bool {
	return caller != "" && caller == g.Secretary
}

// IsMember reports whether the caller is a member of the group.
func (r Rules) IsMember(caller string, g *models.Group) bool {
	return caller != "" && g.HasMember(caller)
}
