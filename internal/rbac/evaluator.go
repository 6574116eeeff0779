package rbac

// Permission evaluation is deliberately pure: the same functions back both the
// server-side gate and the /api/me/permissions payload the browser uses for
// rendering, so the two can never drift for identical inputs.

// CanAccessSection reports whether the role configuration grants the section.
func CanAccessSection(cfg *RoleConfig, section Section) bool {
	if cfg == nil {
		return false
	}
	_, ok := cfg.Sections[section]
	return ok
}

// HasPermission reports whether the configuration grants the (resource,
// action) pair. The rule table is closed-world: a pair that is not listed is
// denied, never implicitly allowed.
func HasPermission(cfg *RoleConfig, resource Resource, action Action) bool {
	if cfg == nil {
		return false
	}
	actions, ok := cfg.Rules[resource]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

// HasAnyRole reports whether the actor holds one of the given roles.
func HasAnyRole(actor *Actor, roles ...Role) bool {
	if actor == nil {
		return false
	}
	for _, role := range roles {
		if actor.Role == role {
			return true
		}
	}
	return false
}
