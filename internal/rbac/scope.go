package rbac

// Data-scope resolution. This is the IDOR guard: a caller supplying a foreign
// region/store/category id must fail here even when the role-level permission
// check passed. Membership is exact-match on the identifier at the level being
// checked; a region in scope does not imply its stores are.

// scopeBypass lists (role, level) pairs whose authority covers the level
// outright, without consulting the profile's allowed-sets.
var scopeBypass = map[Role]map[ScopeLevel]bool{
	RoleSuperAdmin: {
		ScopeRegion:   true,
		ScopeStore:    true,
		ScopeCategory: true,
	},
}

// enablementBypass lists roles that may run store enablement operations on any
// store. Everyone else needs explicit AllowedStores membership; an
// unrestricted (nil) set does not qualify for enablement.
var enablementBypass = map[Role]bool{
	RoleSuperAdmin:      true,
	RoleGeneralManager:  true,
	RoleRegionalManager: true,
}

// InScope decides whether the entity id at the given level is inside the
// actor's data scope. It never errors; callers translate false into a
// Forbidden response. This must be invoked for the *target* id of any
// cross-entity reassignment, not only the entity's current association.
func InScope(actor *Actor, level ScopeLevel, id string) bool {
	if actor == nil || id == "" {
		return false
	}
	if scopeBypass[actor.Role][level] {
		return true
	}
	allowed := actor.Profile.AllowedSet(level)
	if allowed == nil {
		// Unrestricted within the role's organization; organization
		// membership is enforced by the repositories' row filters.
		return true
	}
	for _, member := range allowed {
		if member == id {
			return true
		}
	}
	return false
}

// CanManageStoreEnablement decides whether the actor may toggle product
// enablement for the store. Unlike InScope, a nil AllowedStores set is not a
// grant here: only the bypass roles and explicit assignments qualify.
func CanManageStoreEnablement(actor *Actor, storeID string) bool {
	if actor == nil || storeID == "" {
		return false
	}
	if enablementBypass[actor.Role] {
		return true
	}
	for _, member := range actor.Profile.AllowedStores {
		if member == storeID {
			return true
		}
	}
	return false
}

// FilterInScope returns the subset of ids inside the actor's scope at the
// given level, preserving order. List handlers use it to narrow result sets
// beyond what the gate already authorized.
func FilterInScope(actor *Actor, level ScopeLevel, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if InScope(actor, level, id) {
			out = append(out, id)
		}
	}
	return out
}
