package rbac

// The role registry is pure configuration: a fixed table populated at process
// start. Changing it requires a redeploy. Lookup never fails loudly; an
// unknown role is a first-class deny condition handled by callers.

type ruleSpec struct {
	resource Resource
	actions  []Action
}

type roleSpec struct {
	sections  []Section
	rules     []ruleSpec
	canExport bool
}

var registry = buildRegistry(map[Role]roleSpec{
	RoleSuperAdmin: {
		sections: []Section{
			SectionOverview, SectionDemandForecasting, SectionInventoryPlanning,
			SectionPricingPromotion, SectionSeasonalPlanning, SectionAlertCenter,
			SectionUserManagement, SectionAdministration, SectionCategoryManagement,
		},
		rules: []ruleSpec{
			{ResourceOrganization, []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}},
			{ResourceRegion, []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}},
			{ResourceStore, []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}},
			{ResourceCategory, []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}},
			{ResourceProduct, []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}},
			{ResourceUser, []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}},
			{ResourceForecast, []Action{ActionView, ActionEdit, ActionExport}},
			{ResourceAlert, []Action{ActionView, ActionResolve}},
		},
		canExport: true,
	},
	RoleGeneralManager: {
		sections: []Section{
			SectionOverview, SectionDemandForecasting, SectionPricingPromotion,
			SectionUserManagement, SectionAdministration, SectionCategoryManagement,
		},
		rules: []ruleSpec{
			{ResourceOrganization, []Action{ActionView}},
			{ResourceRegion, []Action{ActionView, ActionEdit}},
			{ResourceStore, []Action{ActionView, ActionCreate, ActionEdit}},
			{ResourceCategory, []Action{ActionView, ActionEdit}},
			{ResourceProduct, []Action{ActionView}},
			{ResourceUser, []Action{ActionView, ActionCreate, ActionEdit}},
			{ResourceForecast, []Action{ActionView, ActionExport}},
		},
		canExport: true,
	},
	RoleInventoryPlanner: {
		sections: []Section{
			SectionOverview, SectionDemandForecasting, SectionInventoryPlanning,
			SectionPricingPromotion, SectionCategoryManagement,
		},
		rules: []ruleSpec{
			{ResourceCategory, []Action{ActionView}},
			{ResourceProduct, []Action{ActionView}},
			{ResourceForecast, []Action{ActionView, ActionExport}},
		},
		canExport: true,
	},
	RoleBuyer: {
		sections: []Section{
			SectionOverview, SectionDemandForecasting, SectionInventoryPlanning,
			SectionAdministration, SectionCategoryManagement,
		},
		rules: []ruleSpec{
			{ResourceCategory, []Action{ActionView}},
			{ResourceProduct, []Action{ActionView, ActionCreate, ActionEdit}},
			{ResourceForecast, []Action{ActionView, ActionExport}},
		},
		canExport: true,
	},
	RoleRegionalManager: {
		sections: []Section{
			SectionOverview, SectionDemandForecasting, SectionInventoryPlanning,
			SectionPricingPromotion, SectionAdministration,
		},
		rules: []ruleSpec{
			{ResourceRegion, []Action{ActionView, ActionEdit}},
			{ResourceStore, []Action{ActionView, ActionEdit}},
			{ResourceCategory, []Action{ActionView}},
			{ResourceForecast, []Action{ActionView}},
		},
		canExport: false,
	},
	RoleMarketing: {
		sections: []Section{SectionOverview, SectionPricingPromotion},
		rules: []ruleSpec{
			{ResourceForecast, []Action{ActionView, ActionExport}},
		},
		canExport: true,
	},
	RoleFinance: {
		sections: []Section{
			SectionOverview, SectionDemandForecasting, SectionPricingPromotion,
			SectionFinancialOverview,
		},
		rules: []ruleSpec{
			{ResourceForecast, []Action{ActionView, ActionExport}},
		},
		canExport: true,
	},
	RoleStoreManager: {
		sections: []Section{SectionOverview, SectionInventoryPlanning, SectionAdministration},
		rules: []ruleSpec{
			{ResourceStore, []Action{ActionView}},
			{ResourceCategory, []Action{ActionView}},
			{ResourceForecast, []Action{ActionView}},
		},
		canExport: false,
	},
	RoleProductionPlanning: {
		sections: []Section{SectionOverview, SectionDemandForecasting, SectionInventoryPlanning},
		rules: []ruleSpec{
			{ResourceForecast, []Action{ActionView}},
		},
		canExport: false,
	},
})

func buildRegistry(specs map[Role]roleSpec) map[Role]*RoleConfig {
	out := make(map[Role]*RoleConfig, len(specs))
	for role, spec := range specs {
		cfg := &RoleConfig{
			Role:      role,
			Sections:  make(map[Section]struct{}, len(spec.sections)),
			Rules:     make(map[Resource]map[Action]struct{}, len(spec.rules)),
			CanExport: spec.canExport,
		}
		for _, s := range spec.sections {
			cfg.Sections[s] = struct{}{}
		}
		for _, rule := range spec.rules {
			actions := make(map[Action]struct{}, len(rule.actions))
			for _, a := range rule.actions {
				actions[a] = struct{}{}
			}
			cfg.Rules[rule.resource] = actions
		}
		out[role] = cfg
	}
	return out
}

// Lookup returns the configuration for a role, or nil when the role is not in
// the registry. Callers treat nil as deny.
func Lookup(role Role) *RoleConfig {
	return registry[role]
}

// ParseRole maps a stored role name onto the closed enumeration. The second
// return value is false for any value the registry does not cover.
func ParseRole(name string) (Role, bool) {
	role := Role(name)
	_, ok := registry[role]
	return role, ok
}

// Roles returns every registered role identifier.
func Roles() []Role {
	out := make([]Role, 0, len(registry))
	for role := range registry {
		out = append(out, role)
	}
	return out
}
