package rbac

// Role identifies a deploy-time role. Roles are a closed enumeration: values
// outside this set never resolve to a RoleConfig and are treated as a deny.
type Role string

const (
	RoleSuperAdmin         Role = "super_admin"
	RoleGeneralManager     Role = "general_manager"
	RoleInventoryPlanner   Role = "inventory_planner"
	RoleBuyer              Role = "buyer"
	RoleRegionalManager    Role = "regional_manager"
	RoleMarketing          Role = "marketing"
	RoleFinance            Role = "finance"
	RoleStoreManager       Role = "store_manager"
	RoleProductionPlanning Role = "production_planning"
)

// Section is a coarse-grained application area gating whole features.
type Section string

const (
	SectionOverview            Section = "overview"
	SectionDemandForecasting   Section = "demand-forecasting"
	SectionInventoryPlanning   Section = "inventory-planning"
	SectionPricingPromotion    Section = "pricing-promotion"
	SectionSeasonalPlanning    Section = "seasonal-planning"
	SectionAlertCenter         Section = "alert-center"
	SectionUserManagement      Section = "user-management"
	SectionAdministration      Section = "administration"
	SectionCategoryManagement  Section = "category-management"
	SectionFinancialOverview   Section = "financial-overview"
	SectionOperationalOverview Section = "operational-overview"
)

// Resource is a fine-grained permission target.
type Resource string

const (
	ResourceOrganization Resource = "organization"
	ResourceRegion       Resource = "region"
	ResourceStore        Resource = "store"
	ResourceCategory     Resource = "category"
	ResourceProduct      Resource = "product"
	ResourceUser         Resource = "user"
	ResourceForecast     Resource = "forecast"
	ResourceAlert        Resource = "alert"
)

// Action is the operation performed against a Resource.
type Action string

const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionExport  Action = "export"
	ActionResolve Action = "resolve"
)

// ScopeLevel names the entity hierarchy level a data-scope restriction applies to.
type ScopeLevel string

const (
	ScopeRegion   ScopeLevel = "region"
	ScopeStore    ScopeLevel = "store"
	ScopeCategory ScopeLevel = "category"
)

// RoleConfig is the static configuration attached to a Role. Instances are
// built once at process start and never mutated afterwards.
type RoleConfig struct {
	Role      Role
	Sections  map[Section]struct{}
	Rules     map[Resource]map[Action]struct{}
	CanExport bool
}

// Profile carries the per-user data-scope attributes loaded alongside the
// role. A nil allowed-set means "unrestricted within the role's natural
// scope"; an empty non-nil set means "no access to anything of that type".
type Profile struct {
	UserID            string
	OrganizationID    string
	AllowedRegions    []string
	AllowedStores     []string
	AllowedCategories []string
	IsActive          bool
}

// AllowedSet returns the profile restriction for the given level. The nil /
// empty distinction is significant and must be preserved by callers.
func (p Profile) AllowedSet(level ScopeLevel) []string {
	switch level {
	case ScopeRegion:
		return p.AllowedRegions
	case ScopeStore:
		return p.AllowedStores
	case ScopeCategory:
		return p.AllowedCategories
	}
	return nil
}

// Actor is the resolved identity attached to an authorized request.
type Actor struct {
	UserID  string
	Role    Role
	Config  *RoleConfig
	Profile Profile
}

// IsSuperAdmin reports whether the actor bypasses all data scoping.
func (a *Actor) IsSuperAdmin() bool {
	return a != nil && a.Role == RoleSuperAdmin
}
