package access

// Action names an operation guarded by the permission gate.
type Action string

const (
	ActionViewDashboard          Action = "view-dashboard"
	ActionViewProfile            Action = "view-profile"
	ActionViewLearning           Action = "view-learning"
	ActionManageCourses          Action = "manage-courses"
	ActionManageCertifications   Action = "manage-certifications"
	ActionManagePracticalSession Action = "manage-practical-sessions"
	ActionViewAnalytics          Action = "view-analytics"
	ActionManageNews             Action = "manage-news"
	ActionManageSettings         Action = "manage-settings"
	ActionManageEvents           Action = "manage-events"
	ActionManageCompanies        Action = "manage-companies"
	ActionManageUsers            Action = "manage-users"
	ActionManageInstructors      Action = "manage-instructors"
	ActionViewManagement         Action = "view-management"
)

var (
	everyone        = []Role{RoleAdmin, RoleInstructor, RoleLearner, RoleCompanyRep}
	staff           = []Role{RoleAdmin, RoleInstructor}
	companyManagers = []Role{RoleAdmin, RoleCompanyRep}
	adminOnly       = []Role{RoleAdmin}
)

// actionRoles is the single source of truth for role checks.
var actionRoles = map[Action][]Role{
	ActionViewDashboard:          everyone,
	ActionViewProfile:            everyone,
	ActionViewLearning:           {RoleAdmin, RoleInstructor, RoleLearner},
	ActionManageCourses:          staff,
	ActionManageCertifications:   staff,
	ActionManagePracticalSession: staff,
	ActionViewAnalytics:          staff,
	ActionManageNews:             staff,
	ActionManageSettings:         staff,
	ActionManageEvents:           companyManagers,
	ActionManageCompanies:        companyManagers,
	ActionManageUsers:            adminOnly,
	ActionManageInstructors:      adminOnly,
	ActionViewManagement:         adminOnly,
}

// CanPerform reports whether the principal's roles intersect the allow-list
// of action. It is false for a nil principal and for unknown actions.
func CanPerform(action Action, p *Principal) bool {
	if p == nil {
		return false
	}
	allowed, ok := actionRoles[action]
	if !ok {
		return false
	}
	return p.HasAnyRole(allowed...)
}

// AllowedRoles returns a copy of the allow-list for action.
func AllowedRoles(action Action) []Role {
	return append([]Role(nil), actionRoles[action]...)
}

// Actions returns every action known to the gate.
func Actions() []Action {
	out := make([]Action, 0, len(actionRoles))
	for a := range actionRoles {
		out = append(out, a)
	}
	return out
}
