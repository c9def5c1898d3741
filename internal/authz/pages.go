package authz

import "github.com/elitehr/elite-time/internal/permission"

// Page describes a navigable route and who may reach it. The registry
// is the authority; database page rows are synced from it by the seed
// command so reports can join against them.
type Page struct {
	Code                string   `json:"code"`
	Path                string   `json:"path"`
	Title               string   `json:"title"`
	AllowedRoles        []string `json:"allowed_roles"`
	RequiredPermissions []string `json:"required_permissions,omitempty"`
}

var allRoles = []string{
	permission.RoleEmployee,
	permission.RoleTeamLead,
	permission.RoleManager,
	permission.RoleAdmin,
}

var managerial = []string{permission.RoleManager, permission.RoleAdmin}

// Registry is keyed by page code.
var Registry = map[string]Page{
	"dashboard": {
		Code:         "dashboard",
		Path:         "/dashboard",
		Title:        "Dashboard",
		AllowedRoles: allRoles,
	},
	"pointages": {
		Code:                "pointages",
		Path:                "/pointages",
		Title:               "Clock In / Out",
		AllowedRoles:        allRoles,
		RequiredPermissions: []string{permission.PermClockPointage},
	},
	"absences": {
		Code:                "absences",
		Path:                "/absences",
		Title:               "My Absences",
		AllowedRoles:        allRoles,
		RequiredPermissions: []string{permission.PermRequestAbsence},
	},
	"team_absences": {
		Code:                "team_absences",
		Path:                "/team/absences",
		Title:               "Team Absences",
		AllowedRoles:        []string{permission.RoleTeamLead, permission.RoleManager, permission.RoleAdmin},
		RequiredPermissions: []string{permission.PermViewAllAbsences, permission.PermApproveAbsences},
	},
	"team_pointages": {
		Code:                "team_pointages",
		Path:                "/team/pointages",
		Title:               "Team Clock Records",
		AllowedRoles:        []string{permission.RoleTeamLead, permission.RoleManager, permission.RoleAdmin},
		RequiredPermissions: []string{permission.PermViewAllPointages},
	},
	"employees": {
		Code:                "employees",
		Path:                "/employees",
		Title:               "Employees",
		AllowedRoles:        managerial,
		RequiredPermissions: []string{permission.PermViewEmployees, permission.PermManageUsers},
	},
	"organization": {
		Code:                "organization",
		Path:                "/organization",
		Title:               "Departments & Positions",
		AllowedRoles:        managerial,
		RequiredPermissions: []string{permission.PermManageDepartments, permission.PermManagePositions},
	},
	"reports": {
		Code:                "reports",
		Path:                "/reports",
		Title:               "Reports",
		AllowedRoles:        managerial,
		RequiredPermissions: []string{permission.PermViewReports},
	},
	"activity": {
		Code:                "activity",
		Path:                "/activity",
		Title:               "Activity Log",
		AllowedRoles:        []string{permission.RoleAdmin},
		RequiredPermissions: []string{permission.PermViewActivityLogs},
	},
	"settings": {
		Code:                "settings",
		Path:                "/settings",
		Title:               "System Settings",
		AllowedRoles:        []string{permission.RoleAdmin},
		RequiredPermissions: []string{permission.PermManageSettings},
	},
	"admin_permissions": {
		Code:         "admin_permissions",
		Path:         "/admin/permissions",
		Title:        "User Permissions",
		AllowedRoles: []string{permission.RoleAdmin},
	},
}

func LookupPage(code string) (Page, bool) {
	page, ok := Registry[code]
	return page, ok
}
