package permission

const (
	RoleEmployee = "employee"
	RoleTeamLead = "team_lead"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// Permission names, grouped by category. The seed command inserts these
// as reference rows; code only ever compares by name.
const (
	PermViewReports   = "view_reports"
	PermExportReports = "export_reports"

	PermManageUsers       = "manage_users"
	PermViewEmployees     = "view_employees"
	PermManagePermissions = "manage_permissions"

	PermManageDepartments = "manage_departments"
	PermManagePositions   = "manage_positions"

	PermRequestAbsence  = "request_absence"
	PermApproveAbsences = "approve_absences"
	PermViewAllAbsences = "view_all_absences"

	PermClockPointage    = "clock_pointage"
	PermViewAllPointages = "view_all_pointages"

	PermManageSettings   = "manage_settings"
	PermRunLdapSync      = "run_ldap_sync"
	PermViewActivityLogs = "view_activity_logs"
)

const (
	CategoryReports      = "reports"
	CategoryUsers        = "users"
	CategoryOrganization = "organization"
	CategoryAbsences     = "absences"
	CategoryPointages    = "pointages"
	CategorySystem       = "system"
)

type Definition struct {
	Name        string
	Description string
	Category    string
}

// Definitions is the seeded reference set.
var Definitions = []Definition{
	{PermViewReports, "View generated reports", CategoryReports},
	{PermExportReports, "Export reports as CSV", CategoryReports},
	{PermManageUsers, "Create, edit and deactivate users", CategoryUsers},
	{PermViewEmployees, "View the employee directory", CategoryUsers},
	{PermManagePermissions, "Grant and revoke user permissions", CategoryUsers},
	{PermManageDepartments, "Manage departments", CategoryOrganization},
	{PermManagePositions, "Manage positions", CategoryOrganization},
	{PermRequestAbsence, "Request leave and absences", CategoryAbsences},
	{PermApproveAbsences, "Approve or reject absence requests", CategoryAbsences},
	{PermViewAllAbsences, "View all absence requests", CategoryAbsences},
	{PermClockPointage, "Clock in and out", CategoryPointages},
	{PermViewAllPointages, "View all clock records", CategoryPointages},
	{PermManageSettings, "Edit system settings", CategorySystem},
	{PermRunLdapSync, "Trigger directory synchronization", CategorySystem},
	{PermViewActivityLogs, "View the activity log", CategorySystem},
}

// RoleDefaults is the single source of truth for role default grants,
// consulted by both the evaluator and the reset operation. Admin is
// deliberately absent: admins are not permission-scoped.
var RoleDefaults = map[string][]string{
	RoleEmployee: {
		PermRequestAbsence,
		PermClockPointage,
	},
	RoleTeamLead: {
		PermRequestAbsence,
		PermClockPointage,
		PermViewEmployees,
		PermViewAllAbsences,
		PermViewAllPointages,
	},
	RoleManager: {
		PermRequestAbsence,
		PermClockPointage,
		PermViewEmployees,
		PermViewAllAbsences,
		PermViewAllPointages,
		PermApproveAbsences,
		PermViewReports,
		PermExportReports,
	},
}

func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleTeamLead, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// DefaultsForRole returns a copy of the role's default permission names.
func DefaultsForRole(role string) []string {
	defaults, ok := RoleDefaults[role]
	if !ok {
		return nil
	}
	out := make([]string, len(defaults))
	copy(out, defaults)
	return out
}

func AllPermissionNames() []string {
	names := make([]string, len(Definitions))
	for i, d := range Definitions {
		names[i] = d.Name
	}
	return names
}
