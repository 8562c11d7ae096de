package model

// Role is the single portal role attached to a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns the permission codes granted to the role.
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	codes := make([]string, len(perms))
	for i, p := range perms {
		codes[i] = string(p)
	}
	return codes
}

var rolePermissions = map[Role][]Permission{
	RoleAdmin: AllPermissions,
	RoleTeacher: {
		PermissionSessionsRead,
		PermissionClassesRead,
		PermissionRecordsWrite,
		PermissionDashboardsRead,
	},
	// Students reach their own dashboard through the self check on /students/:id.
	RoleStudent: {
		PermissionSessionsRead,
		PermissionEnrollmentsWrite,
		PermissionPricingRead,
	},
	RoleParent: {
		PermissionSessionsRead,
		PermissionEnrollmentsWrite,
		PermissionDashboardsRead,
		PermissionPricingRead,
	},
}
