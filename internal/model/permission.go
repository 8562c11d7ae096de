package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionSessionsRead allows viewing the weekly session timetable.
	PermissionSessionsRead Permission = "sessions:read"

	// PermissionSessionsWrite allows creating, editing, cancelling and deleting sessions.
	PermissionSessionsWrite Permission = "sessions:write"

	// PermissionClassesRead allows viewing class capacity, waitlists and class dashboards.
	PermissionClassesRead Permission = "classes:read"

	// PermissionClassesWrite allows configuring capacity and completing enrollments.
	PermissionClassesWrite Permission = "classes:write"

	// PermissionEnrollmentsWrite allows requesting and withdrawing enrollments.
	PermissionEnrollmentsWrite Permission = "enrollments:write"

	// PermissionRecordsWrite allows recording attendance and grades.
	PermissionRecordsWrite Permission = "records:write"

	// PermissionDashboardsRead allows viewing any student's dashboard and enrollments.
	PermissionDashboardsRead Permission = "dashboards:read"

	// PermissionPricingRead allows requesting family price quotes.
	PermissionPricingRead Permission = "pricing:read"

	// PermissionSystemRead allows streaming process and queue metrics.
	PermissionSystemRead Permission = "system:read"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionSessionsRead,
	PermissionSessionsWrite,
	PermissionClassesRead,
	PermissionClassesWrite,
	PermissionEnrollmentsWrite,
	PermissionRecordsWrite,
	PermissionDashboardsRead,
	PermissionPricingRead,
	PermissionSystemRead,
}
