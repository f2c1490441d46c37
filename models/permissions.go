package models

// Capabilities gate individual operations. Each role maps to one capability
// set consumed by the route guards, so there is a single place to read what a
// role may do.
const (
	CapViewReservations   = "reservations:view"
	CapCreateReservations = "reservations:create"
	CapEditReservations   = "reservations:edit"
	CapViewTables         = "tables:view"
	CapManageTables       = "tables:manage"
	CapDeleteTables       = "tables:delete"
	CapViewUsers          = "users:view"
	CapManageUsers        = "users:manage"
	CapViewReports        = "reports:view"
)

var rolePermissions = map[string]map[string]bool{
	RoleAdmin: {
		CapViewReservations:   true,
		CapCreateReservations: true,
		CapEditReservations:   true,
		CapViewTables:         true,
		CapManageTables:       true,
		CapDeleteTables:       true,
		CapViewUsers:          true,
		CapManageUsers:        true,
		CapViewReports:        true,
	},
	RoleManager: {
		CapViewReservations:   true,
		CapCreateReservations: true,
		CapEditReservations:   true,
		CapViewTables:         true,
		CapManageTables:       true,
		CapViewUsers:          true,
		CapViewReports:        true,
	},
	RoleStaff: {
		CapViewReservations:   true,
		CapCreateReservations: true,
		CapViewTables:         true,
		CapViewReports:        true,
	},
}

// RoleCan reports whether the given role holds the capability.
func RoleCan(role, capability string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[capability]
}
