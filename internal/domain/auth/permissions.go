package auth

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

const (
	PermLeaveRead       = "leave.read"
	PermLeaveWrite      = "leave.write"
	PermLeaveReadAll    = "leave.read_all"
	PermLeaveTypesRead  = "leave_types.read"
	PermLeaveTypesWrite = "leave_types.write"
	PermUsersRead       = "users.read"
	PermUsersWrite      = "users.write"
	PermUsersAssignRole = "users.assign_role"
	PermAuditRead       = "audit.read"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveTypesRead,
	},
	RoleAdmin: {
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveReadAll,
		PermLeaveTypesRead,
		PermLeaveTypesWrite,
		PermUsersRead,
		PermUsersWrite,
		PermUsersAssignRole,
		PermAuditRead,
	},
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
