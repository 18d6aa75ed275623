package domain

// Permission is a single flag in a role's permission bitmask.
type Permission int

const (
	PermissionRead     Permission = 1 << iota // read public notes
	PermissionWrite                           // write your own notes
	PermissionComment                         // comment on notes made by others
	PermissionModerate                        // moderate comments and block notes
	PermissionAdmin                           // administration access
)

// Role names are fixed; the seeder owns the full table.
const (
	RoleNameUser      = "User"
	RoleNameModerator = "Moderator"
	RoleNameAdmin     = "Admin"
)

// DefaultRoleName is the role assigned to new users not on the admin allow-list.
const DefaultRoleName = RoleNameUser

// rolePermissions defines the permission set for each seeded role.
var rolePermissions = map[string][]Permission{
	RoleNameUser:      {PermissionRead, PermissionWrite, PermissionComment},
	RoleNameModerator: {PermissionRead, PermissionWrite, PermissionComment, PermissionModerate},
	RoleNameAdmin:     {PermissionRead, PermissionWrite, PermissionComment, PermissionModerate, PermissionAdmin},
}

// SeededRoleNames returns the fixed role names in a stable order.
func SeededRoleNames() []string {
	return []string{RoleNameUser, RoleNameModerator, RoleNameAdmin}
}

// PermissionsFor returns the fixed permission set for a seeded role name.
func PermissionsFor(name string) []Permission {
	return rolePermissions[name]
}

// Role is a named bundle of permissions assigned to users.
type Role struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Default     bool       `json:"default"`
	Permissions Permission `json:"permissions"`
}

// HasPermission reports whether every bit of p is set on the role.
func (r *Role) HasPermission(p Permission) bool {
	return r.Permissions&p == p
}

// AddPermission sets the given bits. Idempotent.
func (r *Role) AddPermission(p Permission) {
	r.Permissions |= p
}

// RemovePermission clears the given bits. Idempotent.
func (r *Role) RemovePermission(p Permission) {
	r.Permissions &^= p
}

// ResetPermissions clears the whole bitmask.
func (r *Role) ResetPermissions() {
	r.Permissions = 0
}
