package model

// Role represents the role of an authenticated principal.
type Role string

const (
	// RoleUser is a standard reporter who submits and lists their own reports.
	RoleUser Role = "user"
	// RoleAdmin monitors alerts for a geographical area.
	RoleAdmin Role = "admin"
)

// IsAdmin returns true for the admin role.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}
