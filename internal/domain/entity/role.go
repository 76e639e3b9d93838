package entity

// Role represents the access role a user holds in the system.
type Role string

const (
	// RoleGuest is the default role for freshly registered users.
	RoleGuest Role = "guest"
	// RoleMember indicates a regular project member.
	RoleMember Role = "member"
	// RoleAdmin indicates a user with unrestricted project and task access.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}
