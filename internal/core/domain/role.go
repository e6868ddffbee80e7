package domain

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleProfessor Role = "PROFESSOR"
	RoleStudent   Role = "STUDENT"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleStudent:
		return true
	}
	return false
}

// ParseRole returns the role named by s, or false when s names no role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Authorize permits a caller only when its role exactly matches the role the
// operation requires. There is no hierarchy: an admin is denied professor and
// student operations. An absent or unknown caller role is always denied.
func Authorize(caller, required Role) bool {
	if !caller.Valid() || !required.Valid() {
		return false
	}
	return caller == required
}
