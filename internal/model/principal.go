package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleCitizen UserRole = "CITIZEN"
	UserRoleAdmin   UserRole = "ADMIN"
)

// Principal is the request-scoped identity extracted from the access token.
// It is passed explicitly into every service call.
type Principal struct {
	UserID     uuid.UUID
	Role       UserRole
	Department Department
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsCitizen() bool {
	return p.Role == UserRoleCitizen
}

// CanViewDepartment reports whether the principal may read grievances routed
// to the given department. Department admins see only their own queue;
// Administration sees everything.
func (p Principal) CanViewDepartment(dept Department) bool {
	if !p.IsAdmin() {
		return false
	}
	if p.Department == DepartmentAdministration {
		return true
	}
	return p.Department == dept
}
