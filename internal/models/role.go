// internal/models/role.go
package models

import "fmt"

// UserRole is the role of the acting user, carried in the JWT and in
// every status history entry.
type UserRole string

const (
	RoleUser    UserRole = "User"
	RoleManager UserRole = "Manager"
	RoleAdmin   UserRole = "Admin"
)

func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleUser, RoleManager, RoleAdmin:
		return UserRole(s), nil
	}
	return "", fmt.Errorf("invalid user role: %s", s)
}

// CanApprove reports whether the role may approve completion of a task
// sitting in review.
func (r UserRole) CanApprove() bool {
	return r == RoleManager || r == RoleAdmin
}

// CanManageUsers is reserved for admin-only user administration.
func (r UserRole) CanManageUsers() bool {
	return r == RoleAdmin
}

func (r UserRole) HasElevatedPermissions() bool {
	return r == RoleManager || r == RoleAdmin
}
