package domain

import (
	"fmt"
	"strings"
)

// Role is a position in the fixed permission hierarchy user < moderator < admin.
// The zero value is RoleUser, so an unset role never grants more than the
// least privileged level.
type Role int

const (
	RoleUser Role = iota
	RoleModerator
	RoleAdmin
)

// ValidRoles enumerates all roles in ascending order of privilege.
var ValidRoles = []Role{RoleUser, RoleModerator, RoleAdmin}

var roleNames = map[Role]string{
	RoleUser:      "user",
	RoleModerator: "moderator",
	RoleAdmin:     "admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole converts a role name into a Role. Names are matched
// case-insensitively; anything else is a validation error.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return RoleUser, Invalidf("unknown role %q (valid: user, moderator, admin)", s)
}

// MarshalText implements encoding.TextMarshaler so roles travel as their
// names in JSON, YAML and token claims.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// IsAllowed reports whether a holder of userRole may perform an action that
// requires requiredRole.
func IsAllowed(userRole, requiredRole Role) bool {
	if !userRole.Valid() || !requiredRole.Valid() {
		return false
	}
	return userRole >= requiredRole
}

// CanManageProducts reports whether the role may create, edit or delete products.
func CanManageProducts(r Role) bool { return IsAllowed(r, RoleAdmin) }

// CanManageUsers reports whether the role may administer user accounts.
func CanManageUsers(r Role) bool { return IsAllowed(r, RoleAdmin) }
