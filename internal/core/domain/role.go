package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of portal roles. Every protected destination is
// keyed on these values; an unknown role is a validation error, never a
// silent deny.
type Role string

const (
	RoleOwner         Role = "OWNER"
	RoleEmployee      Role = "EMPLOYEE"
	RoleVeterinarian  Role = "VETERINARIAN"
	RoleAdministrator Role = "ADMINISTRATOR"
)

// AllRoles lists every valid role, in display order.
func AllRoles() []Role {
	return []Role{RoleOwner, RoleEmployee, RoleVeterinarian, RoleAdministrator}
}

// legacyAliases maps role spellings still emitted by older backend builds
// (Spanish wire values) to their canonical form.
var legacyAliases = map[string]Role{
	"PROPIETARIO":   RoleOwner,
	"EMPLEADO":      RoleEmployee,
	"VETERINARIO":   RoleVeterinarian,
	"ADMINISTRADOR": RoleAdministrator,
	"ADMIN":         RoleAdministrator,
}

// ParseRole canonicalizes a backend role string. It accepts the canonical
// values and the legacy aliases; anything else fails with ErrUnknownRole.
func ParseRole(s string) (Role, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	switch Role(v) {
	case RoleOwner, RoleEmployee, RoleVeterinarian, RoleAdministrator:
		return Role(v), nil
	}
	if r, ok := legacyAliases[v]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Valid reports whether r is one of the canonical roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleEmployee, RoleVeterinarian, RoleAdministrator:
		return true
	}
	return false
}
