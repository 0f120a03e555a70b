// Package authz defines the organization role set and the privilege
// predicate every role-gated action checks against.
package authz

import (
	"fmt"
	"strings"
)

// Role is a membership role within one organization.
type Role string

const (
	RoleCreator   Role = "CREATOR"
	RoleModerator Role = "MODERATOR"
	RoleDefault   Role = "DEFAULT"
)

// ParseRole normalizes and validates a role string. Input casing is folded;
// unknown values are rejected.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RoleCreator):
		return RoleCreator, nil
	case string(RoleModerator):
		return RoleModerator, nil
	case string(RoleDefault):
		return RoleDefault, nil
	default:
		return "", fmt.Errorf(`role must be "CREATOR", "MODERATOR", or "DEFAULT"`)
	}
}

// IsPrivileged reports whether role may administer an organization's
// resources (chatroom create/edit/delete, member role edits, label
// assignment, member removal). This predicate is the single source of truth;
// privileged actions call through it rather than re-deriving the check.
func IsPrivileged(role Role) bool {
	return role == RoleCreator || role == RoleModerator
}
