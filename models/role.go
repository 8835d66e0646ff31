package models

import "fmt"

// Role is the authorization tier granted by a resolved access code.
type Role string

// Role values stored in access_codes.role.
const (
	RoleMainAdmin Role = "main_admin"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleClient    Role = "client"
)

// ParseRole converts a stored role string into a Role.
// Any value outside the closed set is an error; callers treat it as no match.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMainAdmin, RoleAdmin, RoleModerator, RoleClient:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsElevated reports whether the role has global scope.
func (r Role) IsElevated() bool {
	switch r {
	case RoleMainAdmin, RoleAdmin, RoleModerator:
		return true
	case RoleClient:
		return false
	default:
		return false
	}
}

// CanViewAllGroups reports whether the role may list videos of every group.
func (r Role) CanViewAllGroups() bool {
	switch r {
	case RoleMainAdmin, RoleAdmin, RoleModerator:
		return true
	case RoleClient:
		return false
	default:
		return false
	}
}

// CanManageCatalog reports whether the role may create and delete groups, clients and videos.
func (r Role) CanManageCatalog() bool {
	switch r {
	case RoleMainAdmin, RoleAdmin:
		return true
	case RoleModerator, RoleClient:
		return false
	default:
		return false
	}
}

// CanManageAccessCodes reports whether the role may issue elevated access codes.
func (r Role) CanManageAccessCodes() bool {
	switch r {
	case RoleMainAdmin:
		return true
	case RoleAdmin, RoleModerator, RoleClient:
		return false
	default:
		return false
	}
}

func (r Role) CanLeaveFeedback() bool {
	switch r {
	case RoleClient:
		return true
	case RoleMainAdmin, RoleAdmin, RoleModerator:
		return false
	default:
		return false
	}
}

func (r Role) CanReadAllFeedback() bool {
	switch r {
	case RoleMainAdmin, RoleAdmin, RoleModerator:
		return true
	case RoleClient:
		return false
	default:
		return false
	}
}
