package models

// Identity is the outcome of a successful access code resolution.
// GroupID is the scope: nil for elevated roles (global) and for clients
// that are not assigned to any group.
type Identity struct {
	Role    Role    `json:"role"`
	Code    string  `json:"-"`
	GroupID *string `json:"group_id"`
}

// IsGlobal reports whether the identity may see every group.
func (i Identity) IsGlobal() bool {
	return i.Role.CanViewAllGroups()
}

// Scope returns the group id the identity is restricted to, or "" when none.
func (i Identity) Scope() string {
	if i.GroupID == nil {
		return ""
	}
	return *i.GroupID
}
