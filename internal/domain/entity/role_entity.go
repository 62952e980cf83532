package entity

// Role is the single role label carried by a user.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDirector   Role = "director"
	RoleAccountant Role = "accountant"
	RoleGatekeeper Role = "gatekeeper"
)

// Roles lists the fixed role enumeration in display order.
var Roles = []Role{RoleAdmin, RoleDirector, RoleAccountant, RoleGatekeeper}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// RoleNames returns the enumeration as plain strings.
func RoleNames() []string {
	out := make([]string, len(Roles))
	for i, r := range Roles {
		out[i] = string(r)
	}
	return out
}
