package entities

import "time"

// Role is a named capability bundle. Roles are additive: a principal's
// effective permissions are the union of every role it holds.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleElectionAdmin Role = "election_admin"
	RoleAuditor       Role = "auditor"
	RoleVoter         Role = "voter"
)

// Valid reports whether the role is one of the known capability tags.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleElectionAdmin, RoleAuditor, RoleVoter:
		return true
	default:
		return false
	}
}

// RoleGrant records an active (role, principal) capability grant.
type RoleGrant struct {
	Role      Role
	Principal string
	GrantedBy string
	GrantedAt time.Time
}
