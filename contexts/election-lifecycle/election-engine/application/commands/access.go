package commands

import (
	"context"
	"strings"

	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
	"suffrage/contexts/election-lifecycle/election-engine/ports"
)

// Role tags owned by the identity context, referenced here by name only.
const (
	roleSuperAdmin    = "super_admin"
	roleElectionAdmin = "election_admin"
)

// isElectionManager reports whether the principal may administer the
// election: its creating admin, or any super admin.
func isElectionManager(
	ctx context.Context,
	access ports.AccessDirectory,
	election entities.Election,
	principal string,
) (bool, error) {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return false, nil
	}
	if election.ManagedBy(principal, false) {
		return true, nil
	}
	isSuperAdmin, err := access.HasRole(ctx, roleSuperAdmin, principal)
	if err != nil {
		return false, err
	}
	return election.ManagedBy(principal, isSuperAdmin), nil
}
