package accesscontrol_test

import (
	"context"
	"errors"
	"testing"
	"time"

	accesscontrol "suffrage/contexts/identity-access/access-control"
	domainerrors "suffrage/contexts/identity-access/access-control/domain/errors"
	httptransport "suffrage/contexts/identity-access/access-control/transport/http"
)

var grantTime = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func newModule(t *testing.T) accesscontrol.Module {
	t.Helper()
	return accesscontrol.NewInMemoryModule("root-1", nil)
}

func TestBootstrapPrincipalHasSuperAdmin(t *testing.T) {
	module := newModule(t)
	resp, err := module.Handler.CheckRoleHandler(context.Background(), "super_admin", "root-1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !resp.Granted {
		t.Fatalf("expected bootstrap principal to hold super_admin")
	}
}

func TestGrantRequiresSuperAdmin(t *testing.T) {
	module := newModule(t)
	_, err := module.Handler.GrantRoleHandler(
		context.Background(), "random-user", grantTime,
		httptransport.GrantRoleRequest{Role: "auditor", Principal: "someone"},
	)
	if !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestGrantIsIdempotent(t *testing.T) {
	module := newModule(t)

	first, err := module.Handler.GrantRoleHandler(
		context.Background(), "root-1", grantTime,
		httptransport.GrantRoleRequest{Role: "election_admin", Principal: "admin-1"},
	)
	if err != nil {
		t.Fatalf("first grant failed: %v", err)
	}
	if first.AlreadyActive {
		t.Fatalf("expected fresh grant on first call")
	}

	second, err := module.Handler.GrantRoleHandler(
		context.Background(), "root-1", grantTime.Add(time.Hour),
		httptransport.GrantRoleRequest{Role: "election_admin", Principal: "admin-1"},
	)
	if err != nil {
		t.Fatalf("repeat grant failed: %v", err)
	}
	if !second.AlreadyActive {
		t.Fatalf("expected already active on repeat grant")
	}
}

func TestGrantRejectsUnknownRole(t *testing.T) {
	module := newModule(t)
	_, err := module.Handler.GrantRoleHandler(
		context.Background(), "root-1", grantTime,
		httptransport.GrantRoleRequest{Role: "emperor", Principal: "admin-1"},
	)
	if !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
}

func TestRevokeIsIdempotentAndBlocksSelfLockout(t *testing.T) {
	module := newModule(t)

	if _, err := module.Handler.GrantRoleHandler(
		context.Background(), "root-1", grantTime,
		httptransport.GrantRoleRequest{Role: "auditor", Principal: "aud-1"},
	); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	revoked, err := module.Handler.RevokeRoleHandler(
		context.Background(), "root-1", grantTime.Add(time.Hour),
		httptransport.RevokeRoleRequest{Role: "auditor", Principal: "aud-1"},
	)
	if err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if !revoked.Revoked {
		t.Fatalf("expected revoked true")
	}

	again, err := module.Handler.RevokeRoleHandler(
		context.Background(), "root-1", grantTime.Add(2*time.Hour),
		httptransport.RevokeRoleRequest{Role: "auditor", Principal: "aud-1"},
	)
	if err != nil {
		t.Fatalf("repeat revoke failed: %v", err)
	}
	if again.Revoked {
		t.Fatalf("expected revoked false on absent grant")
	}

	_, err = module.Handler.RevokeRoleHandler(
		context.Background(), "root-1", grantTime.Add(3*time.Hour),
		httptransport.RevokeRoleRequest{Role: "super_admin", Principal: "root-1"},
	)
	if !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected self-revocation of super_admin to be denied, got %v", err)
	}
}

func TestListRoles(t *testing.T) {
	module := newModule(t)
	for _, role := range []string{"election_admin", "auditor"} {
		if _, err := module.Handler.GrantRoleHandler(
			context.Background(), "root-1", grantTime,
			httptransport.GrantRoleRequest{Role: role, Principal: "multi-1"},
		); err != nil {
			t.Fatalf("grant %s failed: %v", role, err)
		}
	}

	resp, err := module.Handler.ListRolesHandler(context.Background(), "multi-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(resp.Roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(resp.Roles))
	}
}

func TestCreateOrganization(t *testing.T) {
	module := newModule(t)

	org, err := module.Handler.CreateOrganizationHandler(
		context.Background(), "root-1", grantTime,
		httptransport.CreateOrganizationRequest{OrgID: "org-1", Name: "Civic League"},
	)
	if err != nil {
		t.Fatalf("create org failed: %v", err)
	}
	if org.CreatedBy != "root-1" {
		t.Fatalf("expected creator root-1, got %s", org.CreatedBy)
	}

	_, err = module.Handler.CreateOrganizationHandler(
		context.Background(), "root-1", grantTime.Add(time.Hour),
		httptransport.CreateOrganizationRequest{OrgID: "org-1", Name: "Duplicate"},
	)
	if !errors.Is(err, domainerrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	_, err = module.Handler.CreateOrganizationHandler(
		context.Background(), "random-user", grantTime,
		httptransport.CreateOrganizationRequest{OrgID: "org-2", Name: "Rogue"},
	)
	if !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestMutationsAppendOutboxEvents(t *testing.T) {
	module := newModule(t)
	if _, err := module.Handler.GrantRoleHandler(
		context.Background(), "root-1", grantTime,
		httptransport.GrantRoleRequest{Role: "voter", Principal: "v-1"},
	); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if _, err := module.Handler.CreateOrganizationHandler(
		context.Background(), "root-1", grantTime,
		httptransport.CreateOrganizationRequest{OrgID: "org-ev", Name: "Events"},
	); err != nil {
		t.Fatalf("create org failed: %v", err)
	}

	if got := module.Store.PendingOutboxCount(); got != 2 {
		t.Fatalf("expected 2 pending outbox events, got %d", got)
	}
}
