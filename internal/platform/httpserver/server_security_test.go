package httpserver_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	electionengine "suffrage/contexts/election-lifecycle/election-engine"
	accesscontrol "suffrage/contexts/identity-access/access-control"
	"suffrage/internal/platform/httpserver"
)

func newTestServer(t *testing.T) *httpserver.Server {
	t.Helper()
	access := accesscontrol.NewInMemoryModule("root-1", nil)
	engine := electionengine.NewInMemoryModule(nil)
	engine.Store.SetRole("super_admin", "root-1")
	engine.Store.SetRole("election_admin", "admin-1")
	return httpserver.New(access, engine, nil, ":0")
}

func doJSON(t *testing.T, server *httpserver.Server, method string, path string, principal string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if principal != "" {
		req.Header.Set("X-Principal", principal)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGrantRoleRequiresPrincipalHeader(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server, http.MethodPost, "/api/access/v1/roles/grant", "",
		`{"role":"auditor","principal":"someone"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGrantRoleRejectsNonSuperAdmin(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server, http.MethodPost, "/api/access/v1/roles/grant", "random-user",
		`{"role":"auditor","principal":"someone"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestGrantRoleRejectsMalformedJSON(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server, http.MethodPost, "/api/access/v1/roles/grant", "root-1", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateElectionRequiresPrincipalHeader(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server, http.MethodPost, "/api/elections/v1/elections", "", `{}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateElectionRejectsNonAdmin(t *testing.T) {
	server := newTestServer(t)
	now := time.Now().UTC()
	body := fmt.Sprintf(
		`{"title":"t","type":"public","registration_start":%q,"voting_start":%q,"voting_end":%q}`,
		now.Add(time.Hour).Format(time.RFC3339),
		now.Add(2*time.Hour).Format(time.RFC3339),
		now.Add(3*time.Hour).Format(time.RFC3339),
	)
	rec := doJSON(t, server, http.MethodPost, "/api/elections/v1/elections", "random-user", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestElectionPathIDValidation(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server, http.MethodGet, "/api/elections/v1/elections/not-a-number", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}

	rec = doJSON(t, server, http.MethodGet, "/api/elections/v1/elections/999", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing election, got %d", rec.Code)
	}
}

func TestVoteRequiresPrincipalHeader(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server, http.MethodPost, "/api/elections/v1/elections/1/votes", "", `{"candidate_id":1}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLegacyUserIDHeaderIsAccepted(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/access/v1/roles/grant",
		strings.NewReader(`{"role":"auditor","principal":"someone"}`))
	req.Header.Set("X-User-Id", "root-1")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 via X-User-Id, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestEndToEndElectionOverHTTP(t *testing.T) {
	server := newTestServer(t)

	now := time.Now().UTC()
	createBody := fmt.Sprintf(
		`{"title":"http election","type":"public","registration_start":%q,"voting_start":%q,"voting_end":%q}`,
		now.Add(time.Minute).Format(time.RFC3339),
		now.Add(2*time.Minute).Format(time.RFC3339),
		now.Add(24*time.Hour).Format(time.RFC3339),
	)
	rec := doJSON(t, server, http.MethodPost, "/api/elections/v1/elections", "admin-1", createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed with %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ElectionID uint64 `json:"election_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	base := fmt.Sprintf("/api/elections/v1/elections/%d", created.ElectionID)
	rec = doJSON(t, server, http.MethodPost, base+"/candidates", "admin-1", `{"name":"alice"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add candidate failed with %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodGet, base+"/candidates", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list candidates failed with %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"alice"`) {
		t.Fatalf("expected candidate alice in body: %s", rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodGet, base+"/candidates/1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get candidate failed with %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"candidate_id":1`) {
		t.Fatalf("expected candidate 1 in body: %s", rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodGet, base+"/candidates/42", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing candidate, got %d: %s", rec.Code, rec.Body.String())
	}
}
