package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	electionengine "suffrage/contexts/election-lifecycle/election-engine"
	accesscontrol "suffrage/contexts/identity-access/access-control"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "suffrage/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	access accesscontrol.Module
	engine electionengine.Module
}

func New(
	access accesscontrol.Module,
	engine electionengine.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		access: access,
		engine: engine,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /api/access/v1/roles/grant", s.handleGrantRole)
	s.mux.HandleFunc("POST /api/access/v1/roles/revoke", s.handleRevokeRole)
	s.mux.HandleFunc("GET /api/access/v1/principals/{principal}/roles", s.handleListRoles)
	s.mux.HandleFunc("GET /api/access/v1/principals/{principal}/roles/{role}", s.handleCheckRole)
	s.mux.HandleFunc("POST /api/access/v1/organizations", s.handleCreateOrganization)

	s.mux.HandleFunc("POST /api/elections/v1/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /api/elections/v1/elections", s.handleListElections)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/advance", s.handleAdvanceStatus)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/candidates", s.handleAddCandidate)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_id}/candidates", s.handleListCandidates)
	s.mux.HandleFunc(
		"GET /api/elections/v1/elections/{election_id}/candidates/{candidate_id}",
		s.handleGetCandidate,
	)
	s.mux.HandleFunc(
		"POST /api/elections/v1/elections/{election_id}/candidates/{candidate_id}/deactivate",
		s.handleDeactivateCandidate,
	)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/registrations", s.handleRegisterVoter)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/registrations/review", s.handleReviewRegistration)
	s.mux.HandleFunc(
		"POST /api/elections/v1/elections/{election_id}/registrations/bulk-review",
		s.handleBulkReview,
	)
	s.mux.HandleFunc(
		"GET /api/elections/v1/elections/{election_id}/registrations/{voter}",
		s.handleRegistrationStatus,
	)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_id}/votes/{voter}", s.handleHasVoted)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/receipts/verify", s.handleVerifyReceipt)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_id}/results", s.handleResults)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/finalize", s.handleFinalize)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// resolvePrincipal extracts the caller identity. X-Principal is canonical;
// X-User-Id is accepted for older clients.
func resolvePrincipal(r *http.Request) string {
	if principal := strings.TrimSpace(r.Header.Get("X-Principal")); principal != "" {
		return principal
	}
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}

func requestNow() time.Time {
	return time.Now().UTC()
}

func parsePathID(r *http.Request, name string) (uint64, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(r.PathValue(name)), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return value, true
}
