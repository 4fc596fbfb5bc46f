package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	electionerrors "suffrage/contexts/election-lifecycle/election-engine/domain/errors"
	electionhttp "suffrage/contexts/election-lifecycle/election-engine/transport/http"
)

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrPermissionDenied):
		writeElectionError(w, http.StatusForbidden, "permission_denied", err.Error())
	case errors.Is(err, electionerrors.ErrNotFound):
		writeElectionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidInput):
		writeElectionError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidTransition):
		writeElectionError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidState):
		writeElectionError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, electionerrors.ErrAlreadyRegistered):
		writeElectionError(w, http.StatusConflict, "already_registered", err.Error())
	case errors.Is(err, electionerrors.ErrAlreadyVoted):
		writeElectionError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, electionerrors.ErrAlreadyFinalized):
		writeElectionError(w, http.StatusConflict, "already_finalized", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidCandidate):
		writeElectionError(w, http.StatusUnprocessableEntity, "invalid_candidate", err.Error())
	case errors.Is(err, electionerrors.ErrNotEligible):
		writeElectionError(w, http.StatusForbidden, "not_eligible", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireElectionPrincipal(w http.ResponseWriter, r *http.Request) (string, bool) {
	principal := resolvePrincipal(r)
	if principal == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return "", false
	}
	return principal, true
}

func requireElectionID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	electionID, ok := parsePathID(r, "election_id")
	if !ok {
		writeElectionError(w, http.StatusBadRequest, "invalid_election_id", "election_id must be a positive integer")
		return 0, false
	}
	return electionID, true
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireElectionPrincipal(w, r)
	if !ok {
		return
	}
	var req electionhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.CreateElectionHandler(r.Context(), caller, requestNow(), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.engine.Handler.GetElectionHandler(r.Context(), electionID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdvanceStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireElectionPrincipal(w, r)
	if !ok {
		return
	}
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	var req electionhttp.AdvanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.AdvanceStatusHandler(r.Context(), caller, requestNow(), electionID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireElectionPrincipal(w, r)
	if !ok {
		return
	}
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	var req electionhttp.AddCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.AddCandidateHandler(r.Context(), caller, requestNow(), electionID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.engine.Handler.ListCandidatesHandler(r.Context(), electionID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	candidateID, ok := parsePathID(r, "candidate_id")
	if !ok {
		writeElectionError(w, http.StatusBadRequest, "invalid_candidate_id", "candidate_id must be a positive integer")
		return
	}
	resp, err := s.engine.Handler.GetCandidateHandler(r.Context(), electionID, candidateID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeactivateCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireElectionPrincipal(w, r)
	if !ok {
		return
	}
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	candidateID, ok := parsePathID(r, "candidate_id")
	if !ok {
		writeElectionError(w, http.StatusBadRequest, "invalid_candidate_id", "candidate_id must be a positive integer")
		return
	}
	resp, err := s.engine.Handler.DeactivateCandidateHandler(r.Context(), caller, requestNow(), electionID, candidateID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireElectionPrincipal(w, r)
	if !ok {
		return
	}
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	var req electionhttp.RegisterVoterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.RegisterVoterHandler(r.Context(), caller, requestNow(), electionID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleReviewRegistration(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireElectionPrincipal(w, r)
	if !ok {
		return
	}
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	var req electionhttp.ReviewRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.ReviewRegistrationHandler(r.Context(), caller, requestNow(), electionID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBulkReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireElectionPrincipal(w, r)
	if !ok {
		return
	}
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	var req electionhttp.BulkReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.BulkReviewHandler(r.Context(), caller, requestNow(), electionID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.engine.Handler.RegistrationStatusHandler(r.Context(), electionID, r.PathValue("voter"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireElectionPrincipal(w, r)
	if !ok {
		return
	}
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	var req electionhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.CastVoteHandler(r.Context(), caller, requestNow(), electionID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.engine.Handler.HasVotedHandler(r.Context(), electionID, r.PathValue("voter"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyReceipt(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireElectionPrincipal(w, r)
	if !ok {
		return
	}
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	var req electionhttp.VerifyReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.VerifyReceiptHandler(r.Context(), caller, electionID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.engine.Handler.ResultsHandler(r.Context(), electionID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireElectionPrincipal(w, r)
	if !ok {
		return
	}
	electionID, ok := requireElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.engine.Handler.FinalizeHandler(r.Context(), caller, requestNow(), electionID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
