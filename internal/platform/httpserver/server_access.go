package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	accesserrors "suffrage/contexts/identity-access/access-control/domain/errors"
	accesshttp "suffrage/contexts/identity-access/access-control/transport/http"
)

func writeAccessError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accesshttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeAccessDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accesserrors.ErrPermissionDenied):
		writeAccessError(w, http.StatusForbidden, "permission_denied", err.Error())
	case errors.Is(err, accesserrors.ErrInvalidRole):
		writeAccessError(w, http.StatusBadRequest, "invalid_role", err.Error())
	case errors.Is(err, accesserrors.ErrInvalidInput):
		writeAccessError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, accesserrors.ErrAlreadyExists):
		writeAccessError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, accesserrors.ErrNotFound):
		writeAccessError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeAccessError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireAccessPrincipal(w http.ResponseWriter, r *http.Request) (string, bool) {
	principal := resolvePrincipal(r)
	if principal == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return "", false
	}
	return principal, true
}

func (s *Server) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAccessPrincipal(w, r)
	if !ok {
		return
	}
	var req accesshttp.GrantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.access.Handler.GrantRoleHandler(r.Context(), caller, requestNow(), req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAccessPrincipal(w, r)
	if !ok {
		return
	}
	var req accesshttp.RevokeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.access.Handler.RevokeRoleHandler(r.Context(), caller, requestNow(), req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.access.Handler.ListRolesHandler(r.Context(), r.PathValue("principal"))
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckRole(w http.ResponseWriter, r *http.Request) {
	resp, err := s.access.Handler.CheckRoleHandler(r.Context(), r.PathValue("role"), r.PathValue("principal"))
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAccessPrincipal(w, r)
	if !ok {
		return
	}
	var req accesshttp.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.access.Handler.CreateOrganizationHandler(r.Context(), caller, requestNow(), req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
