package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vacekto/streamit-auth/internal/logger"
	"github.com/vacekto/streamit-auth/internal/model"
)

// Stable machine-readable reason codes carried in error bodies. Clients
// branch on these, so they never change meaning.
const (
	ReasonInvalidCredentials  = "invalid_credentials"
	ReasonNoSuchUser          = "no_such_user"
	ReasonMalformedToken      = "malformed_token"
	ReasonExpiredToken        = "expired_token"
	ReasonRevokedToken        = "revoked_token"
	ReasonRegistryUnavailable = "registry_unavailable"
	ReasonDuplicateIdentity   = "duplicate_identity"
	ReasonNotFound            = "not_found"
	ReasonBadRequest          = "bad_request"
	ReasonInternal            = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, ReasonInvalidCredentials
	case errors.Is(err, model.ErrNoSuchUser):
		return http.StatusUnauthorized, ReasonNoSuchUser
	case errors.Is(err, model.ErrMalformedToken):
		return http.StatusUnauthorized, ReasonMalformedToken
	case errors.Is(err, model.ErrTokenExpired):
		return http.StatusUnauthorized, ReasonExpiredToken
	case errors.Is(err, model.ErrTokenRevoked):
		return http.StatusUnauthorized, ReasonRevokedToken
	case errors.Is(err, model.ErrRegistryUnavailable):
		return http.StatusServiceUnavailable, ReasonRegistryUnavailable
	case errors.Is(err, model.ErrDuplicateIdentity):
		return http.StatusConflict, ReasonDuplicateIdentity
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, ReasonNotFound
	default:
		return http.StatusInternalServerError, ReasonInternal
	}
}

// WriteError maps err onto the error taxonomy and writes the JSON body
// `{"error": "<reason>"}`. Revoked tokens are logged at WARN because a
// revoked-but-presented refresh token may be a stolen one.
func WriteError(w http.ResponseWriter, l *logger.Logger, err error) {
	status, reason := mapError(err)

	switch {
	case errors.Is(err, model.ErrTokenRevoked):
		l.Warn("HTTP handler: revoked token presented",
			"error", err.Error())
	case status >= http.StatusInternalServerError:
		l.Error("HTTP handler: request failed",
			"status", status,
			"error", err.Error())
	}

	writeJSON(w, status, errorResponse{Error: reason})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
