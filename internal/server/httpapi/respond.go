package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
)

const (
	codeInvalidRequest     = "invalid_request"
	codeValidation         = "validation_error"
	codeNotFound           = "not_found"
	codeUnauthorized       = "unauthorized"
	codeInvalidCredentials = "invalid_credentials"
	codeAlreadyExists      = "already_exists"
	codeIllegalTransition  = "illegal_transition"
	codeMethodNotAllowed   = "method_not_allowed"
	codeInternal           = "internal_error"
)

const maxBodySize = 1 << 20

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// statusFor maps a service error onto an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, common.ErrIllegalTransition):
		return http.StatusUnprocessableEntity, codeIllegalTransition
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, codeInvalidCredentials
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, codeUnauthorized
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, codeAlreadyExists
	}
	return http.StatusInternalServerError, codeInternal
}

// handleError writes err as a JSON error. Internal errors are logged and
// their text is not sent to the caller.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			"path", r.URL.Path, "request_id", requestIDFromContext(r.Context()), "error", err)
		respondError(w, status, code, "internal server error")
		return
	}
	respondError(w, status, code, err.Error())
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", common.ErrValidation)
	}
	return nil
}

// decodeOrFail decodes the body and reports a 400 when it is malformed.
func decodeOrFail(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid JSON body")
		return false
	}
	return true
}
