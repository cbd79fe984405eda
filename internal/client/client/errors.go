package client

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
)

// APIError is a non-2xx response of the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// Is maps the status code onto the sentinels of package common.
func (e *APIError) Is(target error) bool {
	switch target {
	case common.ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case common.ErrNotFound:
		return e.Status == http.StatusNotFound
	case common.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case common.ErrServer:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}
