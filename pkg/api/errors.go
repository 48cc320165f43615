package api

import (
	"errors"
	"net/http"

	"github.com/shoplens/shoplens/pkg/reports"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// mapError translates application errors to HTTP status codes and the
// error envelope. Out-of-range pagination never reaches here: it is a
// defined empty result, not an error.
func mapError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, reports.ErrInvalidArgument):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Code:    "invalid_argument",
			Message: err.Error(),
		}
	case errors.Is(err, reports.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Code:    "resource_not_found",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_server_error",
			Code:    "storage_failure",
			Message: "an unexpected error occurred",
		}
	}
}
