package utils

import (
	"encoding/json"
	"net/http"

	"github.com/futurewise/web-gateway/internal/shared"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK response with optional data
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

// WriteError writes an error response based on the status code
func WriteError(w http.ResponseWriter, status int, message string, details map[string]interface{}) error {
	return WriteJSON(w, status, ErrorResponse{
		Error:   errorCode(status),
		Message: message,
		Details: details,
	})
}

// WriteDomainError maps a DomainError to its HTTP status. Internal and unknown
// errors are reported with a generic message.
func WriteDomainError(w http.ResponseWriter, err error) error {
	details := shared.GetErrorDetails(err)
	if len(details) == 0 {
		details = nil
	}

	switch shared.GetErrorType(err) {
	case shared.ErrorTypeNotFound:
		return WriteError(w, http.StatusNotFound, err.Error(), details)
	case shared.ErrorTypeValidation:
		return WriteError(w, http.StatusBadRequest, err.Error(), details)
	case shared.ErrorTypeUnauthorized:
		return WriteError(w, http.StatusUnauthorized, err.Error(), details)
	case shared.ErrorTypeExternal:
		return WriteError(w, http.StatusBadGateway, err.Error(), details)
	default:
		return WriteError(w, http.StatusInternalServerError, "An internal error occurred", nil)
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadGateway:
		return "bad_gateway"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	default:
		return "internal_error"
	}
}
