package dto

import (
	"net/http"

	"github.com/fms/backend/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain codes are defined
// in the shared package.
const (
	// ErrCodeInternal is returned for unclassified failures
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeInvalidInput is used for malformed request bodies and parameters
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeRequestTooLarge is used when the body exceeds http.max_body_size
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeRateLimited is used when a client exceeds its request budget
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodeRouteNotFound is used for unknown routes
	ErrCodeRouteNotFound = "ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:  http.StatusInternalServerError,
	shared.CodeStore: http.StatusInternalServerError,

	// Caller mistakes -> 400 Bad Request
	shared.CodeValidation: http.StatusBadRequest,
	ErrCodeInvalidInput:   http.StatusBadRequest,

	// Resource errors
	shared.CodeNotFound:               http.StatusNotFound,
	ErrCodeRouteNotFound:              http.StatusNotFound,
	shared.CodeDocumentNumberConflict: http.StatusConflict,
	shared.CodeAlreadyExists:          http.StatusConflict,
	shared.CodeIdempotencyInFlight:    http.StatusConflict,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	// Mail transport
	shared.CodeMailDeliveryFailed: http.StatusBadGateway,
	shared.CodeMailNotConfigured:  http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientFacing reports whether an error with this code is returned to the
// caller with its own code and message. Other errors become INTERNAL_ERROR.
func IsClientFacing(code string) bool {
	status, ok := ErrorCodeHTTPStatus[code]
	return ok && status != http.StatusInternalServerError
}
