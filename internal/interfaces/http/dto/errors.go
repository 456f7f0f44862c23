package dto

import (
	"net/http"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
)

// Transport-level error codes. Domain codes live in shared/errors.go and pass
// through the envelope unchanged.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL"
	// ErrCodeBadRequest is used for malformed requests and binding failures
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:          http.StatusBadRequest,
	shared.CodeInvalidTransition:   http.StatusUnprocessableEntity,
	shared.CodeNotEditable:         http.StatusUnprocessableEntity,
	shared.CodeNotDeletable:        http.StatusUnprocessableEntity,
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeConflict:            http.StatusConflict,
	shared.CodeUpstreamUnavailable: http.StatusServiceUnavailable,

	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
