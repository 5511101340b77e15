// internal/api/error_codes.go
package api

// Machine-readable error codes used in failure envelopes.
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeUpstream   = "UPSTREAM_ERROR"
	ErrCodeRateLimit  = "RATE_LIMITED"
)
