package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "INVALID_TOKEN"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
)

// Resource error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes produced by the application services map here so handlers never
// switch on error strings themselves.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	ErrCodeRateLimited: http.StatusTooManyRequests,

	// identity
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_DISABLED":    http.StatusForbidden,
	"EMAIL_TAKEN":         http.StatusConflict,

	// vendors and admin grants
	"VENDOR_NOT_APPROVED": http.StatusForbidden,

	"VENDOR_EXISTS":    http.StatusConflict,
	"SLUG_TAKEN":       http.StatusConflict,
	"ADMIN_EXISTS":     http.StatusConflict,
	"LAST_SUPER_ADMIN": http.StatusUnprocessableEntity,

	// validation raised inside the domain
	"INVALID_INPUT":      http.StatusBadRequest,
	"INVALID_NAME":       http.StatusBadRequest,
	"INVALID_SLUG":       http.StatusBadRequest,
	"INVALID_PRICE":      http.StatusBadRequest,
	"INVALID_QUANTITY":   http.StatusBadRequest,
	"INVALID_AMOUNT":     http.StatusBadRequest,
	"INVALID_CURRENCY":   http.StatusBadRequest,
	"INVALID_TERM":       http.StatusBadRequest,
	"INVALID_EMAIL":      http.StatusBadRequest,
	"INVALID_PASSWORD":   http.StatusBadRequest,
	"INVALID_STORE_NAME": http.StatusBadRequest,
	"INVALID_REFERENCE":  http.StatusBadRequest,

	// bulk import
	"INVALID_IMPORT_FILE": http.StatusBadRequest,

	// business state
	"INVALID_STATE":   http.StatusUnprocessableEntity,
	"CART_EMPTY":      http.StatusUnprocessableEntity,
	"PAYMENT_GATEWAY": http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unknown codes map to 422 so new business rules surface as client
// errors rather than server faults.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
