package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	ErrCodeValidation  = "ERR_VALIDATION"
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	ErrCodeTooLarge    = "ERR_REQUEST_TOO_LARGE"
)

// Access error codes
const (
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Storefront error codes, reported as raised by the domain
const (
	ErrCodeAddressRequired = "ADDRESS_REQUIRED"
	ErrCodeCartEmpty       = "CART_EMPTY"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeTooLarge:    http.StatusRequestEntityTooLarge,

	ErrCodeForbidden: http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,

	ErrCodeAddressRequired: http.StatusBadRequest,
	ErrCodeCartEmpty:       http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps the generic shared domain codes to API codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND": ErrCodeNotFound,
}

// NormalizeErrorCode converts a generic domain code to its API form.
// Storefront-specific codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
