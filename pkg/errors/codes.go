package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeConflict       ErrorCode = "COMMON_004"
	ErrCodeTimeout        ErrorCode = "COMMON_005"
	ErrCodeValidation     ErrorCode = "COMMON_006"
	ErrCodeSerialization  ErrorCode = "COMMON_007"
	ErrCodeDatabaseError  ErrorCode = "COMMON_008"
	ErrCodeCacheError     ErrorCode = "COMMON_009"
	ErrCodeStorageError   ErrorCode = "COMMON_010"
	ErrCodeNotImplemented ErrorCode = "COMMON_011"
)

// Record normalization error codes
const (
	// ErrCodeRecordMissingID is raised when a raw source record carries no
	// identifier and therefore cannot be normalized.
	ErrCodeRecordMissingID     ErrorCode = "REC_001"
	ErrCodeRecordMalformed     ErrorCode = "REC_002"
	ErrCodeRecordUnknownSource ErrorCode = "REC_003"
)

// Equation parsing error codes
const (
	// ErrCodeEquationUnresolved is raised when an equation contains a symbolic
	// or variable coefficient (e.g. "(2n)") that cannot be resolved to a number.
	ErrCodeEquationUnresolved ErrorCode = "EQN_001"
	// ErrCodeEquationUndefinedMet is raised when an equation references a
	// pseudo-metabolite that cannot be resolved to any known metabolite.
	ErrCodeEquationUndefinedMet ErrorCode = "EQN_002"
	ErrCodeEquationMalformed    ErrorCode = "EQN_003"
)

// Universal model error codes
const (
	ErrCodeModelFinalized         ErrorCode = "MDL_001"
	ErrCodeModelMetaboliteMissing ErrorCode = "MDL_002"
	ErrCodeModelReactionMissing   ErrorCode = "MDL_003"
	ErrCodeModelNotFound          ErrorCode = "MDL_004"
)

// Compartment suffix translation error codes
const (
	// ErrCodeSuffixNoMatch signals that an identifier matched no known
	// compartment-suffix convention; the caller receives the input unchanged.
	ErrCodeSuffixNoMatch       ErrorCode = "SFX_001"
	ErrCodeSuffixBadConvention ErrorCode = "SFX_002"
)

// Namespace translation error codes
const (
	ErrCodeXrefBadNamespace ErrorCode = "XRF_001"
	ErrCodeXrefParseError   ErrorCode = "XRF_002"
)

// Data source error codes
const (
	ErrCodeSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeSourceRateLimited ErrorCode = "SRC_002"
	ErrCodeSourceParseError  ErrorCode = "SRC_003"
	ErrCodeSourceBadQuery    ErrorCode = "SRC_004"
)

// Aliases used at call sites throughout the codebase.
const (
	CodeInternal      = ErrCodeInternal
	CodeInvalidParam  = ErrCodeBadRequest
	CodeNotFound      = ErrCodeNotFound
	CodeConflict      = ErrCodeConflict
	CodeUnknown       = ErrorCode("")
	CodeOK            = ErrorCode("OK")
	CodeDatabaseError = ErrCodeDatabaseError
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes for the browse API.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeConflict:       http.StatusConflict,
	ErrCodeTimeout:        http.StatusGatewayTimeout,
	ErrCodeValidation:     http.StatusUnprocessableEntity,
	ErrCodeSerialization:  http.StatusInternalServerError,
	ErrCodeDatabaseError:  http.StatusInternalServerError,
	ErrCodeCacheError:     http.StatusInternalServerError,
	ErrCodeStorageError:   http.StatusInternalServerError,
	ErrCodeNotImplemented: http.StatusNotImplemented,

	ErrCodeRecordMissingID:     http.StatusUnprocessableEntity,
	ErrCodeRecordMalformed:     http.StatusUnprocessableEntity,
	ErrCodeRecordUnknownSource: http.StatusBadRequest,

	ErrCodeEquationUnresolved:   http.StatusUnprocessableEntity,
	ErrCodeEquationUndefinedMet: http.StatusUnprocessableEntity,
	ErrCodeEquationMalformed:    http.StatusUnprocessableEntity,

	ErrCodeModelFinalized:         http.StatusConflict,
	ErrCodeModelMetaboliteMissing: http.StatusNotFound,
	ErrCodeModelReactionMissing:   http.StatusNotFound,
	ErrCodeModelNotFound:          http.StatusNotFound,

	ErrCodeSuffixNoMatch:       http.StatusUnprocessableEntity,
	ErrCodeSuffixBadConvention: http.StatusBadRequest,

	ErrCodeXrefBadNamespace: http.StatusBadRequest,
	ErrCodeXrefParseError:   http.StatusBadGateway,

	ErrCodeSourceUnavailable: http.StatusServiceUnavailable,
	ErrCodeSourceRateLimited: http.StatusTooManyRequests,
	ErrCodeSourceParseError:  http.StatusBadGateway,
	ErrCodeSourceBadQuery:    http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:       "internal error",
	ErrCodeBadRequest:     "bad request",
	ErrCodeNotFound:       "resource not found",
	ErrCodeConflict:       "resource conflict",
	ErrCodeTimeout:        "request timeout",
	ErrCodeValidation:     "validation failed",
	ErrCodeSerialization:  "serialization failed",
	ErrCodeDatabaseError:  "database error",
	ErrCodeCacheError:     "cache error",
	ErrCodeStorageError:   "object storage error",
	ErrCodeNotImplemented: "not implemented",

	ErrCodeRecordMissingID:     "missing identifier",
	ErrCodeRecordMalformed:     "malformed source record",
	ErrCodeRecordUnknownSource: "unknown source",

	ErrCodeEquationUnresolved:   "unresolved stoichiometry",
	ErrCodeEquationUndefinedMet: "undefined metabolite reference",
	ErrCodeEquationMalformed:    "malformed equation",

	ErrCodeModelFinalized:         "universal model already finalized",
	ErrCodeModelMetaboliteMissing: "metabolite not in model",
	ErrCodeModelReactionMissing:   "reaction not in model",
	ErrCodeModelNotFound:          "model not found",

	ErrCodeSuffixNoMatch:       "unrecognized compartment suffix",
	ErrCodeSuffixBadConvention: "unsupported suffix convention",

	ErrCodeXrefBadNamespace: "unknown namespace",
	ErrCodeXrefParseError:   "failed to parse cross-reference table",

	ErrCodeSourceUnavailable: "data source unavailable",
	ErrCodeSourceRateLimited: "data source rate limited",
	ErrCodeSourceParseError:  "failed to parse data source response",
	ErrCodeSourceBadQuery:    "bad data source query",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
