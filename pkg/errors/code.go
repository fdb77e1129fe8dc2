package errors

import "net/http"

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Transport errors
// 11000-11999: Session & Auth errors
// 12000-12999: Problem & Language catalog errors
// 13000-13999: Submission & Tracking errors
// 14000-14999: PQRS errors
// 15000-15999: Admin & Permission errors

const (
	// ========== System & Transport Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalError ErrorCode = 10001
	InvalidParams ErrorCode = 10002
	NotFound      ErrorCode = 10003
	Unauthorized  ErrorCode = 10004
	Forbidden     ErrorCode = 10005
	Timeout       ErrorCode = 10006

	// Transport errors (10100-10199)
	TransportFailed    ErrorCode = 10100
	MalformedResponse  ErrorCode = 10101
	ServiceUnreachable ErrorCode = 10102

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	RequiredFieldEmpty ErrorCode = 10301

	// Config errors (10400-10499)
	ConfigLoadFailed ErrorCode = 10400
	ConfigInvalid    ErrorCode = 10401

	// ========== Session & Auth Errors (11000-11999) ==========

	TokenMissing      ErrorCode = 11000
	TokenInvalid      ErrorCode = 11001
	TokenExpired      ErrorCode = 11002
	NoTokenReceived   ErrorCode = 11003
	SignInFailed      ErrorCode = 11100
	SignUpFailed      ErrorCode = 11101
	VerifyFailed      ErrorCode = 11102
	SessionLoadFailed ErrorCode = 11200
	SessionSaveFailed ErrorCode = 11201

	// ========== Problem & Language Errors (12000-12999) ==========

	ProblemNotFound      ErrorCode = 12000
	ProblemListFailed    ErrorCode = 12001
	ProblemSaveFailed    ErrorCode = 12002
	ProblemDeleteFailed  ErrorCode = 12003
	LanguageNotSupported ErrorCode = 12100
	CatalogUnavailable   ErrorCode = 12101

	// ========== Submission & Tracking Errors (13000-13999) ==========

	InvalidSubmissionID  ErrorCode = 13000
	SubmissionNotFound   ErrorCode = 13001
	SubmissionRejected   ErrorCode = 13002
	SubmissionListFailed ErrorCode = 13003
	TrackingStopped      ErrorCode = 13100

	// ========== PQRS Errors (14000-14999) ==========

	PQRSNotFound           ErrorCode = 14000
	PQRSCreateFailed       ErrorCode = 14001
	PQRSStatusUpdateFailed ErrorCode = 14002
	PQRSHistoryFailed      ErrorCode = 14003
	PQRSStatsFailed        ErrorCode = 14004
	CategoryListFailed     ErrorCode = 14100
	StateListFailed        ErrorCode = 14101

	// ========== Admin & Permission Errors (15000-15999) ==========

	PermissionDenied ErrorCode = 15000
	RoleRequired     ErrorCode = 15001
	UserNotFound     ErrorCode = 15100
	UserUpdateFailed ErrorCode = 15101
	UserDeleteFailed ErrorCode = 15102
	RoleChangeFailed ErrorCode = 15103
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Transport
	Success:            "Success",
	InternalError:      "Internal client error",
	InvalidParams:      "Invalid parameters",
	NotFound:           "Resource not found",
	Unauthorized:       "Unauthorized access",
	Forbidden:          "Access forbidden",
	Timeout:            "Request timed out",
	TransportFailed:    "Request failed",
	MalformedResponse:  "Malformed response from server",
	ServiceUnreachable: "Service is unreachable",

	// Validation
	ValidationFailed:   "Validation failed",
	RequiredFieldEmpty: "Required field is empty",

	// Config
	ConfigLoadFailed: "Failed to load configuration",
	ConfigInvalid:    "Invalid configuration",

	// Session & Auth
	TokenMissing:      "No authentication token stored",
	TokenInvalid:      "Invalid token",
	TokenExpired:      "Token has expired",
	NoTokenReceived:   "No valid token received",
	SignInFailed:      "Sign in failed",
	SignUpFailed:      "Sign up failed",
	VerifyFailed:      "Token verification failed",
	SessionLoadFailed: "Failed to load session state",
	SessionSaveFailed: "Failed to save session state",

	// Problems & Languages
	ProblemNotFound:      "Problem not found",
	ProblemListFailed:    "Failed to list problems",
	ProblemSaveFailed:    "Failed to save problem",
	ProblemDeleteFailed:  "Failed to delete problem",
	LanguageNotSupported: "Programming language not supported",
	CatalogUnavailable:   "Language catalog unavailable",

	// Submissions & Tracking
	InvalidSubmissionID:  "Submission identifier not specified",
	SubmissionNotFound:   "Submission not found",
	SubmissionRejected:   "Submission was rejected",
	SubmissionListFailed: "Failed to list submissions",
	TrackingStopped:      "Tracking was stopped",

	// PQRS
	PQRSNotFound:           "PQRS ticket not found",
	PQRSCreateFailed:       "Failed to create PQRS ticket",
	PQRSStatusUpdateFailed: "Failed to update PQRS status",
	PQRSHistoryFailed:      "Failed to fetch PQRS history",
	PQRSStatsFailed:        "Failed to fetch PQRS statistics",
	CategoryListFailed:     "Failed to load categories",
	StateListFailed:        "Failed to load states",

	// Admin & Permission
	PermissionDenied: "Permission denied",
	RoleRequired:     "This command requires a privileged role",
	UserNotFound:     "User not found",
	UserUpdateFailed: "Failed to update user",
	UserDeleteFailed: "Failed to delete user",
	RoleChangeFailed: "Failed to change user role",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// FromHTTPStatus maps a non-2xx backend status to a client error code.
// notFound is used for 404 so callers can pick a resource-specific code.
func FromHTTPStatus(status int, notFound ErrorCode) ErrorCode {
	switch {
	case status == http.StatusNotFound:
		return notFound
	case status == http.StatusUnauthorized:
		return Unauthorized
	case status == http.StatusForbidden:
		return Forbidden
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return Timeout
	case status >= 400 && status < 500:
		return ValidationFailed
	default:
		return TransportFailed
	}
}
