package errors

import "net/http"

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & transport errors
// 11000-11999: Session & authentication errors
// 12000-12999: Problem errors
// 13000-13999: Submission errors
// 14000-14999: Event errors

const (
	// ========== System & Transport Errors (10000-10999) ==========

	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	NotFound            ErrorCode = 10003
	Unauthorized        ErrorCode = 10004
	Forbidden           ErrorCode = 10005
	TooManyRequests     ErrorCode = 10006
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008

	// Transport errors (10100-10199)
	NetworkError      ErrorCode = 10100
	MalformedResponse ErrorCode = 10101

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidFormat      ErrorCode = 10301
	RequiredFieldEmpty ErrorCode = 10303

	// ========== Session Errors (11000-11999) ==========

	TokenExpired      ErrorCode = 11003
	TokenInvalid      ErrorCode = 11004
	SessionStoreError ErrorCode = 11010

	// ========== Problem Errors (12000-12999) ==========

	TestCaseInvalid ErrorCode = 12102

	// ========== Submission Errors (13000-13999) ==========

	SubmissionNotFound ErrorCode = 13000

	// ========== Event Errors (14000-14999) ==========

	EventAlreadyActive ErrorCode = 14001
	EventNotActive     ErrorCode = 14002
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	Success:             "Success",
	InternalServerError: "Internal server error",
	NotFound:            "Resource not found",
	Unauthorized:        "Unauthorized access",
	Forbidden:           "Access forbidden",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	NetworkError:      "Backend is unreachable",
	MalformedResponse: "Malformed response from backend",

	ValidationFailed:   "Validation failed",
	InvalidFormat:      "Invalid format",
	RequiredFieldEmpty: "Required field is empty",

	TokenExpired:      "Token has expired",
	TokenInvalid:      "Invalid token",
	SessionStoreError: "Session store operation failed",

	TestCaseInvalid: "Invalid test case files",

	SubmissionNotFound: "Submission not found",

	EventAlreadyActive: "Event is already active",
	EventNotActive:     "Event is not active",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// FromHTTPStatus classifies a backend response status.
// Status 0 means the request never produced a response.
func FromHTTPStatus(status int) ErrorCode {
	switch {
	case status == 0:
		return NetworkError
	case status >= 200 && status < 300:
		return Success
	case status == http.StatusUnauthorized:
		return Unauthorized
	case status == http.StatusForbidden:
		return Forbidden
	case status == http.StatusNotFound:
		return NotFound
	case status == http.StatusBadRequest, status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		return ValidationFailed
	case status == http.StatusTooManyRequests:
		return TooManyRequests
	case status == http.StatusRequestTimeout:
		return Timeout
	case status == http.StatusServiceUnavailable, status == http.StatusBadGateway, status == http.StatusGatewayTimeout:
		return ServiceUnavailable
	default:
		return InternalServerError
	}
}
