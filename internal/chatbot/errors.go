package chatbot

import "net/http"

// Code classifies a chatbot failure for HTTP status mapping.
type Code string

const (
	CodeValidationFailed    Code = "VALIDATION_FAILED"
	CodeNotFound            Code = "NOT_FOUND"
	CodeAmbiguous           Code = "AMBIGUOUS"
	CodeMembershipRequired  Code = "MEMBERSHIP_REQUIRED"
	CodePermissionDenied    Code = "PERMISSION_DENIED"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeInternal            Code = "INTERNAL_ERROR"
)

// Error is a chatbot failure with a user-facing message. The message is
// what the caller sees as the reply text, so it must stay presentable;
// anything internal goes in the wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.cause.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus maps the code to the status returned to the caller.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidationFailed:
		return http.StatusUnprocessableEntity
	case CodeNotFound, CodeAmbiguous:
		return http.StatusNotFound
	case CodeMembershipRequired, CodePermissionDenied:
		return http.StatusForbidden
	case CodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationFailed(msg string) *Error {
	return &Error{Code: CodeValidationFailed, Message: msg}
}

func NewNotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NewAmbiguous(msg string) *Error {
	return &Error{Code: CodeAmbiguous, Message: msg}
}

func NewMembershipRequired(msg string) *Error {
	return &Error{Code: CodeMembershipRequired, Message: msg}
}

func NewPermissionDenied(msg string) *Error {
	return &Error{Code: CodePermissionDenied, Message: msg}
}

func NewUpstreamUnavailable(msg string, cause error) *Error {
	return &Error{Code: CodeUpstreamUnavailable, Message: msg, cause: cause}
}

func NewInternal(cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: "Sorry, an internal error occurred. Please try again later.",
		cause:   cause,
	}
}
