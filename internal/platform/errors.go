package platform

import (
	"errors"
	"fmt"
)

// Code classifies adapter errors so callers can react without string matching.
type Code string

const (
	CodeUnknown          Code = "unknown"
	CodeInvalidArgument  Code = "invalid_argument"
	CodeNetwork          Code = "network_error"
	CodeAuthentication   Code = "authentication_failed"
	CodeNotFound         Code = "not_found"
	CodePermissionDenied Code = "permission_denied"
	CodeTimeout          Code = "timeout"
	CodeInvalidState     Code = "invalid_state"
	CodeUnsupported      Code = "unsupported"
	CodeRateLimited      Code = "rate_limited"
)

// Error is the error type returned by adapters. It carries a Code for
// programmatic handling plus optional transport details for debugging.
type Error struct {
	Code    Code
	Message string

	// PlatformErrorID is the backend's own error identifier, when the
	// backend reports one (e.g. "api.user.login.invalid_credentials").
	PlatformErrorID string

	// RequestID is the server-assigned request identifier, when present.
	RequestID string

	// HTTPStatus is the HTTP status code, when the error came from an
	// HTTP response.
	HTTPStatus int

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Code, so callers can write
// errors.Is(err, &platform.Error{Code: platform.CodeNotFound}).
func (e *Error) Is(target error) bool {
	var pe *Error
	if !errors.As(target, &pe) {
		return false
	}
	return pe.Code == e.Code
}

// NewError creates an Error with the given code and message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates an Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error wrapping an underlying cause.
func WrapError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the Code from err, or CodeUnknown if err is not an *Error.
func CodeOf(err error) Code {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == code
}

// ErrUnsupported creates the error adapters return for operations the
// backend does not support. Check Capabilities before calling such
// operations.
func ErrUnsupported(op string) *Error {
	return Errorf(CodeUnsupported, "%s not supported by this platform", op)
}
