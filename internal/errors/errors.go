package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeValidation indicates missing or malformed request input.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeRedirectNotAllowed indicates a redirect URI that failed allow-list validation.
	ErrCodeRedirectNotAllowed ErrorCode = "redirect_not_allowed"
	// ErrCodeUpstreamAuth indicates a provider exchange, signature, or network
	// failure. These are collapsed to one opaque message at the HTTP boundary.
	ErrCodeUpstreamAuth ErrorCode = "upstream_auth"
	// ErrCodeInvalidToken indicates a malformed, expired, or wrongly signed
	// session token. The message is uniform regardless of the exact cause.
	ErrCodeInvalidToken ErrorCode = "invalid_token"
	// ErrCodeUserNotFound indicates the token subject has no user record.
	ErrCodeUserNotFound ErrorCode = "user_not_found"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message. For auth failures this is the
	// public message; underlying detail lives in Cause and is logged only.
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// RedirectNotAllowed creates a new RedirectNotAllowed error.
func RedirectNotAllowed(message string) *AppError {
	return &AppError{
		Code:    ErrCodeRedirectNotAllowed,
		Message: message,
	}
}

// UpstreamAuth creates a new UpstreamAuth error with the public message and
// the underlying provider failure as cause.
func UpstreamAuth(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstreamAuth,
		Message: message,
		Cause:   cause,
	}
}

// InvalidToken creates a new InvalidToken error.
func InvalidToken(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidToken,
		Message: message,
	}
}

// UserNotFound creates a new UserNotFound error.
func UserNotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUserNotFound,
		Message: message,
	}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsRedirectNotAllowed checks if an error is a RedirectNotAllowed error.
func IsRedirectNotAllowed(err error) bool {
	return isCode(err, ErrCodeRedirectNotAllowed)
}

// IsUpstreamAuth checks if an error is an UpstreamAuth error.
func IsUpstreamAuth(err error) bool {
	return isCode(err, ErrCodeUpstreamAuth)
}

// IsInvalidToken checks if an error is an InvalidToken error.
func IsInvalidToken(err error) bool {
	return isCode(err, ErrCodeInvalidToken)
}

// IsUserNotFound checks if an error is a UserNotFound error.
func IsUserNotFound(err error) bool {
	return isCode(err, ErrCodeUserNotFound)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// PublicMessage returns the outward-facing message for an error. Non-AppError
// values collapse to a generic message so internal detail never leaks.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
