package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies business errors so the transport layer can map them
// to status codes without inspecting messages.
type ErrorCode string

const (
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodePrecondition ErrorCode = "PRECONDITION"
	ErrCodeExternal     ErrorCode = "EXTERNAL"
)

// Error is the structured error returned by services and repositories for
// expected failure modes. Unexpected failures travel as wrapped plain errors.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// ConflictingReservationID identifies the colliding booking for CONFLICT errors.
	ConflictingReservationID int32 `json:"conflicting_reservation_id,omitempty"`
	cause                    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(reservationID int32, format string, args ...any) *Error {
	return &Error{
		Code:                     ErrCodeConflict,
		Message:                  fmt.Sprintf(format, args...),
		ConflictingReservationID: reservationID,
	}
}

func NewNotFoundError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewForbiddenError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewPreconditionError(format string, args ...any) *Error {
	return &Error{Code: ErrCodePrecondition, Message: fmt.Sprintf(format, args...)}
}

// NewExternalError wraps a failure from a collaborator service (email,
// document rendering, blob storage).
func NewExternalError(cause error, format string, args ...any) *Error {
	return &Error{Code: ErrCodeExternal, Message: fmt.Sprintf(format, args...), cause: cause}
}

// CodeOf extracts the error code from err, or empty string if err is not a
// domain error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
