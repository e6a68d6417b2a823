package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidInput    = "invalid_input"
	CodeValidation      = "validation_error"
	CodeMissingFields   = "missing_fields"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeInternal        = "internal_error"
	CodeRateLimited     = "rate_limited"
	CodeIdempotencyBusy = "idempotency_in_progress"
	CodeIdempotencyUsed = "idempotency_conflict"

	CodeStartAfterEnd    = "start_after_end"
	CodeNoWorkingDays    = "no_working_days"
	CodeInvalidLeaveType = "invalid_leave_type"
	CodeInvalidRole      = "invalid_role"
	CodeWeakPassword     = "weak_password"
	CodeInvalidLogin     = "invalid_credentials"
)

// AppError is an error that knows how it should be reported to a client.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code so wrapped copies still compare equal to the sentinel.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code && e.HTTPStatus == other.HTTPStatus
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

// From extracts an AppError from err, falling back to ErrInternal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal
}

var (
	ErrNotFound     = New(CodeNotFound, "resource not found", http.StatusNotFound)
	ErrForbidden    = New(CodeForbidden, "you do not have permission to access this resource", http.StatusForbidden)
	ErrUnauthorized = New(CodeUnauthorized, "authentication required", http.StatusUnauthorized)
	ErrInvalidInput = New(CodeInvalidInput, "invalid request payload", http.StatusBadRequest)
	ErrInternal     = New(CodeInternal, "an unexpected error occurred", http.StatusInternalServerError)
)
