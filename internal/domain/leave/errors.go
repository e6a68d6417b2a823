package leave

import (
	"net/http"

	"leavedesk/internal/apperror"
)

var (
	ErrMissingFields = apperror.New(
		apperror.CodeMissingFields,
		"missing required field",
		http.StatusBadRequest,
	)
	ErrStartAfterEnd = apperror.New(
		apperror.CodeStartAfterEnd,
		"start date cannot be after end date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidLeaveType,
		"invalid leave type",
		http.StatusNotFound,
	)
	ErrRangeTooLong = apperror.New(
		apperror.CodeValidation,
		"leave date range is too long",
		http.StatusBadRequest,
	)
	ErrNoWorkingDays = apperror.New(
		apperror.CodeNoWorkingDays,
		"no working days selected in the date range based on your schedule",
		http.StatusBadRequest,
	)
	ErrLeaveRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"not authorized to view this leave request",
		http.StatusForbidden,
	)
)
