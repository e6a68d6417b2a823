package leavetype

import (
	"net/http"

	"leavedesk/internal/apperror"
)

var (
	ErrMissingFields = apperror.New(
		apperror.CodeMissingFields,
		"please provide name and default allowance",
		http.StatusBadRequest,
	)
	ErrNegativeAllowance = apperror.New(
		apperror.CodeValidation,
		"default allowance cannot be negative",
		http.StatusBadRequest,
	)
	ErrNameTaken = apperror.New(
		apperror.CodeConflict,
		"leave type with this name already exists",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
)
