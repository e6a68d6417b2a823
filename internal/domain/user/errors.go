package user

import (
	"net/http"

	"leavedesk/internal/apperror"
)

var (
	ErrMissingFields = apperror.New(
		apperror.CodeMissingFields,
		"please enter all fields",
		http.StatusBadRequest,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"user with this email already exists",
		http.StatusBadRequest,
	)
	ErrInvalidCredentials = apperror.New(
		apperror.CodeInvalidLogin,
		"invalid email or password",
		http.StatusUnauthorized,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found or is inactive",
		http.StatusNotFound,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidRole,
		"invalid role specified",
		http.StatusBadRequest,
	)
	ErrPasswordEmpty = apperror.New(
		apperror.CodeWeakPassword,
		"password cannot be empty",
		http.StatusBadRequest,
	)
	ErrPasswordWeak = apperror.New(
		apperror.CodeWeakPassword,
		"password must be at least 6 characters long and include at least one uppercase letter, one lowercase letter, one number, and one special character (e.g., !@#$%^&*()_+.)",
		http.StatusBadRequest,
	)
)
