package auth

import (
	"net/http"

	"leavedesk/internal/apperror"
)

var (
	ErrNoToken = apperror.New(
		apperror.CodeUnauthorized,
		"not authorized, no token",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"not authorized, token failed",
		http.StatusUnauthorized,
	)
)
