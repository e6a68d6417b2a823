package server

import (
	"net/http"

	"leavedesk/internal/apperror"
)

var errRouteNotFound = apperror.New(apperror.CodeNotFound, "route not found", http.StatusNotFound)
