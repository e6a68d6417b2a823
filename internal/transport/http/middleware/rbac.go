package middleware

import (
	"context"
	"fmt"
	"net/http"

	"leavedesk/internal/apperror"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/transport/http/api"
)

type PermissionStore interface {
	HasPermission(ctx context.Context, role, permission string) (bool, error)
}

func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.FailError(w, r, auth.ErrNoToken)
				return
			}

			allowed, err := store.HasPermission(r.Context(), user.RoleName, permission)
			if err != nil {
				api.FailError(w, r, fmt.Errorf("permission check: %w", err))
				return
			}
			if !allowed {
				api.FailError(w, r, apperror.New(
					apperror.CodeForbidden,
					fmt.Sprintf("role (%s) is not authorized to access this resource", user.RoleName),
					http.StatusForbidden,
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
