package middleware

import (
	"context"
	"net/http"
	"strings"

	"leavedesk/internal/apperror"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/transport/http/api"
)

// UserLoader resolves a token subject into the caller's current record.
type UserLoader interface {
	LoadCaller(ctx context.Context, userID string) (auth.UserContext, error)
}

// Auth attaches the caller to the request context when a bearer token is
// present. Requests without a token pass through untouched; a token that
// fails verification, or names an unknown or inactive user, is rejected.
// With a nil loader the context is built from the token claims alone.
func Auth(secret string, loader UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				api.FailError(w, r, auth.ErrInvalidToken)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				api.FailError(w, r, auth.ErrInvalidToken)
				return
			}

			user := auth.UserContext{UserID: claims.UserID, RoleName: claims.RoleName}
			if loader != nil {
				user, err = loader.LoadCaller(r.Context(), claims.UserID)
				if err != nil {
					if apperror.From(err).HTTPStatus == http.StatusNotFound {
						err = auth.ErrInvalidToken
					}
					api.FailError(w, r, err)
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAuth rejects requests that Auth did not attach a user to.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.FailError(w, r, auth.ErrNoToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}
