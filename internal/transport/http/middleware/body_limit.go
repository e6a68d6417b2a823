package middleware

import (
	"net/http"

	"leavedesk/internal/apperror"
	"leavedesk/internal/transport/http/api"
)

var errBodyTooLarge = apperror.New(apperror.CodeInvalidInput, "request body too large", http.StatusRequestEntityTooLarge)

// BodyLimit caps request bodies on write methods. A declared Content-Length
// over the cap is refused up front; otherwise reads past it fail.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
				if r.ContentLength > maxBytes {
					api.FailError(w, r, errBodyTooLarge)
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
