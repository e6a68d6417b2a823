package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"leavedesk/internal/platform/i18n"
	"leavedesk/internal/requestctx"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags each request with the caller's X-Request-ID when it looks
// sane, or a fresh UUID, and echoes it back in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), id)))
	})
}

// Locale negotiates the response language from Accept-Language.
func Locale(translator *i18n.Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if translator == nil {
				next.ServeHTTP(w, r)
				return
			}
			locale := translator.Negotiate(r.Header.Get("Accept-Language"))
			w.Header().Set("Content-Language", locale)
			ctx := requestctx.WithLocale(r.Context(), locale)
			ctx = i18n.WithTranslator(ctx, translator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
