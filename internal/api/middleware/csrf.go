package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFProtection wraps the console's cookie-authenticated routes with
// double-submit CSRF validation. The SPA reads the token from the
// X-CSRF-Token response header on the read-model fetch and echoes it
// back on submits.
func CSRFProtection(authKey []byte, secure bool) func(http.Handler) http.Handler {
	opts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	}

	return csrf.Protect(authKey, opts...)
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"type":"https://console.eventport.example/problems/csrf-failure","title":"CSRF token validation failed","status":403}`))
}

// CSRFToken extracts the per-request CSRF token so handlers can expose
// it to the SPA.
func CSRFToken(r *http.Request) string {
	return csrf.Token(r)
}
