package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/eventport/organizer-console/internal/auth"
)

// SessionAuth validates the console session token and places the
// organizer's upstream access token into the request context. Requests
// without a valid session get a 401 and their session cookie cleared,
// which the SPA treats as a logout.
func SessionAuth(sessions *auth.SessionManager, cookieSecure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromRequest(r)
			if err != nil {
				unauthorized(w, r, cookieSecure, err)
				return
			}

			claims, err := sessions.Validate(token)
			if err != nil {
				unauthorized(w, r, cookieSecure, err)
				return
			}

			ctx := auth.WithAccessToken(r.Context(), claims.AccessToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, cookieSecure bool, err error) {
	zerolog.Ctx(r.Context()).Warn().
		Err(err).
		Str("path", r.URL.Path).
		Msg("session rejected")

	auth.ClearSessionCookie(w, cookieSecure)
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"type":"https://console.eventport.example/problems/unauthorized","title":"Session expired or invalid","status":401}`))
}
