// Package auth manages the console session: a signed JWT wrapping the
// organizer's upstream access token, carried in a cookie. The console
// itself has no user store; identity lives on the platform.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName carries the console session token.
const SessionCookieName = "organizer_session"

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// SessionClaims is the console session payload. AccessToken is the
// organizer's upstream platform token.
type SessionClaims struct {
	AccessToken string `json:"access_token"`
	jwt.RegisteredClaims
}

// SessionManager signs and verifies console session tokens.
type SessionManager struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewSessionManager(secret string, expiry time.Duration, issuer string) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}
}

// Issue signs a session token for the given organizer carrying their
// upstream access token.
func (m *SessionManager) Issue(subject, accessToken string) (string, error) {
	if subject == "" || accessToken == "" {
		return "", ErrInvalidToken
	}

	now := time.Now()
	claims := &SessionClaims{
		AccessToken: accessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and verifies a session token. Expired or tampered
// tokens fail; the caller treats that the same as a platform auth
// failure and tears the session down.
func (m *SessionManager) Validate(tokenString string) (*SessionClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenFromRequest extracts the session token from the session cookie,
// falling back to a bearer Authorization header.
func TokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// ClearSessionCookie expires the session cookie: the server-side half of
// session teardown.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type contextKey string

const accessTokenKey contextKey = "access_token"

// WithAccessToken stores the upstream access token in the context.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

// AccessTokenFromContext retrieves the upstream access token placed in
// the context by the session middleware.
func AccessTokenFromContext(ctx context.Context) (string, error) {
	token, ok := ctx.Value(accessTokenKey).(string)
	if !ok || token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
