package middleware

import (
	"net/http"
	"time"
)

// SessionCookie is the cookie carrying the chat session token.
const SessionCookie = "session_token"

// SessionHeader is an alternative token carrier for non-browser clients.
const SessionHeader = "X-Session-Token"

const cookieTTL = 24 * time.Hour

// SessionToken extracts the session token from the cookie, the header, or
// the "token" query parameter (used by the SSE and websocket endpoints,
// where custom headers are unavailable). Returns "" when absent.
func SessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token := r.Header.Get(SessionHeader); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

// SetSessionCookie attaches the session token to the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cookieTTL / time.Second),
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
