package middleware

import (
	"net/http"
	"strings"

	"github.com/dukerupert/larder/internal/auth"
)

// SessionCookieName is the cookie carrying the web session token.
const SessionCookieName = "larder_session"

// RequireAuth resolves the caller from either an Authorization bearer API
// key or the session cookie, and populates the AuthContext. API keys win
// when both are present (the REST client is explicit about its identity).
func RequireAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := bearerToken(r); key != "" {
				user, err := svc.ResolveAPIKey(key)
				if err != nil {
					unauthorized(w)
					return
				}
				ac := auth.AuthContext{
					UserID:   user.ID,
					Username: user.Username,
					Email:    user.Email,
					Via:      auth.ViaAPIKey,
				}
				next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
				return
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}
			user, sess, err := svc.ResolveSession(cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}
			ac := auth.AuthContext{
				UserID:    user.ID,
				Username:  user.Username,
				Email:     user.Email,
				Via:       auth.ViaSession,
				SessionID: sess.ID,
			}
			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}
