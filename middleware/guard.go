package middleware

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/MrEthical07/sessionauth"
)

type guardMode int

const (
	modeSession guardMode = iota
	modeStrict
)

// RequireSession rejects requests to protected paths that carry no valid
// session. Paths on the engine's exclusion list pass through untouched.
//
// No Authorization header and no session cookie gives 401; a credential
// that does not resolve gives 403. On success the user id, and the user
// record when the engine has a directory, are stored in the request context.
func RequireSession(engine *sessionauth.Engine) func(http.Handler) http.Handler {
	return guard(engine, modeSession)
}

func guard(engine *sessionauth.Engine, mode guardMode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !engine.RequireAuth(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if !engine.HasCredentials(r) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, err := engine.CurrentUser(r)
			if err != nil {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}

			ctx := sessionauth.WithUserID(r.Context(), userID)

			user, err := engine.LookupUser(ctx, userID)
			switch {
			case err == nil:
				ctx = sessionauth.WithUser(ctx, user)
			case errors.Is(err, sessionauth.ErrEngineNotReady) && mode != modeStrict:
			default:
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIP stores the request's remote host for throttling and audit. Put
// it after chi's RealIP when running behind a proxy.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		next.ServeHTTP(w, r.WithContext(sessionauth.WithClientIP(r.Context(), ip)))
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
