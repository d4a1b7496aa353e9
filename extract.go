package sessionauth

import (
	"net/http"
	"strings"
)

// AuthorizationHeader returns the raw Authorization header, or "" when r is
// nil or the header is absent.
func AuthorizationHeader(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get("Authorization")
}

// SessionCookie returns the value of the named cookie, or "" when r is nil
// or the cookie is absent. An empty name means [DefaultSessionName].
func SessionCookie(r *http.Request, name string) string {
	if r == nil {
		return ""
	}
	if name == "" {
		name = DefaultSessionName
	}
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
