package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/internal/users"
)

func newTestEngine(t *testing.T, dir sessionauth.UserDirectory) *sessionauth.Engine {
	t.Helper()

	cfg := sessionauth.DefaultConfig()
	cfg.Password = sessionauth.PasswordConfig{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16}

	b := sessionauth.New().
		WithConfig(cfg).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if dir != nil {
		b = b.WithUserDirectory(dir)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, _ := sessionauth.UserIDFromContext(r.Context())
	user, _ := sessionauth.UserFromContext(r.Context())
	_, _ = io.WriteString(w, id+"|"+user.Email)
}

func serve(h http.Handler, path, cookieName, token string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRequireSession(t *testing.T) {
	dir := users.NewMemoryDirectory()
	if err := dir.Add(sessionauth.UserRecord{ID: "u1", Email: "a@b.c"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	engine := newTestEngine(t, dir)
	h := RequireSession(engine)(http.HandlerFunc(echoUser))

	token, err := engine.CreateSession(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		body   string
	}{
		{"excluded path without credentials", "/api/v1/status", "", http.StatusOK, "|"},
		{"no credentials", "/api/v1/users/me", "", http.StatusUnauthorized, `{"error":"Unauthorized"}`},
		{"unknown token", "/api/v1/users/me", "bogus", http.StatusForbidden, `{"error":"Forbidden"}`},
		{"valid session", "/api/v1/users/me", token, http.StatusOK, "u1|a@b.c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, tt.path, engine.CookieName(), tt.token)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tt.body {
				t.Fatalf("body = %q, want %q", got, tt.body)
			}
		})
	}
}

func TestRequireSessionWithoutDirectory(t *testing.T) {
	engine := newTestEngine(t, nil)
	token, _ := engine.CreateSession(context.Background(), "u1")

	w := serve(RequireSession(engine)(http.HandlerFunc(echoUser)), "/api/v1/users/me", engine.CookieName(), token)
	if w.Code != http.StatusOK || w.Body.String() != "u1|" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}

	w = serve(RequireStrict(engine)(http.HandlerFunc(echoUser)), "/api/v1/users/me", engine.CookieName(), token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("strict without directory: got %d", w.Code)
	}
}

func TestRequireSessionDeletedUser(t *testing.T) {
	engine := newTestEngine(t, users.NewMemoryDirectory())
	token, _ := engine.CreateSession(context.Background(), "ghost")

	w := serve(RequireSession(engine)(http.HandlerFunc(echoUser)), "/api/v1/users/me", engine.CookieName(), token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a session whose user is gone, got %d", w.Code)
	}
}

func TestRequireSessionNilEngine(t *testing.T) {
	w := serve(RequireSession(nil)(http.HandlerFunc(echoUser)), "/api/v1/status", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got %d", w.Code)
	}
}

func TestClientIP(t *testing.T) {
	var seen string
	h := ClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = sessionauth.ClientIPFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:51234"
	h.ServeHTTP(httptest.NewRecorder(), r)
	if seen != "192.0.2.10" {
		t.Fatalf("client ip = %q", seen)
	}
}
