package sessionauth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthorizationHeader(t *testing.T) {
	if got := AuthorizationHeader(nil); got != "" {
		t.Fatalf("nil request: got %q", got)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := AuthorizationHeader(r); got != "" {
		t.Fatalf("absent header: got %q", got)
	}

	r.Header.Set("Authorization", "Bearer abc")
	if got := AuthorizationHeader(r); got != "Bearer abc" {
		t.Fatalf("got %q", got)
	}
}

func TestSessionCookie(t *testing.T) {
	if got := SessionCookie(nil, ""); got != "" {
		t.Fatalf("nil request: got %q", got)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := SessionCookie(r, ""); got != "" {
		t.Fatalf("absent cookie: got %q", got)
	}

	r.AddCookie(&http.Cookie{Name: DefaultSessionName, Value: "tok-default"})
	r.AddCookie(&http.Cookie{Name: "custom", Value: "tok-custom"})

	if got := SessionCookie(r, ""); got != "tok-default" {
		t.Fatalf("default name: got %q", got)
	}
	if got := SessionCookie(r, "custom"); got != "tok-custom" {
		t.Fatalf("custom name: got %q", got)
	}
	if got := SessionCookie(r, "other"); got != "" {
		t.Fatalf("unknown name: got %q", got)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := BearerToken(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("BearerToken(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
