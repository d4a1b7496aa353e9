package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MrEthical07/sessionauth"
)

type handlers struct {
	engine *sessionauth.Engine
	logger *slog.Logger
}

func (h *handlers) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *handlers) unauthorized(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}

func (h *handlers) forbidden(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusForbidden, "Forbidden")
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	if strings.TrimSpace(email) == "" {
		writeError(w, http.StatusBadRequest, "email missing")
		return
	}
	password := r.PostFormValue("password")
	if strings.TrimSpace(password) == "" {
		writeError(w, http.StatusBadRequest, "password missing")
		return
	}

	result, err := h.engine.Login(r.Context(), email, password)
	if err != nil {
		h.loginError(w, r, err)
		return
	}

	if h.engine.Kind() == sessionauth.AuthTypeBearer {
		writeJSON(w, http.StatusOK, struct {
			AccessToken string                 `json:"access_token"`
			User        sessionauth.UserRecord `json:"user"`
		}{result.Token, result.User})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.engine.CookieName(),
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.engine.CookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, result.User)
}

func (h *handlers) loginError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sessionauth.ErrEmailMissing):
		writeError(w, http.StatusBadRequest, "email missing")
	case errors.Is(err, sessionauth.ErrPasswordMissing):
		writeError(w, http.StatusBadRequest, "password missing")
	case errors.Is(err, sessionauth.ErrUserNotFound), errors.Is(err, sessionauth.ErrUserLookupFailed):
		writeError(w, http.StatusNotFound, "no user found for this email")
	case errors.Is(err, sessionauth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "wrong password")
	case errors.Is(err, sessionauth.ErrLoginRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
	default:
		if h.logger != nil {
			h.logger.ErrorContext(r.Context(), "login failed", slog.Any("err", err))
		}
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Logout(r); err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.engine.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.engine.CookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	if user, ok := sessionauth.UserFromContext(r.Context()); ok {
		writeJSON(w, http.StatusOK, user)
		return
	}
	if id, ok := sessionauth.UserIDFromContext(r.Context()); ok {
		writeJSON(w, http.StatusOK, sessionauth.UserRecord{ID: id})
		return
	}
	writeError(w, http.StatusNotFound, "Not found")
}
