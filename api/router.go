package api

import (
	"log/slog"
	"net/http"

	"github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Options tunes [NewRouter]. The zero value is usable.
type Options struct {
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	// Logger receives one line per request. Nil disables request logging.
	Logger *slog.Logger
	// TrustProxy makes the client IP come from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
}

// NewRouter returns the HTTP handler for engine.
func NewRouter(engine *sessionauth.Engine, opts Options) http.Handler {
	h := &handlers{engine: engine, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.ClientIP)
	if opts.Logger != nil {
		r.Use(requestLogger(opts.Logger))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireSession(engine))

		r.Get("/status", h.status)
		r.Get("/unauthorized", h.unauthorized)
		r.Get("/forbidden", h.forbidden)
		r.Post("/auth_session/login", h.login)
		r.Delete("/auth_session/logout", h.logout)
		r.Get("/users/me", h.me)
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.LogAttrs(r.Context(), slog.LevelDebug, "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
			)
		})
	}
}
