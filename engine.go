package sessionauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MrEthical07/sessionauth/internal/flows"
	"github.com/MrEthical07/sessionauth/internal/rate"
	"github.com/MrEthical07/sessionauth/password"
	"github.com/thejerf/abtime"
)

// Engine is the composed authentication surface: path policy, token
// extraction and the configured [Strategy], wrapped with metrics, audit
// and logging.
//
// An Engine is built once by [Builder.Build] and is safe for concurrent use.
type Engine struct {
	config   Config
	strategy Strategy
	users    UserDirectory
	hasher   *password.Argon2
	limiter  *rate.Limiter
	audit    *auditDispatcher
	metrics  *Metrics
	logger   *slog.Logger
	clock    abtime.AbstractTime
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped on a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Kind returns the strategy the engine was built with.
func (e *Engine) Kind() AuthType { return e.strategy.Kind() }

// CookieName returns the session cookie name.
func (e *Engine) CookieName() string { return e.config.Session.CookieName }

// CookieSecure reports whether session cookies should carry the Secure flag.
func (e *Engine) CookieSecure() bool { return e.config.Session.CookieSecure }

// RequireAuth reports whether path needs authentication under the
// configured exclusion list.
func (e *Engine) RequireAuth(path string) bool {
	required := RequireAuth(path, e.config.Paths.Excluded)
	if required {
		e.metricInc(MetricAuthRequired)
	} else {
		e.metricInc(MetricAuthExempt)
	}
	return required
}

// AuthorizationHeader returns the request's raw Authorization header.
func (e *Engine) AuthorizationHeader(r *http.Request) string {
	return AuthorizationHeader(r)
}

// SessionCookie returns the value of the configured session cookie.
func (e *Engine) SessionCookie(r *http.Request) string {
	return SessionCookie(r, e.config.Session.CookieName)
}

// HasCredentials reports whether r carries an Authorization header or a
// session cookie, whether or not either is valid.
func (e *Engine) HasCredentials(r *http.Request) bool {
	return e.AuthorizationHeader(r) != "" || e.SessionCookie(r) != ""
}

// Token returns the credential the strategy reads: the bearer token for
// [AuthTypeBearer], the session cookie otherwise.
func (e *Engine) Token(r *http.Request) string {
	if e.strategy.Kind() == AuthTypeBearer {
		token, _ := BearerToken(e.AuthorizationHeader(r))
		return token
	}
	return e.SessionCookie(r)
}

// CreateSession opens a session for userID and returns its token.
func (e *Engine) CreateSession(ctx context.Context, userID string) (string, error) {
	token, err := e.strategy.CreateSession(ctx, userID)
	if err != nil {
		e.metricInc(MetricSessionCreateRejected)
		if !errors.Is(err, ErrInvalidUserID) {
			if e.strategy.Kind() == AuthTypePersistentSession {
				e.metricInc(MetricBackendFault)
			}
			e.logger.WarnContext(ctx, "session create failed", "strategy", e.strategy.Kind(), "err", err)
		}
		e.emitAudit(ctx, AuditSessionRejected, false, userID, err, nil)
		return "", err
	}

	e.metricInc(MetricSessionCreated)
	e.logger.DebugContext(ctx, "session created", "strategy", e.strategy.Kind(), "user_id", userID)
	e.emitAudit(ctx, AuditSessionCreated, true, userID, nil, nil)
	return token, nil
}

// ResolveSession returns the user id behind token. Every failure matches
// ErrSessionNotFound.
func (e *Engine) ResolveSession(ctx context.Context, token string) (string, error) {
	start := time.Now()
	userID, err := e.strategy.UserIDForSession(ctx, token)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricResolveLatency, time.Since(start))
	}

	if err != nil {
		e.recordMiss(ctx, "search", err, MetricSessionResolveMiss)
		return "", err
	}

	e.metricInc(MetricSessionResolved)
	return userID, nil
}

// EndSession destroys the session behind token.
func (e *Engine) EndSession(ctx context.Context, token string) error {
	userID, _ := e.strategy.UserIDForSession(ctx, token)

	if err := e.strategy.DestroySession(ctx, token); err != nil {
		e.recordMiss(ctx, "destroy", err, MetricSessionDestroyMiss)
		e.emitAudit(ctx, AuditDestroyMiss, false, userID, err, nil)
		return err
	}

	e.metricInc(MetricSessionDestroyed)
	e.logger.DebugContext(ctx, "session destroyed", "strategy", e.strategy.Kind(), "user_id", userID)
	e.emitAudit(ctx, AuditSessionDestroyed, true, userID, nil, nil)
	return nil
}

// CurrentUser resolves the request's credential to a user id.
func (e *Engine) CurrentUser(r *http.Request) (string, error) {
	if r == nil {
		return "", ErrSessionNotFound
	}
	return e.ResolveSession(r.Context(), e.Token(r))
}

// DestroySession ends the session carried by r.
func (e *Engine) DestroySession(r *http.Request) error {
	if r == nil {
		return ErrSessionNotFound
	}
	return e.EndSession(r.Context(), e.Token(r))
}

// Logout is DestroySession.
func (e *Engine) Logout(r *http.Request) error {
	return e.DestroySession(r)
}

// LookupUser loads a user record from the directory.
func (e *Engine) LookupUser(ctx context.Context, userID string) (UserRecord, error) {
	if e.users == nil {
		return UserRecord{}, ErrEngineNotReady
	}
	return e.users.Get(ctx, userID)
}

// Login checks email and password against the user directory and opens a
// session for the first user whose password matches.
func (e *Engine) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var matched []UserRecord

	deps := flows.LoginDeps{
		ClientIPFromContext: ClientIPFromContext,
		SearchUsers: func(ctx context.Context, email string) ([]flows.LoginCandidate, error) {
			if e.users == nil {
				return nil, ErrEngineNotReady
			}
			users, err := e.users.Search(ctx, email)
			if err != nil {
				return nil, err
			}
			matched = users
			out := make([]flows.LoginCandidate, len(users))
			for i, u := range users {
				out[i] = flows.LoginCandidate{UserID: u.ID, PasswordHash: u.PasswordHash}
			}
			return out, nil
		},
		CreateSession: e.CreateSession,
		MetricInc:     func(id int) { e.metricInc(MetricID(id)) },
		EmitAudit: func(ctx context.Context, event string, success bool, userID string, err error, metadata func() map[string]string) {
			e.emitAudit(ctx, event, success, userID, err, metadata)
		},
		Warn: func(msg string, args ...any) { e.logger.WarnContext(ctx, msg, args...) },
		Metrics: flows.LoginMetrics{
			LoginSuccess:     int(MetricLoginSuccess),
			LoginFailure:     int(MetricLoginFailure),
			LoginRateLimited: int(MetricLoginRateLimited),
		},
		Events: flows.LoginEvents{
			LoginSuccess:     AuditLoginSuccess,
			LoginFailure:     AuditLoginFailure,
			LoginRateLimited: AuditLoginRateLimited,
		},
		Errors: flows.LoginErrors{
			EngineNotReady:     ErrEngineNotReady,
			EmailMissing:       ErrEmailMissing,
			PasswordMissing:    ErrPasswordMissing,
			UserLookupFailed:   ErrUserLookupFailed,
			UserNotFound:       ErrUserNotFound,
			InvalidCredentials: ErrInvalidCredentials,
			LoginRateLimited:   ErrLoginRateLimited,
		},
	}
	if e.hasher != nil {
		deps.VerifyPassword = e.hasher.Verify
	}
	if e.limiter != nil {
		deps.CheckLoginRate = e.limiter.CheckLogin
		deps.IncrementLoginRate = e.limiter.IncrementLogin
		deps.ResetLoginRate = e.limiter.ResetLogin
		deps.IsRateLimited = func(err error) bool { return errors.Is(err, rate.ErrRateLimited) }
	}

	out, err := flows.RunLogin(ctx, email, password, deps)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token: out.Token,
		User:  matched[out.Match],
	}, nil
}

// HashPassword hashes a password with the engine's argon2 parameters.
func (e *Engine) HashPassword(plain string) (string, error) {
	if e.hasher == nil {
		return "", ErrEngineNotReady
	}
	return e.hasher.Hash(plain)
}

func (e *Engine) recordMiss(ctx context.Context, op string, err error, miss MetricID) {
	var backendErr *BackendError
	switch {
	case errors.As(err, &backendErr):
		e.metricInc(MetricBackendFault)
		e.logger.WarnContext(ctx, "session backend fault", "op", backendErr.Op, "err", backendErr.Err)
		e.emitAudit(ctx, AuditBackendFault, false, "", err, func() map[string]string {
			return map[string]string{"op": backendErr.Op}
		})
	case errors.Is(err, errSessionExpired):
		e.metricInc(MetricSessionExpired)
		e.logger.DebugContext(ctx, "session expired", "op", op)
	default:
		e.metricInc(miss)
	}
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, userID string, err error, metadata func() map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: e.clock.Now().UTC(),
		EventType: eventType,
		Strategy:  e.strategy.Kind(),
		UserID:    userID,
		IP:        ClientIPFromContext(ctx),
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}
	e.audit.Emit(ctx, event)
}
