package flows

import (
	"context"
	"fmt"
)

// LoginCandidate is the flow-local view of one user matched by email.
type LoginCandidate struct {
	UserID       string
	PasswordHash string
}

// LoginOutcome reports which candidate authenticated and the token issued.
type LoginOutcome struct {
	Token  string
	UserID string
	Match  int
}

// LoginMetrics carries metric IDs needed by the login flow.
type LoginMetrics struct {
	LoginSuccess     int
	LoginFailure     int
	LoginRateLimited int
}

// LoginEvents carries audit event names used by the login flow.
type LoginEvents struct {
	LoginSuccess     string
	LoginFailure     string
	LoginRateLimited string
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	EngineNotReady     error
	EmailMissing       error
	PasswordMissing    error
	UserLookupFailed   error
	UserNotFound       error
	InvalidCredentials error
	LoginRateLimited   error
}

// LoginDeps captures login dependencies. Rate hooks are optional; a nil
// hook disables throttling.
type LoginDeps struct {
	ClientIPFromContext func(context.Context) string

	CheckLoginRate     func(context.Context, string, string) error
	IncrementLoginRate func(context.Context, string, string) error
	ResetLoginRate     func(context.Context, string, string) error
	IsRateLimited      func(error) bool

	SearchUsers    func(context.Context, string) ([]LoginCandidate, error)
	VerifyPassword func(string, string) (bool, error)
	CreateSession  func(context.Context, string) (string, error)

	MetricInc func(int)
	EmitAudit func(context.Context, string, bool, string, error, func() map[string]string)
	Warn      func(string, ...any)

	Metrics LoginMetrics
	Events  LoginEvents
	Errors  LoginErrors
}

// RunLogin checks email and password against the directory and opens a
// session for the first matching user.
func RunLogin(ctx context.Context, email, password string, deps LoginDeps) (*LoginOutcome, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, error, func() map[string]string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.ClientIPFromContext == nil {
		deps.ClientIPFromContext = func(context.Context) string { return "" }
	}
	if deps.IsRateLimited == nil {
		deps.IsRateLimited = func(err error) bool { return err != nil }
	}
	if deps.SearchUsers == nil || deps.VerifyPassword == nil || deps.CreateSession == nil {
		return nil, deps.Errors.EngineNotReady
	}

	if email == "" {
		return nil, deps.Errors.EmailMissing
	}
	if password == "" {
		return nil, deps.Errors.PasswordMissing
	}

	ip := deps.ClientIPFromContext(ctx)
	identity := func() map[string]string {
		return map[string]string{"email": email}
	}

	rateLimited := func(userID string) (*LoginOutcome, error) {
		deps.MetricInc(deps.Metrics.LoginRateLimited)
		deps.EmitAudit(ctx, deps.Events.LoginRateLimited, false, userID, deps.Errors.LoginRateLimited, identity)
		return nil, deps.Errors.LoginRateLimited
	}

	// fail records a failed attempt and returns cause unless the attempt
	// exhausted the budget.
	fail := func(userID, reason string, cause error) (*LoginOutcome, error) {
		if deps.IncrementLoginRate != nil {
			if err := deps.IncrementLoginRate(ctx, email, ip); err != nil {
				if deps.IsRateLimited(err) {
					return rateLimited(userID)
				}
				deps.Warn("sessionauth: login attempt counter failed", "err", err)
			}
		}
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, userID, cause, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": reason,
			}
		})
		return nil, cause
	}

	if deps.CheckLoginRate != nil {
		if err := deps.CheckLoginRate(ctx, email, ip); err != nil {
			if deps.IsRateLimited(err) {
				return rateLimited("")
			}
			deps.Warn("sessionauth: login rate check failed", "err", err)
		}
	}

	candidates, err := deps.SearchUsers(ctx, email)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginFailure)
		return nil, fmt.Errorf("%w: %v", deps.Errors.UserLookupFailed, err)
	}
	if len(candidates) == 0 {
		return fail("", "user_not_found", deps.Errors.UserNotFound)
	}

	match := -1
	for i, c := range candidates {
		ok, err := deps.VerifyPassword(password, c.PasswordHash)
		if err != nil {
			deps.Warn("sessionauth: unreadable password hash", "user_id", c.UserID, "err", err)
			continue
		}
		if ok {
			match = i
			break
		}
	}
	password = ""

	if match < 0 {
		return fail(candidates[0].UserID, "password_mismatch", deps.Errors.InvalidCredentials)
	}
	user := candidates[match]

	if deps.ResetLoginRate != nil {
		if err := deps.ResetLoginRate(ctx, email, ip); err != nil {
			deps.Warn("sessionauth: login counter reset failed", "err", err)
		}
	}

	token, err := deps.CreateSession(ctx, user.UserID)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, user.UserID, err, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "session_create_failed",
			}
		})
		return nil, err
	}

	deps.MetricInc(deps.Metrics.LoginSuccess)
	deps.EmitAudit(ctx, deps.Events.LoginSuccess, true, user.UserID, nil, identity)

	return &LoginOutcome{
		Token:  token,
		UserID: user.UserID,
		Match:  match,
	}, nil
}
