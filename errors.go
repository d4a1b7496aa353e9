package sessionauth

import "errors"

var (
	// ErrInvalidUserID is returned when a session is requested for an empty user id.
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrSessionNotFound is the uniform denial for missing, expired, destroyed
	// and unreadable sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCreationFailed is returned when a token cannot be minted or stored.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrBackendUnavailable marks durable backend faults. It is always paired
	// with ErrSessionNotFound through [BackendError].
	ErrBackendUnavailable = errors.New("session backend unavailable")
	// ErrBackendRequired is returned by Build when the persistent strategy has no backend.
	ErrBackendRequired = errors.New("session backend required")
	// ErrUnauthorized is returned when a request carries no credentials at all.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmailMissing is returned by Login for an empty email.
	ErrEmailMissing = errors.New("email missing")
	// ErrPasswordMissing is returned by Login for an empty password.
	ErrPasswordMissing = errors.New("password missing")
	// ErrUserNotFound is returned by Login when no user matches the email.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned by Login when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserLookupFailed is returned when the user directory faults.
	ErrUserLookupFailed = errors.New("user lookup failed")
	// ErrLoginRateLimited is returned when login throttling denies the attempt.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrEngineNotReady is returned by operations that need a dependency the engine was built without.
	ErrEngineNotReady = errors.New("engine not ready")
)

// errSessionExpired lets metrics tell expiry apart from absence. It matches
// ErrSessionNotFound, so callers cannot.
var errSessionExpired = &expiredError{}

type expiredError struct{}

func (*expiredError) Error() string { return ErrSessionNotFound.Error() }

func (*expiredError) Unwrap() error { return ErrSessionNotFound }

// BackendError reports a durable backend fault during Op ("search", "save"
// or "remove"). errors.Is matches it against ErrSessionNotFound,
// ErrBackendUnavailable and the underlying cause.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return "session backend " + e.Op + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() []error {
	return []error{ErrSessionNotFound, ErrBackendUnavailable, e.Err}
}
