package sessionauth

import (
	"context"
	"time"
)

// ExpiringSessionAuth adds a fixed lifetime to [SessionAuth]. Expired
// sessions stay in the registry and are treated as absent; nothing sweeps
// them.
type ExpiringSessionAuth struct {
	base   *SessionAuth
	ttl    time.Duration
	policy TTLPolicy
}

// NewExpiringSessionAuth wraps base. ttl is fixed for the strategy's
// lifetime; policy decides what a ttl <= 0 means.
func NewExpiringSessionAuth(base *SessionAuth, ttl time.Duration, policy TTLPolicy) *ExpiringSessionAuth {
	return &ExpiringSessionAuth{
		base:   base,
		ttl:    ttl,
		policy: policy,
	}
}

// Kind implements [Strategy].
func (e *ExpiringSessionAuth) Kind() AuthType { return AuthTypeExpiringSession }

// TTL returns the configured session lifetime.
func (e *ExpiringSessionAuth) TTL() time.Duration { return e.ttl }

// CreateSession delegates to the wrapped strategy.
func (e *ExpiringSessionAuth) CreateSession(ctx context.Context, userID string) (string, error) {
	return e.base.CreateSession(ctx, userID)
}

// UserIDForSession resolves token and rejects it once its lifetime has
// passed. A session is still valid at exactly CreatedAt+TTL.
func (e *ExpiringSessionAuth) UserIDForSession(_ context.Context, token string) (string, error) {
	rec, err := e.base.lookup(token)
	if err != nil {
		return "", err
	}
	if !e.live(rec.CreatedAt) {
		return "", errSessionExpired
	}
	return rec.UserID, nil
}

// DestroySession removes a live session. An expired one is left in place
// and reported as not found.
func (e *ExpiringSessionAuth) DestroySession(ctx context.Context, token string) error {
	if _, err := e.UserIDForSession(ctx, token); err != nil {
		return err
	}
	return e.base.DestroySession(ctx, token)
}

func (e *ExpiringSessionAuth) live(createdAt time.Time) bool {
	if e.ttl <= 0 {
		return e.policy == TTLNeverExpires
	}
	return !e.base.clock.Now().After(createdAt.Add(e.ttl))
}
