package sessionauth

import (
	"context"
	"fmt"

	"github.com/MrEthical07/sessionauth/session"
)

// PersistentSessionAuth stores expiring sessions in a [session.Backend]
// instead of process memory, so they survive restarts. Token minting and
// the expiry rule come from the wrapped [ExpiringSessionAuth]; its
// in-memory registry is never written.
type PersistentSessionAuth struct {
	expiring *ExpiringSessionAuth
	backend  session.Backend
}

// NewPersistentSessionAuth wraps expiring with backend.
func NewPersistentSessionAuth(expiring *ExpiringSessionAuth, backend session.Backend) *PersistentSessionAuth {
	return &PersistentSessionAuth{
		expiring: expiring,
		backend:  backend,
	}
}

// Kind implements [Strategy].
func (p *PersistentSessionAuth) Kind() AuthType { return AuthTypePersistentSession }

// CreateSession validates userID, mints a token and saves it. Nothing is
// written when validation fails.
func (p *PersistentSessionAuth) CreateSession(ctx context.Context, userID string) (string, error) {
	rec, err := p.expiring.base.issue(userID)
	if err != nil {
		return "", err
	}
	saved, err := p.backend.Save(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSessionCreationFailed, err)
	}
	return saved.Token, nil
}

// UserIDForSession resolves the first stored record for token and applies
// the expiry rule to it.
func (p *PersistentSessionAuth) UserIDForSession(ctx context.Context, token string) (string, error) {
	rec, err := p.first(ctx, token)
	if err != nil {
		return "", err
	}
	if !p.expiring.live(rec.CreatedAt) {
		return "", errSessionExpired
	}
	return rec.UserID, nil
}

// DestroySession removes the first stored record for token, expired or not.
func (p *PersistentSessionAuth) DestroySession(ctx context.Context, token string) error {
	rec, err := p.first(ctx, token)
	if err != nil {
		return err
	}
	if err := p.backend.Remove(ctx, rec); err != nil {
		return &BackendError{Op: "remove", Err: err}
	}
	return nil
}

func (p *PersistentSessionAuth) first(ctx context.Context, token string) (session.Record, error) {
	if token == "" {
		return session.Record{}, ErrSessionNotFound
	}
	recs, err := p.backend.Search(ctx, token)
	if err != nil {
		return session.Record{}, &BackendError{Op: "search", Err: err}
	}
	if len(recs) == 0 || recs[0].UserID == "" {
		return session.Record{}, ErrSessionNotFound
	}
	return recs[0], nil
}
