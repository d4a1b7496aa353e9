package sessionauth

import (
	"context"
	"fmt"

	"github.com/MrEthical07/sessionauth/internal"
	"github.com/MrEthical07/sessionauth/session"
	"github.com/thejerf/abtime"
)

// SessionAuth keeps sessions in a process-local registry. Sessions never
// expire and are lost when the process exits.
type SessionAuth struct {
	registry *session.MemoryRegistry
	clock    abtime.AbstractTime
	newToken func() (string, error)
}

// NewSessionAuth returns a strategy with an empty registry. A nil clock
// means wall-clock time.
func NewSessionAuth(clock abtime.AbstractTime) *SessionAuth {
	if clock == nil {
		clock = abtime.NewRealTime()
	}
	return &SessionAuth{
		registry: session.NewMemoryRegistry(),
		clock:    clock,
		newToken: internal.NewSessionToken,
	}
}

// Kind implements [Strategy].
func (s *SessionAuth) Kind() AuthType { return AuthTypeSession }

// issue validates userID and mints a record without storing it.
func (s *SessionAuth) issue(userID string) (session.Record, error) {
	if userID == "" {
		return session.Record{}, ErrInvalidUserID
	}
	token, err := s.newToken()
	if err != nil {
		return session.Record{}, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}
	return session.Record{
		Token:     token,
		UserID:    userID,
		CreatedAt: s.clock.Now(),
	}, nil
}

// CreateSession mints a token for userID and records it.
func (s *SessionAuth) CreateSession(_ context.Context, userID string) (string, error) {
	rec, err := s.issue(userID)
	if err != nil {
		return "", err
	}
	s.registry.Put(rec)
	return rec.Token, nil
}

// UserIDForSession returns the user the token was issued to.
func (s *SessionAuth) UserIDForSession(_ context.Context, token string) (string, error) {
	rec, err := s.lookup(token)
	if err != nil {
		return "", err
	}
	return rec.UserID, nil
}

// DestroySession removes token. Unknown tokens change nothing.
func (s *SessionAuth) DestroySession(_ context.Context, token string) error {
	if token == "" || !s.registry.Delete(token) {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SessionAuth) lookup(token string) (session.Record, error) {
	if token == "" {
		return session.Record{}, ErrSessionNotFound
	}
	rec, ok := s.registry.Get(token)
	if !ok {
		return session.Record{}, ErrSessionNotFound
	}
	return rec, nil
}
