package sessionauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/sessionauth/internal"
	"github.com/MrEthical07/sessionauth/jwt"
)

// BearerAuth issues signed, self-contained access tokens. Nothing is
// stored, so tokens cannot be revoked before they expire.
type BearerAuth struct {
	manager  *jwt.Manager
	newToken func() (string, error)
}

// NewBearerAuth returns a strategy signing with manager.
func NewBearerAuth(manager *jwt.Manager) *BearerAuth {
	return &BearerAuth{
		manager:  manager,
		newToken: internal.NewSessionToken,
	}
}

// Kind implements [Strategy].
func (b *BearerAuth) Kind() AuthType { return AuthTypeBearer }

// CreateSession signs a token carrying userID and a fresh session id.
func (b *BearerAuth) CreateSession(_ context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}
	sid, err := b.newToken()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}
	token, err := b.manager.CreateAccess(userID, sid)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}
	return token, nil
}

// UserIDForSession verifies token and returns its uid claim.
func (b *BearerAuth) UserIDForSession(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrSessionNotFound
	}
	claims, err := b.manager.ParseAccess(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errSessionExpired
		}
		return "", ErrSessionNotFound
	}
	return claims.UID, nil
}

// DestroySession always fails: there is no server-side state to remove.
func (b *BearerAuth) DestroySession(context.Context, string) error {
	return ErrSessionNotFound
}
