package sessionauth

import "context"

// Strategy is one way of issuing and resolving session tokens.
//
// All failures of UserIDForSession and DestroySession match
// ErrSessionNotFound, whatever the cause. Implementations are safe for
// concurrent use.
type Strategy interface {
	Kind() AuthType
	CreateSession(ctx context.Context, userID string) (string, error)
	UserIDForSession(ctx context.Context, token string) (string, error)
	DestroySession(ctx context.Context, token string) error
}

var (
	_ Strategy = (*SessionAuth)(nil)
	_ Strategy = (*ExpiringSessionAuth)(nil)
	_ Strategy = (*PersistentSessionAuth)(nil)
	_ Strategy = (*BearerAuth)(nil)
)
