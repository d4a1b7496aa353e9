package session

import (
	"context"
	"errors"
)

var (
	// ErrRedisUnavailable wraps any fault returned by the Redis client.
	ErrRedisUnavailable = errors.New("redis unavailable")
	// ErrDatabaseUnavailable wraps any fault returned by database/sql.
	ErrDatabaseUnavailable = errors.New("database unavailable")
	// ErrCorruptRecord is returned when a stored value cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt session record")
	// ErrDuplicateToken is returned by Save when the token is already stored.
	ErrDuplicateToken = errors.New("duplicate session token")
	// ErrInvalidRecord is returned by Save for a record without token or user id.
	ErrInvalidRecord = errors.New("invalid session record")
)

// Backend is a durable record store queried by token.
//
// Search returns every record whose token matches; zero matches is not an
// error. Save assigns CreatedAt and returns the record as stored. Remove
// deletes the record and is a no-op when it is already gone.
type Backend interface {
	Search(ctx context.Context, token string) ([]Record, error)
	Save(ctx context.Context, rec Record) (Record, error)
	Remove(ctx context.Context, rec Record) error
}
