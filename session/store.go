package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thejerf/abtime"
)

// RedisBackend stores one binary-encoded [Record] per token under
// "<prefix>:<token>".
//
// Expiry is decided by the strategy on read. Retention, when positive, is
// only a Redis key TTL that lets the server reclaim memory for sessions
// nobody reads again.
type RedisBackend struct {
	redis     redis.UniversalClient
	prefix    string
	retention time.Duration
	clock     abtime.AbstractTime
}

// NewRedisBackend returns a backend over redisClient. An empty prefix
// becomes "us"; a nil clock uses real time.
func NewRedisBackend(redisClient redis.UniversalClient, prefix string, retention time.Duration, clock abtime.AbstractTime) *RedisBackend {
	if prefix == "" {
		prefix = "us"
	}
	if retention < 0 {
		retention = 0
	}
	if clock == nil {
		clock = abtime.NewRealTime()
	}
	return &RedisBackend{
		redis:     redisClient,
		prefix:    prefix,
		retention: retention,
		clock:     clock,
	}
}

func (b *RedisBackend) key(token string) string {
	return b.prefix + ":" + token
}

// Search returns the record stored for token, or an empty slice.
func (b *RedisBackend) Search(ctx context.Context, token string) ([]Record, error) {
	data, err := b.redis.Get(ctx, b.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	rec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return []Record{rec}, nil
}

// Save writes rec with CreatedAt set to the backend clock. An existing
// token is never overwritten.
func (b *RedisBackend) Save(ctx context.Context, rec Record) (Record, error) {
	if !rec.Valid() {
		return Record{}, ErrInvalidRecord
	}
	rec.CreatedAt = b.clock.Now().UTC()

	blob, err := Encode(rec)
	if err != nil {
		return Record{}, err
	}

	stored, err := b.redis.SetNX(ctx, b.key(rec.Token), blob, b.retention).Result()
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !stored {
		return Record{}, ErrDuplicateToken
	}

	return rec, nil
}

// Remove deletes the record for rec.Token.
func (b *RedisBackend) Remove(ctx context.Context, rec Record) error {
	if err := b.redis.Del(ctx, b.key(rec.Token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
