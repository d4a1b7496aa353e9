package sessionauth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/sessionauth/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/thejerf/abtime"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func newManualClock() *abtime.ManualTime {
	return abtime.NewManualAtTime(testEpoch)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fastPasswordConfig stays at the argon2 minimums to keep tests quick.
func fastPasswordConfig() PasswordConfig {
	return PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
}

var errInjected = errors.New("injected fault")

// memoryBackend is a session.Backend that can return several records per
// token and fail on demand.
type memoryBackend struct {
	mu      sync.Mutex
	clock   abtime.AbstractTime
	records map[string][]session.Record

	searchErr error
	saveErr   error
	removeErr error

	searches int
	saves    int
	removes  int
}

func newMemoryBackend(clock abtime.AbstractTime) *memoryBackend {
	return &memoryBackend{clock: clock, records: map[string][]session.Record{}}
}

func (b *memoryBackend) Search(_ context.Context, token string) ([]session.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searches++
	if b.searchErr != nil {
		return nil, b.searchErr
	}
	return append([]session.Record(nil), b.records[token]...), nil
}

func (b *memoryBackend) Save(_ context.Context, rec session.Record) (session.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saves++
	if b.saveErr != nil {
		return session.Record{}, b.saveErr
	}
	rec.CreatedAt = b.clock.Now()
	b.records[rec.Token] = append(b.records[rec.Token], rec)
	return rec, nil
}

func (b *memoryBackend) Remove(_ context.Context, rec session.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removes++
	if b.removeErr != nil {
		return b.removeErr
	}
	recs := b.records[rec.Token]
	for i, r := range recs {
		if r == rec {
			b.records[rec.Token] = append(recs[:i:i], recs[i+1:]...)
			break
		}
	}
	if len(b.records[rec.Token]) == 0 {
		delete(b.records, rec.Token)
	}
	return nil
}

func (b *memoryBackend) put(rec session.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[rec.Token] = append(b.records[rec.Token], rec)
}

func (b *memoryBackend) count(token string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records[token])
}

// stubDirectory is a UserDirectory over a fixed slice.
type stubDirectory struct {
	users     []UserRecord
	searchErr error
}

func (d *stubDirectory) Search(_ context.Context, email string) ([]UserRecord, error) {
	if d.searchErr != nil {
		return nil, d.searchErr
	}
	var out []UserRecord
	for _, u := range d.users {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *stubDirectory) Get(_ context.Context, id string) (UserRecord, error) {
	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return UserRecord{}, ErrUserNotFound
}
