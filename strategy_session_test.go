package sessionauth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/sessionauth/internal"
)

func TestSessionAuthLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewSessionAuth(newManualClock())

	token, err := s.CreateSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if !internal.IsSessionToken(token) {
		t.Fatalf("expected uuid token, got %q", token)
	}

	uid, err := s.UserIDForSession(ctx, token)
	if err != nil || uid != "user-1" {
		t.Fatalf("UserIDForSession = %q, %v", uid, err)
	}

	if err := s.DestroySession(ctx, token); err != nil {
		t.Fatalf("DestroySession: %v", err)
	}
	if _, err := s.UserIDForSession(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after destroy, got %v", err)
	}
	if err := s.DestroySession(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second destroy: expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionAuthRejectsEmptyInputs(t *testing.T) {
	ctx := context.Background()
	s := NewSessionAuth(nil)

	if _, err := s.CreateSession(ctx, ""); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
	if s.registry.Len() != 0 {
		t.Fatal("rejected create must not write")
	}
	if _, err := s.UserIDForSession(ctx, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("empty token: got %v", err)
	}
	if _, err := s.UserIDForSession(ctx, "not-issued"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown token: got %v", err)
	}
	if err := s.DestroySession(ctx, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("empty destroy: got %v", err)
	}
}

func TestSessionAuthDestroyUnknownLeavesOthers(t *testing.T) {
	ctx := context.Background()
	s := NewSessionAuth(nil)

	token, _ := s.CreateSession(ctx, "user-1")
	if err := s.DestroySession(ctx, "other"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("got %v", err)
	}
	if uid, err := s.UserIDForSession(ctx, token); err != nil || uid != "user-1" {
		t.Fatalf("unrelated session disturbed: %q %v", uid, err)
	}
}

func TestSessionAuthTokenFailure(t *testing.T) {
	s := NewSessionAuth(nil)
	s.newToken = func() (string, error) { return "", errors.New("no entropy") }

	if _, err := s.CreateSession(context.Background(), "user-1"); !errors.Is(err, ErrSessionCreationFailed) {
		t.Fatalf("expected ErrSessionCreationFailed, got %v", err)
	}
	if s.registry.Len() != 0 {
		t.Fatal("failed create must not write")
	}
}

func TestSessionAuthNeverExpires(t *testing.T) {
	clock := newManualClock()
	s := NewSessionAuth(clock)
	token, _ := s.CreateSession(context.Background(), "user-1")

	clock.Advance(10 * 365 * 24 * time.Hour)
	if _, err := s.UserIDForSession(context.Background(), token); err != nil {
		t.Fatalf("base sessions must not expire: %v", err)
	}
}

func TestSessionAuthTokensAreDistinct(t *testing.T) {
	s := NewSessionAuth(nil)
	ctx := context.Background()

	const goroutines = 16
	const perG = 100

	var (
		mu   sync.Mutex
		seen = make(map[string]bool, goroutines*perG)
		wg   sync.WaitGroup
	)
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				token, err := s.CreateSession(ctx, "same-user")
				if err != nil {
					t.Errorf("CreateSession: %v", err)
					return
				}
				mu.Lock()
				seen[token] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != goroutines*perG || s.registry.Len() != goroutines*perG {
		t.Fatalf("expected %d distinct sessions, got %d tokens and %d records", goroutines*perG, len(seen), s.registry.Len())
	}
}
