package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/MrEthical07/sessionauth"
)

var (
	// ErrDuplicateUser is returned by Add for an id that is already present.
	ErrDuplicateUser = errors.New("duplicate user id")
	// ErrInvalidUser is returned by Add for a record without id or email.
	ErrInvalidUser = errors.New("user requires id and email")
)

// MemoryDirectory is a process-local [sessionauth.UserDirectory]. Emails
// compare case-insensitively and Search returns users in insertion order.
type MemoryDirectory struct {
	mu    sync.RWMutex
	byID  map[string]sessionauth.UserRecord
	order []string
}

// NewMemoryDirectory returns an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byID: make(map[string]sessionauth.UserRecord),
	}
}

// Add stores u.
func (d *MemoryDirectory) Add(u sessionauth.UserRecord) error {
	if u.ID == "" || u.Email == "" {
		return ErrInvalidUser
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.byID[u.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, u.ID)
	}
	d.byID[u.ID] = u
	d.order = append(d.order, u.ID)
	return nil
}

// Search returns every user whose email equals email, ignoring case.
func (d *MemoryDirectory) Search(ctx context.Context, email string) ([]sessionauth.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []sessionauth.UserRecord
	for _, id := range d.order {
		if u := d.byID[id]; strings.EqualFold(u.Email, email) {
			out = append(out, u)
		}
	}
	return out, nil
}

// Get returns the user with the given id.
func (d *MemoryDirectory) Get(ctx context.Context, id string) (sessionauth.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return sessionauth.UserRecord{}, err
	}

	d.mu.RLock()
	u, ok := d.byID[id]
	d.mu.RUnlock()

	if !ok {
		return sessionauth.UserRecord{}, sessionauth.ErrUserNotFound
	}
	return u, nil
}

// Len returns the number of users.
func (d *MemoryDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

type seedUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"password_hash"`
}

// LoadJSON adds the users in a JSON array read from r. Each element
// carries id, email, first_name, last_name and a PHC password_hash.
func (d *MemoryDirectory) LoadJSON(r io.Reader) (int, error) {
	var seeds []seedUser
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return 0, fmt.Errorf("decode users: %w", err)
	}

	for i, s := range seeds {
		err := d.Add(sessionauth.UserRecord{
			ID:           s.ID,
			Email:        s.Email,
			FirstName:    s.FirstName,
			LastName:     s.LastName,
			PasswordHash: s.PasswordHash,
		})
		if err != nil {
			return i, err
		}
	}
	return len(seeds), nil
}

var _ sessionauth.UserDirectory = (*MemoryDirectory)(nil)
