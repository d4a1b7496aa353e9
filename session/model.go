package session

import "time"

// Record is one issued session. It is immutable once saved; the only
// mutation a store performs is removal.
type Record struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}

// Valid reports whether r carries both a token and a user id.
func (r Record) Valid() bool {
	return r.Token != "" && r.UserID != ""
}
