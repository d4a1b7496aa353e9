package sessionauth

import "context"

// UserRecord is an account as the engine sees it. PasswordHash never
// leaves the process in JSON.
type UserRecord struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	PasswordHash string `json:"-"`
}

// DisplayName joins first and last name, falling back to the email.
func (u UserRecord) DisplayName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserDirectory is the account source the engine logs users in against.
//
// Search returns every user with the given email; zero matches is not an
// error. Get returns ErrUserNotFound for an unknown id.
type UserDirectory interface {
	Search(ctx context.Context, email string) ([]UserRecord, error)
	Get(ctx context.Context, id string) (UserRecord, error)
}

// LoginResult is returned by [Engine.Login].
type LoginResult struct {
	Token string
	User  UserRecord
}
