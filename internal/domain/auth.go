package domain

import (
	"context"
	"encoding/json"
	"time"
)

// User represents a storefront account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserPatch holds a shallow partial update of a user's profile. Nil fields
// are left untouched.
type UserPatch struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// Apply merges the patch into u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
}

// Session is the authentication state of the storefront: either logged out
// or logged in with a user and token. The fields are unexported so a session
// can never hold a token without a user or vice versa.
type Session struct {
	user  *User
	token string
}

// LoggedOut returns the empty session.
func LoggedOut() Session {
	return Session{}
}

// NewSession returns a logged-in session for the given user and token.
func NewSession(u User, token string) Session {
	return Session{user: &u, token: token}
}

// LoggedIn reports whether the session holds a user.
func (s Session) LoggedIn() bool {
	return s.user != nil
}

// User returns the session user, if logged in.
func (s Session) User() (User, bool) {
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Token returns the session token, empty when logged out.
func (s Session) Token() string {
	return s.token
}

// WithUser returns a copy of the session holding the given user. Logged-out
// sessions are returned unchanged.
func (s Session) WithUser(u User) Session {
	if s.user == nil {
		return s
	}
	return Session{user: &u, token: s.token}
}

type sessionJSON struct {
	User  *User  `json:"user,omitempty"`
	Token string `json:"token,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{User: s.user, Token: s.token})
}

// UnmarshalJSON implements json.Unmarshaler. A payload with a token but no
// user decodes as logged out, preserving the session invariant.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw sessionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.User == nil {
		*s = Session{}
		return nil
	}
	*s = Session{user: raw.User, token: raw.Token}
	return nil
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, email, name, passwordHash string) (*User, error)
	UpdateProfile(ctx context.Context, id int64, patch UserPatch) (*User, error)
	Count(ctx context.Context) (int, error)
}
