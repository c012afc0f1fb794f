package session

import (
	"strings"
	"time"
)

// Identity is the authenticated professor's profile as returned by the
// login endpoint. Attributes are carried opaquely; only IsAdmin gates the
// elevated parts of the console.
type Identity struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	IsAdmin  bool     `json:"is_admin"`
	Roles    []string `json:"roles,omitempty"`
}

func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// TokenIssuance is the server's token_data record: the bearer credential and
// its validity duration in seconds.
type TokenIssuance struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Session represents "who is logged in, with what credential, until when".
// IssuedAt is the client's capture of when the token was accepted as
// current, in UNIX seconds.
type Session struct {
	Identity  Identity
	Token     string
	IssuedAt  int64
	ExpiresIn int64
}

// ExpiresAt returns the expiry timestamp in UNIX seconds.
func (s Session) ExpiresAt() int64 {
	return s.IssuedAt + s.ExpiresIn
}

// Expired reports whether the session's expiry has passed at `now`.
func (s Session) Expired(now time.Time) bool {
	return now.Unix() > s.ExpiresAt()
}

// Remaining returns the duration until expiry at `now`; negative if expired.
func (s Session) Remaining(now time.Time) time.Duration {
	return time.Duration(s.ExpiresAt()-now.Unix()) * time.Second
}
