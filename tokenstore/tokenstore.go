// Package tokenstore keeps the authentication token and username of the
// current operator in cookies, either for the session only or for a fixed
// number of days.
package tokenstore

import (
	"errors"
	"time"
)

// Cookie names used for the credentials.
const (
	TokenCookie    = "token"
	UsernameCookie = "username"
)

// PersistFor is how long remembered credentials survive.
const PersistFor = 7 * 24 * time.Hour

// CookieOptions controls how a cookie is stored. A zero MaxAge makes it a session cookie.
type CookieOptions struct {
	MaxAge time.Duration
}

// Jar is the cookie storage the Store writes through.
type Jar interface {
	Get(name string) (string, bool)
	Set(name, value string, opts CookieOptions) error
	Remove(name string) error
}

// Store reads and writes the operator credentials.
type Store struct {
	jar Jar
}

// New creates a Store backed by jar.
func New(jar Jar) *Store {
	return &Store{jar: jar}
}

func options(persist bool) CookieOptions {
	if persist {
		return CookieOptions{MaxAge: PersistFor}
	}
	return CookieOptions{}
}

// Token returns the stored token.
func (s *Store) Token() (string, bool) {
	return s.jar.Get(TokenCookie)
}

// Username returns the stored username.
func (s *Store) Username() (string, bool) {
	return s.jar.Get(UsernameCookie)
}

// SetToken stores the token, for PersistFor when persist is set.
func (s *Store) SetToken(value string, persist bool) error {
	return s.jar.Set(TokenCookie, value, options(persist))
}

// SetUsername stores the username, for PersistFor when persist is set.
func (s *Store) SetUsername(value string, persist bool) error {
	return s.jar.Set(UsernameCookie, value, options(persist))
}

// RemoveToken deletes the token. Removing an absent token is not an error.
func (s *Store) RemoveToken() error {
	return s.jar.Remove(TokenCookie)
}

// RemoveUsername deletes the username. Removing an absent username is not an error.
func (s *Store) RemoveUsername() error {
	return s.jar.Remove(UsernameCookie)
}

// ClearAuth removes both credentials.
func (s *Store) ClearAuth() error {
	return errors.Join(s.RemoveToken(), s.RemoveUsername())
}

// IsAuthenticated reports whether a non-empty token is present.
func (s *Store) IsAuthenticated() bool {
	token, ok := s.Token()
	return ok && token != ""
}
