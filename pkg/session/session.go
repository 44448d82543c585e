package session

import "errors"

// Session is the client's view of who is logged in. Token presence and
// UserID presence are set together on login and cleared together on logout;
// a token without a UserID exists only while startup resolution is running.
type Session struct {
	UserID  string
	IsAdmin bool
	Token   string
}

// ErrNoToken is returned by a TokenRepo when no token has been persisted.
var ErrNoToken = errors.New("no stored token")

// TokenRepo persists the bearer token between runs, keyed "token" like the
// browser client's local storage.
type TokenRepo interface {
	Save(token string) error
	Load() (string, error)
	Delete() error
}
