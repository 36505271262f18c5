package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gridops/gridassess/internal/logx"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Session is an authenticated login, addressed by an opaque token.
type Session struct {
	Token     string
	Username  string
	Name      string
	ExpiresAt time.Time
}

// Authenticator verifies credentials and tracks sessions in memory.
type Authenticator struct {
	file   File
	logger logx.Logger

	mx       sync.Mutex
	sessions map[string]Session

	now func() time.Time
}

func New(file File, logger logx.Logger) *Authenticator {
	if logger == nil {
		logger = logx.NewNop()
	}
	return &Authenticator{
		file:     file,
		logger:   logger,
		sessions: map[string]Session{},
		now:      time.Now,
	}
}

// CookieName is the cookie the session token travels under.
func (a *Authenticator) CookieName() string {
	return a.file.Cookie.Name
}

// Login checks the password against the stored bcrypt hash and opens a
// session valid for the configured number of days.
func (a *Authenticator) Login(username, password string) (Session, error) {
	user, ok := a.file.Credentials.Usernames[username]
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		a.logger.Warnw("failed login attempt", "username", username)
		return Session{}, ErrInvalidCredentials
	}

	now := a.now()
	s := Session{
		Token:     uuid.NewString(),
		Username:  username,
		Name:      user.Name,
		ExpiresAt: now.AddDate(0, 0, a.file.Cookie.ExpiryDays),
	}

	a.mx.Lock()
	// Abandoned logins never present their token again, so sweep them here.
	for token, sess := range a.sessions {
		if now.After(sess.ExpiresAt) {
			delete(a.sessions, token)
		}
	}
	a.sessions[s.Token] = s
	a.mx.Unlock()

	a.logger.Infow("user logged in", "username", username)
	return s, nil
}

// Verify resolves a token to its session. Expired sessions are pruned.
func (a *Authenticator) Verify(token string) (Session, bool) {
	a.mx.Lock()
	defer a.mx.Unlock()

	s, ok := a.sessions[token]
	if !ok {
		return Session{}, false
	}
	if a.now().After(s.ExpiresAt) {
		delete(a.sessions, token)
		return Session{}, false
	}
	return s, true
}

// Logout revokes a session. Unknown tokens are a no-op.
func (a *Authenticator) Logout(token string) {
	a.mx.Lock()
	defer a.mx.Unlock()
	delete(a.sessions, token)
}
