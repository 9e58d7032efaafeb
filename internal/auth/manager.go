package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/smartmcq/internal/store"
)

var (
	// ErrNoSession means nobody is signed in.
	ErrNoSession = errors.New("not signed in")
	// ErrExpired means the stored token has expired.
	ErrExpired = errors.New("session expired")
)

// TokenIssuer exchanges credentials for an access token.
type TokenIssuer interface {
	IssueToken(ctx context.Context, username, password string) (string, error)
}

// Session is the signed-in user.
type Session struct {
	Username  string
	Role      string
	Cookie    Cookie
	ExpiresAt *time.Time
}

// Token returns the bearer token.
func (s *Session) Token() string {
	return s.Cookie.Value
}

// Manager signs users in and out and restores the stored session.
type Manager struct {
	issuer TokenIssuer
	repo   store.SessionRepo
	now    func() time.Time
}

// NewManager returns a Manager. issuer may be nil for commands that only
// read or clear the stored session.
func NewManager(issuer TokenIssuer, repo store.SessionRepo) *Manager {
	return &Manager{issuer: issuer, repo: repo, now: time.Now}
}

// Login exchanges the credentials for a token and stores it.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	if m.issuer == nil {
		return nil, errors.New("no token issuer configured")
	}
	token, err := m.issuer.IssueToken(ctx, username, password)
	if err != nil {
		return nil, err
	}

	sess := &Session{Username: username, Cookie: NewCookie(token)}
	// Opaque tokens are accepted; they simply carry no expiry.
	if claims, err := ParseClaims(token); err == nil {
		if sub := claims.Username(); sub != "" {
			sess.Username = sub
		}
		sess.Role = claims.Role
		sess.ExpiresAt = claims.Expiry()
	}

	err = m.repo.Save(ctx, &store.Session{
		Username:  sess.Username,
		Cookie:    sess.Cookie.String(),
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Current returns the stored session. It returns ErrNoSession when nobody is
// signed in and ErrExpired, together with the stale session, when the token
// has expired.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	rec, err := m.repo.Current(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoSession
	}

	cookie, err := ParseCookie(rec.Cookie)
	if err != nil {
		return nil, fmt.Errorf("stored session: %w", err)
	}

	sess := &Session{Username: rec.Username, Cookie: cookie, ExpiresAt: rec.ExpiresAt}
	if claims, err := ParseClaims(cookie.Value); err == nil {
		sess.Role = claims.Role
	}
	if sess.ExpiresAt != nil && !m.now().Before(*sess.ExpiresAt) {
		return sess, ErrExpired
	}
	return sess, nil
}

// Logout forgets the stored session.
func (m *Manager) Logout(ctx context.Context) error {
	return m.repo.Clear(ctx)
}
