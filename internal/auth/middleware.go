package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionKey = "auth_session"

	// CookieName is the name of the session cookie.
	CookieName = "calllog_session"
)

// SessionManager loads, issues and destroys cookie-backed sessions.
type SessionManager struct {
	tokens       *TokenManager
	store        SessionStore
	logger       *zap.Logger
	secureCookie bool
	now          func() time.Time
}

// NewSessionManager constructs the manager.
func NewSessionManager(tokens *TokenManager, store SessionStore, logger *zap.Logger, secureCookie bool) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{tokens: tokens, store: store, logger: logger, secureCookie: secureCookie, now: time.Now}
}

// Handle attaches the caller's session to the request. Any problem with the
// cookie leaves the request with a fresh, unauthenticated session.
func (m *SessionManager) Handle(c *fiber.Ctx) error {
	c.Locals(sessionKey, m.load(c.UserContext(), c.Cookies(CookieName)))
	return c.Next()
}

func (m *SessionManager) load(ctx context.Context, cookie string) *Session {
	if cookie == "" {
		return m.blank()
	}
	claims, err := m.tokens.ParseToken(cookie)
	if err != nil {
		m.logger.Debug("discarding session cookie", zap.Error(err))
		return m.blank()
	}
	s, err := m.store.Get(ctx, claims.SessionID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			m.logger.Warn("session lookup failed", zap.Error(err))
		}
		return m.blank()
	}
	return s
}

func (m *SessionManager) blank() *Session {
	return &Session{ID: uuid.NewString()}
}

// NewID returns a fresh session id.
func (m *SessionManager) NewID() string {
	return uuid.NewString()
}

// TTL returns the session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.tokens.TTL()
}

// Issue stores s and sets a signed cookie pointing at it.
func (m *SessionManager) Issue(c *fiber.Ctx, s *Session) error {
	if err := m.store.Save(c.UserContext(), s); err != nil {
		return err
	}
	token, expiresAt, err := m.tokens.GenerateToken(s.ID, m.now())
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   m.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Locals(sessionKey, s)
	return nil
}

// Save persists changes to an already issued session.
func (m *SessionManager) Save(c *fiber.Ctx, s *Session) error {
	return m.store.Save(c.UserContext(), s)
}

// ExpireCookie tells the browser to drop the session cookie.
func (m *SessionManager) ExpireCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   m.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SessionFromContext returns the session attached by Handle. Requests that
// bypassed the middleware get an empty session.
func SessionFromContext(c *fiber.Ctx) *Session {
	if s, ok := c.Locals(sessionKey).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}

// ViewerFromContext resolves the effective viewer of the request.
func ViewerFromContext(c *fiber.Ctx) ViewerState {
	return ResolveViewer(SessionFromContext(c))
}
