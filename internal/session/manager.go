package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager owns the session lifecycle: minting a session id on login,
// resolving the current identity from a presented cookie token, and
// destroying the record on logout.
//
// The cookie token is a signed HS256 JWT carrying only the opaque session
// id (jti). Identity itself never leaves the server-side store, so revoking
// a session is a single delete.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

type sessionClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Login installs the identity record and returns the signed cookie token.
// The record is written in one store call, so a session is never partially
// authenticated.
func (m *Manager) Login(ctx context.Context, identity Identity) (string, error) {
	sid := uuid.NewString()

	err := m.store.Set(ctx, sid, identity, m.ttl)

	if err != nil {
		return "", err
	}

	token, err := m.signSessionID(sid)

	if err != nil {
		// do not leave an orphaned record behind
		_, _ = m.store.Delete(ctx, sid)
		return "", err
	}

	return token, nil
}

// Current resolves the identity for a presented cookie token. A missing,
// malformed, tampered, or expired token is an anonymous session, not an
// error; errors are reserved for store failures.
func (m *Manager) Current(ctx context.Context, token string) (Identity, bool, error) {
	if token == "" {
		return Identity{}, false, nil
	}

	sid, err := m.verifySessionID(token)

	if err != nil {
		return Identity{}, false, nil
	}

	return m.store.Get(ctx, sid)
}

// Logout destroys the session record and reports whether one was actually
// removed. Logging out an anonymous or already logged-out session is a
// no-op, not an error.
func (m *Manager) Logout(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	sid, err := m.verifySessionID(token)

	if err != nil {
		return false, nil
	}

	return m.store.Delete(ctx, sid)
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) signSessionID(sid string) (string, error) {
	now := time.Now().UTC()

	claims := sessionClaims{
		TokenType: "session",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) verifySessionID(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*sessionClaims)

	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	if claims.TokenType != "session" {
		return "", errors.New("invalid token type")
	}

	if claims.ID == "" {
		return "", errors.New("missing jti")
	}

	return claims.ID, nil
}
