package middlewares

import (
	"context"
	"net/http"

	"github.com/docket-app/docket/internal/session"
	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "docket_session"

// Keep this small interface so tests can fake it easily.
type SessionResolver interface {
	Current(ctx context.Context, token string) (session.Identity, bool, error)
}

type SessionMiddleware struct {
	sessions SessionResolver
}

func NewSessionMiddleware(sessions SessionResolver) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// RequireSession is the cross-cutting guard in front of every
// authenticated route. Handlers behind it can assume a full identity is on
// the context; anonymous requests never reach them.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)

		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "You need to log in first",
				},
			})
			return
		}

		identity, ok, err := m.sessions.Current(c.Request.Context(), token)

		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "internal_error",
					"message": "Could not resolve session",
				},
			})
			return
		}

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "You need to log in first",
				},
			})
			return
		}

		// Stash identity on the context for handlers
		c.Set(ctxUserIDKey, identity.UserID)
		c.Set(ctxRoleKey, identity.Role)
		c.Set(ctxIdentityKey, identity)

		c.Next()
	}
}

// Helpers so handlers don't need to know the magic keys.

func IdentityFromContext(c *gin.Context) (session.Identity, bool) {
	v, ok := c.Get(ctxIdentityKey)
	if !ok {
		return session.Identity{}, false
	}
	identity, ok := v.(session.Identity)
	return identity, ok
}

func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
