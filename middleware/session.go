package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShahwaizZahid/pog-blog/models"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "session"

const sessionKey = "currentSession"

// Sessions resolves opaque tokens to identities. The redis
// implementation lives in utils.
type Sessions interface {
	Resolve(ctx context.Context, token string) (models.Session, error)
}

// Session reads the cookie and attaches the resolved identity to the
// request context. With required=true an unresolvable session aborts
// with 401; otherwise the handler runs with no session attached.
// Required vs optional is route configuration, not a property of the
// middleware.
func Session(sessions Sessions, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err == nil && token != "" {
			if sess, err := sessions.Resolve(c.Request.Context(), token); err == nil {
				c.Set(sessionKey, sess)
				c.Next()
				return
			}
		}
		if required {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSession returns the identity attached by Session, if any.
func CurrentSession(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	sess, ok := v.(models.Session)
	return sess, ok
}
