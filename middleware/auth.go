package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bananina/storefront-api/session"
)

const (
	ctxSession = "session"
	ctxToken   = "session_token"
)

// TokenFromRequest pulls the opaque session token from the cookie or an
// Authorization bearer header.
func TokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// RequireAuth resolves the caller's session and aborts with 401 when
// there is none.
func RequireAuth(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		sess, err := store.Get(c.Request.Context(), token)
		if err == session.ErrNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		if err != nil {
			logrus.Errorf("session lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   gin.H{"type": "database_error", "message": "A database error occurred"},
			})
			c.Abort()
			return
		}

		c.Set(ctxSession, sess)
		c.Set(ctxToken, token)
		c.Set("user_id", sess.UserID)
		c.Next()
	}
}

// RequireAdmin rejects valid sessions lacking the admin role with 403,
// never 401. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || !sess.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session placed by RequireAuth, nil outside
// guarded routes.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// Token returns the raw session token for the current request.
func Token(c *gin.Context) string {
	return c.GetString(ctxToken)
}
