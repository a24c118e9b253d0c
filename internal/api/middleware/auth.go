package middleware

import (
	"net/http"

	"guild-dashboard/internal/auth"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// SessionVerifier turns a session cookie value into the caller's identity.
type SessionVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// AuthMiddleware validates the session cookie and attaches the identity to
// the context. A missing cookie is 401, an unusable one 403.
func AuthMiddleware(sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Access token required"})
			return
		}

		id, err := sessions.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// Identity returns the identity attached by AuthMiddleware.
func Identity(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*auth.Identity)
	return id, ok
}

// SetIdentity attaches id to the context as AuthMiddleware would.
func SetIdentity(c *gin.Context, id *auth.Identity) {
	c.Set(identityKey, id)
}

// CORSMiddleware allows credentialed requests from the dashboard origin.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		h.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
