package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kopeyka/receipt-service/internal/session"
)

// RequireSession rejects requests when no login session is active. The view
// endpoints are useless without a backend token, so they fail fast here
// instead of relaying a 401 from upstream.
func RequireSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions.Current() == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "not logged in",
			})
			return
		}
		c.Next()
	}
}
