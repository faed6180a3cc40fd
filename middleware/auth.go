package middleware

import (
	"net/http"
	"strings"

	"bookline/utils"

	"github.com/gin-gonic/gin"
)

// ActorIDKey is the gin context key under which the authenticated actor's
// opaque ID is stored.
const ActorIDKey = "actorID"

// AuthMiddleware extracts the authenticated actor ID from a bearer token.
// Identity management lives elsewhere; this layer only verifies the token
// and passes the subject through, stateless per request.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token", "")
			c.Abort()
			return
		}
		actorID, err := utils.ExtractIDFromToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid token", err.Error())
			c.Abort()
			return
		}
		c.Set(ActorIDKey, actorID)
		c.Next()
	}
}

// ActorID retrieves the authenticated actor ID set by AuthMiddleware.
func ActorID(c *gin.Context) string {
	return c.GetString(ActorIDKey)
}
