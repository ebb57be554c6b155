package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"knowledge-assist/internal/app"
	"knowledge-assist/internal/pkg/jwtutil"
	"knowledge-assist/internal/transport/http/response"
)

// AdminJWT guards destructive routes. The token must be a bearer token
// signed with the configured secret and carry the admin role.
func AdminJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtutil.ParseToken(secret, parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}
		if claims.Role != app.AdminRole {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "insufficient privileges")
			c.Abort()
			return
		}

		c.Set("role", claims.Role)
		c.Next()
	}
}
