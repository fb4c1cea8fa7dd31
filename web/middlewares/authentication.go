package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hrmplatform.com/hrm/security"
	"hrmplatform.com/hrm/web/common"
)

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authentication requires a valid Bearer token and stores its identity on the context.
// A missing token is 401, a token that fails validation is 403.
func Authentication(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Access denied. No token provided."))
			return
		}

		claims, err := security.ParseIdentityToken(tokenStr, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, common.NewErrorResponse("Invalid token."))
			return
		}

		c.Set(common.IdentityKey, &claims.Identity)
		c.Next()
	}
}
