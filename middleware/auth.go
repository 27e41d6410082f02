package middleware

import (
	"net/http"
	"strings"

	"horizon-backend/models"

	"github.com/gin-gonic/gin"
)

// RequireRole gates staff endpoints on the capability the caller
// presents in X-Acting-Role. The core never re-derives roles from
// session state; the API layer in front of it is responsible for
// authenticating the caller and stamping the header.
func RequireRole(allowed ...models.ActingRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.ActingRole(strings.ToLower(strings.TrimSpace(c.GetHeader("X-Acting-Role"))))
		for _, a := range allowed {
			if role == a {
				c.Set("actingRole", role)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "error.forbidden",
				"message": "acting role not permitted for this operation",
			},
		})
	}
}
