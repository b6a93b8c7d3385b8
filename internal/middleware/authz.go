package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/models"
)

func roleFromCtx(c *gin.Context) (models.UserRole, bool) {
	v, exists := c.Get("role")
	if !exists {
		return "", false
	}
	s, _ := v.(string)
	role, err := models.ParseUserRole(s)
	if err != nil {
		return "", false
	}
	return role, true
}

// RequireRoles allows only the listed roles through.
func RequireRoles(allowed ...models.UserRole) gin.HandlerFunc {
	allowedSet := map[models.UserRole]struct{}{}
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role, ok := roleFromCtx(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no role in context"})
			return
		}
		if _, ok := allowedSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireApprover gates approval-capable operations.
func RequireApprover() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromCtx(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no role in context"})
			return
		}
		if !role.CanApprove() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
