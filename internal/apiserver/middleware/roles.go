package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/database"
)

// RequireRole rejects the request unless the principal's role is in the
// allowed set. Role gating is per-endpoint; record-level isolation is the
// data layer's organization filter.
func RequireRole(roles ...database.Role) gin.HandlerFunc {
	allowed := make(map[database.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		authCtx, ok := GetAuthContext(c)
		if !ok {
			abortUnauthorized(c, "auth.missing_token")
			return
		}
		if _, ok := allowed[authCtx.Role]; !ok {
			abortForbidden(c, "auth.forbidden")
			return
		}
		c.Next()
	}
}

// RequireWrite shorthand for endpoints that mutate business records.
func RequireWrite() gin.HandlerFunc {
	return RequireRole(database.RoleAdmin, database.RoleUser)
}

// RequireAdmin shorthand for user and organization management endpoints.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(database.RoleAdmin)
}
