package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/database"
	"github.com/sanigest/sanigest/internal/auth/jwt"
	"github.com/sanigest/sanigest/internal/common/dto"
	"github.com/sanigest/sanigest/internal/i18n"
	"go.uber.org/zap"
)

const authContextKey = "authContext"

// AuthContext is the authenticated principal attached to every request that
// passes the middleware. OrgID is the only organization identifier the data
// layer may consume; client-supplied organization IDs are never trusted.
type AuthContext struct {
	UserID uint
	OrgID  uint
	Role   database.Role
}

// GetAuthContext returns the principal set by AuthMiddleware.
func GetAuthContext(c *gin.Context) (*AuthContext, bool) {
	v, ok := c.Get(authContextKey)
	if !ok {
		return nil, false
	}
	authCtx, ok := v.(*AuthContext)
	return authCtx, ok
}

// AuthMiddleware validates the bearer token, loads the user it names and
// cross-checks the token's organization against the user's before attaching
// the principal to the request context. A mismatch fails closed: stale or
// forged tokens must never reach a data-layer call.
func AuthMiddleware(jwtService *jwt.Service, db database.Database, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "auth.missing_token")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "auth.invalid_token")
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "auth.invalid_token")
			return
		}

		user, err := db.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abortUnauthorized(c, "auth.invalid_token")
			return
		}
		if !user.IsActive {
			abortForbidden(c, "auth.user_disabled")
			return
		}
		if user.OrgID != claims.OrgID {
			logger.Warn("token organization mismatch",
				zap.Uint("user_id", user.ID),
				zap.Uint("token_org", claims.OrgID),
				zap.Uint("user_org", user.OrgID))
			abortUnauthorized(c, "auth.invalid_token")
			return
		}

		org, err := db.GetOrganizationByID(c.Request.Context(), user.OrgID)
		if err != nil {
			abortUnauthorized(c, "auth.invalid_token")
			return
		}
		if !org.Operational() {
			abortForbidden(c, "auth.org_not_operational")
			return
		}

		c.Set(authContextKey, &AuthContext{
			UserID: user.ID,
			OrgID:  user.OrgID,
			Role:   user.Role,
		})
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msgID string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Response{
		Success: false,
		Message: i18n.T(c, msgID),
	})
}

func abortForbidden(c *gin.Context, msgID string) {
	c.AbortWithStatusJSON(http.StatusForbidden, dto.Response{
		Success: false,
		Message: i18n.T(c, msgID),
	})
}
