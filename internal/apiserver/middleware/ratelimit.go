package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/ratelimit"
	"github.com/sanigest/sanigest/internal/common/dto"
	"github.com/sanigest/sanigest/internal/i18n"
	"go.uber.org/zap"
)

// RateLimitMiddleware throttles an authentication endpoint per IP+identity
// over the limiter's rolling window. The identity is the email field of the
// JSON body when present, so attempts against one account from one address
// share a budget. The 429 message is uniform and does not disclose whether
// the account exists.
func RateLimitMiddleware(limiter ratelimit.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if email := peekEmail(c); email != "" {
			key += ":" + email
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// A broken limiter backend must not take auth down with it.
			logger.Error("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Response{
				Success: false,
				Message: i18n.T(c, "auth.too_many_attempts"),
			})
			return
		}
		c.Next()
	}
}

// peekEmail reads the email field out of the JSON body without consuming it.
func peekEmail(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var probe struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(probe.Email))
}
