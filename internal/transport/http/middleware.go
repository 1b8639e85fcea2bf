package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// rateLimitMiddleware rejects requests beyond limiter's budget with 429.
func rateLimitMiddleware(limiter *rateLimiter, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.allow() {
			logger.Debug().Str("path", c.Request.URL.Path).Msg("rate limited")
			c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many messages, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}
