package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/upskill-backend/internal/data/kv"
	"github.com/yungbote/upskill-backend/internal/observability"
	"github.com/yungbote/upskill-backend/internal/platform/apierr"
	"github.com/yungbote/upskill-backend/internal/platform/ctxutil"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

type rateLimitBody struct {
	Error          string `json:"error"`
	Code           string `json:"code"`
	ResetInSeconds int    `json:"resetInSeconds"`
}

// RateLimit rejects a client once it exhausts its window. It runs before
// the handler reads the body. A limiter backend error lets the request
// through.
func RateLimit(limiter kv.RateLimiter, metrics *observability.Metrics, log *logger.Logger) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		client := ClientIdentifier(c.Request)

		d, err := limiter.Allow(ctx, client)
		if err != nil {
			if log != nil {
				log.Warn("Rate limiter unavailable, allowing request", append(ctxutil.LogFields(ctx), "error", err)...)
			}
			c.Next()
			return
		}
		if d.Allowed {
			c.Next()
			return
		}

		metrics.ObserveRateLimited()
		secs := d.ResetInSeconds()
		c.Header("Retry-After", strconv.Itoa(secs))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, rateLimitBody{
			Error:          fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", secs),
			Code:           apierr.CodeRateLimited,
			ResetInSeconds: secs,
		})
	}
}
