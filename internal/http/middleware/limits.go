package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/diabetes-app/internal/http/response"
	"github.com/yungbote/diabetes-app/internal/observability"
	"github.com/yungbote/diabetes-app/internal/ratelimit"
)

var (
	errInternal    = errors.New("internal server error")
	errRateLimited = errors.New("too many requests, slow down")
)

// RateLimit rejects callers that exhausted their bucket with 429 and Retry-After.
func RateLimit(store *ratelimit.Store, trustXFF bool, m *observability.Metrics) gin.HandlerFunc {
	if store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		dec := store.Allow(ratelimit.ClientKey(c.Request, trustXFF))
		if !dec.Allowed {
			m.IncRateLimited(c.FullPath())
			c.Header("Retry-After", strconv.Itoa(ratelimit.RetryAfterSeconds(dec.RetryAfter)))
			response.RespondError(c, http.StatusTooManyRequests, "rate_limited", errRateLimited)
			return
		}
		c.Next()
	}
}

// MaxBodyBytes caps request bodies.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
