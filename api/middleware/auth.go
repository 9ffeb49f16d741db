// Package middleware guards the API routes. Rejections reuse the engine's
// failure shape so clients parse one error format everywhere.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pagelens/pagelens/models"
)

// identityKey is the gin context key carrying the caller identity from the
// auth middleware to the rate limiter.
const identityKey = "api_key"

// abort writes the engine's failure shape and stops the handler chain.
func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, models.ScrapeResponse{
		Success: false,
		Error:   &models.ErrorDetail{Status: models.StatusError, Message: msg},
	})
}

// APIKeyAuth guards routes with a static key set. A key may arrive as
// "X-API-Key: <key>" or "Authorization: Bearer <key>". An empty key set
// disables the guard entirely.
func APIKeyAuth(keys []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			allowed[k] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := callerKey(c)
		if key == "" {
			abort(c, http.StatusUnauthorized, "missing API key: set X-API-Key or Authorization: Bearer <key>")
			return
		}
		if _, ok := allowed[key]; !ok {
			abort(c, http.StatusUnauthorized, "invalid API key")
			return
		}

		c.Set(identityKey, key)
		c.Next()
	}
}

// callerKey reads the API key from the request, preferring X-API-Key.
func callerKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}
