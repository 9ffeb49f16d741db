package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagelens/pagelens/models"
)

// healthDegradedThreshold is the in-flight request count above which the
// service reports degraded. Every in-flight request owns a browser process,
// so the count is a direct load proxy.
const healthDegradedThreshold = 10

// Health returns a handler for GET /api/v1/health.
func Health(svc ContentService, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := svc.Stats()

		status := "healthy"
		if stats.ActiveRequests > healthDegradedThreshold {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Engine:  stats,
			Version: "0.1.0",
		})
	}
}
