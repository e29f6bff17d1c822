package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobsift/jdextract/models"
	"github.com/jobsift/jdextract/renderer"
)

// Health returns a handler for GET /api/v1/health.
//
// Reports "degraded" when no browser could be resolved; static-fetch
// diagnostics still work in that state, but primary extraction cannot run.
func Health(r *renderer.Renderer, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := r.Mode()

		status := "healthy"
		if mode == renderer.ModeUnavailable {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:        status,
			UptimeSeconds: int64(time.Since(startTime).Seconds()),
			BrowserMode:   mode,
			Version:       "0.1.0",
		})
	}
}
