// Package api assembles the HTTP surface of the extraction service.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jobsift/jdextract/api/handler"
	"github.com/jobsift/jdextract/api/middleware"
	"github.com/jobsift/jdextract/cache"
	"github.com/jobsift/jdextract/config"
	"github.com/jobsift/jdextract/metrics"
	"github.com/jobsift/jdextract/renderer"
	"github.com/jobsift/jdextract/storage"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health and metrics endpoints sit outside auth so monitoring probes always
// work.
func NewRouter(p handler.Extractor, r *renderer.Renderer, cfg *config.Config, cc cache.Store, m *metrics.Metrics, rec storage.Recorder, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(r, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/extract", handler.Extract(p, cc, m, rec))

	return engine
}
