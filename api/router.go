// Package api exposes the engine's two operations over HTTP. It is a thin
// interface boundary; all scraping semantics live in the scraper package.
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagelens/pagelens/api/handler"
	"github.com/pagelens/pagelens/api/middleware"
	"github.com/pagelens/pagelens/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health is intentionally outside auth so monitoring probes always work.
func NewRouter(svc handler.ContentService, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(svc, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/scrape", handler.Scrape(svc))
	protected.POST("/selector/validate", handler.ValidateSelector())

	return r
}
