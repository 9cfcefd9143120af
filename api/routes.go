package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/episodes"
	"github.com/musicjoeyoung/MCP-ElevenLabs/api/generate"
	"github.com/musicjoeyoung/MCP-ElevenLabs/api/health"
	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
	"github.com/musicjoeyoung/MCP-ElevenLabs/api/version"
	_ "github.com/musicjoeyoung/MCP-ElevenLabs/docs/swagger"
	"github.com/musicjoeyoung/MCP-ElevenLabs/pkg/config"
)

// Rate limit scopes, matching the keys of rate_limiting.endpoints
const (
	ScopeGenerate = "generate"
	ScopeDefault  = "default"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, cfg *config.Config, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if cfg.Monitoring.Enabled && deps.MetricsHandler != nil {
		path := cfg.Monitoring.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(deps.MetricsHandler))
	}

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	limit := func(scope string) gin.HandlerFunc {
		if !cfg.RateLimiting.Enabled {
			return func(c *gin.Context) { c.Next() }
		}
		perMinute, ok := cfg.RateLimiting.Endpoints[scope]
		if !ok {
			perMinute = cfg.RateLimiting.Endpoints[ScopeDefault]
		}
		r, burst := PerMinute(perMinute)
		if r == rate.Inf {
			return func(c *gin.Context) { c.Next() }
		}
		return PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, scope, r, burst)
	}

	if deps.GenerationService != nil {
		// Generation is expensive, so it gets its own strict budget
		generateGroup := v1.Group("/generate")
		generateGroup.Use(limit(ScopeGenerate))
		generate.RegisterRoutes(generateGroup, deps)
	}

	if deps.EpisodeService != nil {
		episodeGroup := v1.Group("/episodes")
		episodeGroup.Use(limit(ScopeDefault))
		episodes.RegisterRoutes(episodeGroup, deps)
	}

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
