package episodes

import (
	"github.com/gin-gonic/gin"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
)

// RegisterRoutes registers episode routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/episodes - List episodes, newest first
	router.GET("", GetAll(deps))

	// GET /api/v1/episodes/:id - Get episode status
	router.GET("/:id", GetByID(deps))

	// GET /api/v1/episodes/:id/script - Get the generated script
	router.GET("/:id/script", GetScript(deps))

	// GET /api/v1/episodes/:id/audio - Get the assembled audio
	router.GET("/:id/audio", GetAudio(deps))

	// GET /api/v1/episodes/:id/requests - Get recorded generation requests
	router.GET("/:id/requests", GetRequests(deps))
}
