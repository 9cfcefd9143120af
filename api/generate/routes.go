package generate

import (
	"github.com/gin-gonic/gin"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
)

// RegisterRoutes registers generation routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/generate - Generate an episode from source material
	router.POST("", Post(deps))
}
