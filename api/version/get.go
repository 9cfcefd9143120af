package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
)

// Get handles version requests
// @Summary      Service version
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string "Version information"
// @Router       / [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	version := "dev"
	if deps != nil && deps.Version != "" {
		version = deps.Version
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Podgen API",
			"version":     version,
			"description": "Generates two-voice audio episodes from code, files and discussions",
			"status":      "running",
		})
	}
}
