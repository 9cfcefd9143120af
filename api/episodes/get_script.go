package episodes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
)

// GetScript returns the episode script as plain text
// @Summary      Get episode script
// @Description  Returns the generated dialogue, or "Script not yet generated" when none was written
// @Tags         episodes
// @Produce      plain
// @Param        id path string true "Episode ID"
// @Success      200 {string} string "Script text"
// @Failure      404 {object} types.ErrorResponse "Episode not found"
// @Router       /api/v1/episodes/{id}/script [get]
func GetScript(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		script, err := deps.EpisodeService.GetScript(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		c.String(http.StatusOK, script)
	}
}
