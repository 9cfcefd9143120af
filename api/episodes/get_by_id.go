package episodes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
)

// GetByID returns the current state of one episode
// @Summary      Get episode status
// @Tags         episodes
// @Produce      json
// @Param        id path string true "Episode ID"
// @Success      200 {object} types.SingleEpisodeResponse "Episode"
// @Failure      404 {object} types.ErrorResponse "Episode not found"
// @Router       /api/v1/episodes/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := deps.EpisodeService.GetStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.SingleEpisodeResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Episode retrieved successfully"},
			Episode:      *summary,
		})
	}
}
