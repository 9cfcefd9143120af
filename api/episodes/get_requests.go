package episodes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
)

// GetRequests lists the generation requests recorded for an episode
// @Summary      Get generation requests
// @Tags         episodes
// @Produce      json
// @Param        id path string true "Episode ID"
// @Success      200 {object} types.GenerationRequestsResponse "Requests"
// @Failure      404 {object} types.ErrorResponse "Episode not found"
// @Router       /api/v1/episodes/{id}/requests [get]
func GetRequests(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := deps.EpisodeService.Requests(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.GenerationRequestsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Requests retrieved successfully"},
			Requests:     requests,
			Count:        len(requests),
		})
	}
}
