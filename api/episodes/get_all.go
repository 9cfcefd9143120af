package episodes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/episodes"
)

// GetAll lists episodes newest first
// @Summary      List episodes
// @Description  Page through generated episodes, newest created first
// @Tags         episodes
// @Produce      json
// @Param        limit  query int false "Page size (1-100)" default(10)
// @Param        offset query int false "Number of episodes to skip" default(0)
// @Success      200 {object} types.EpisodesResponse "Episode page"
// @Failure      400 {object} types.ErrorResponse "Invalid pagination"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/episodes [get]
func GetAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := types.ParseOptionalIntQuery(c, "limit")
		if !ok {
			return
		}
		offset, ok := types.ParseOptionalIntQuery(c, "offset")
		if !ok {
			return
		}

		page, err := deps.EpisodeService.List(c.Request.Context(), episodes.ListParams{Limit: limit, Offset: offset})
		if err != nil {
			types.SendError(c, err)
			return
		}

		log.Printf("[DEBUG] Listed %d of %d episodes (limit=%d offset=%d)", len(page.Episodes), page.Total, page.Limit, page.Offset)

		c.JSON(http.StatusOK, types.EpisodesResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Episodes retrieved successfully"},
			Episodes:     page.Episodes,
			Count:        len(page.Episodes),
			Total:        page.Total,
			Limit:        page.Limit,
			Offset:       page.Offset,
		})
	}
}
