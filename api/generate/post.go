package generate

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/generation"
)

// Post runs the full generation pipeline for one request
// @Summary      Generate an episode
// @Description  Turn source material into a two-voice audio episode. The call blocks until the episode is terminal.
// @Description  A pipeline failure still returns 200 with status "failed" and the failing stage in the message.
// @Tags         generation
// @Accept       json
// @Produce      json
// @Param        request body types.GenerateRequest true "Source material and options"
// @Success      200 {object} types.GenerateResponse "Terminal episode state"
// @Failure      400 {object} types.ErrorResponse "Invalid input"
// @Failure      429 {object} types.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/generate [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.GenerateRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		log.Printf("[DEBUG] Generate called: type=%s profile=%q content=%d bytes", req.ContentType, req.Profile, len(req.Content))

		result, err := deps.GenerationService.Submit(c.Request.Context(), generation.SubmitRequest{
			Content:     req.Content,
			ContentType: req.ContentType,
			Title:       req.Title,
			Description: req.Description,
			FocusAreas:  req.FocusAreas,
			Profile:     req.Profile,
			Metadata:    req.Metadata,
		})
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.GenerateResponse{
			EpisodeID:       result.EpisodeID,
			Title:           result.Title,
			Status:          result.Status,
			Message:         result.Message,
			AudioRef:        result.AudioRef,
			DurationSeconds: result.DurationSeconds,
			LowQuality:      result.LowQuality,
		})
	}
}
