package episodes

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
)

// GetAudio serves the stored audio of a completed episode. Range requests are supported.
// @Summary      Get episode audio
// @Tags         episodes
// @Produce      audio/mpeg
// @Param        id path string true "Episode ID"
// @Success      200 {file} binary "Audio bytes"
// @Success      206 {file} binary "Partial audio content"
// @Failure      404 {object} types.ErrorResponse "Episode or audio not found"
// @Failure      500 {object} types.ErrorResponse "Storage failure"
// @Router       /api/v1/episodes/{id}/audio [get]
func GetAudio(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		audio, err := deps.EpisodeService.FetchAudio(c.Request.Context(), id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		log.Printf("[DEBUG] Serving audio for episode %s: %d bytes of %s", id, len(audio.Data), audio.ContentType)

		c.Header("Content-Type", audio.ContentType)
		c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, path.Base(audio.Key)))
		c.Header("Cache-Control", "public, max-age=3600")
		http.ServeContent(c.Writer, c.Request, path.Base(audio.Key), time.Time{}, bytes.NewReader(audio.Data))
	}
}
