package types

import (
	"net/http"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/database"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/episodes"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/generation"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB                *database.DB
	EpisodeService    episodes.EpisodeService
	GenerationService generation.GenerationService
	MetricsHandler    http.Handler
	Version           string
}
