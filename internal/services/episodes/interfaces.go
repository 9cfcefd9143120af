package episodes

import (
	"context"
	"time"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
)

// EpisodeRepository defines the interface for episode data persistence.
// Every write is scoped to a single episode id.
type EpisodeRepository interface {
	// Create operations
	CreateWithRequest(ctx context.Context, episode *models.Episode, request *models.GenerationRequest) error

	// Read operations
	GetEpisodeByID(ctx context.Context, id string) (*models.Episode, error)
	ListEpisodes(ctx context.Context, limit, offset int) ([]models.Episode, int64, error)
	GetRequestsByEpisodeID(ctx context.Context, episodeID string) ([]models.GenerationRequest, error)

	// Update operations, valid only while the episode is generating
	UpdateScript(ctx context.Context, id, script string, at time.Time) error
	MarkCompleted(ctx context.Context, id, audioRef string, durationSeconds int, at time.Time) error
	MarkFailed(ctx context.Context, id, message string, at time.Time) error
}

// EpisodeService defines the read side of the episode lifecycle
type EpisodeService interface {
	GetStatus(ctx context.Context, id string) (*Summary, error)
	List(ctx context.Context, params ListParams) (*Page, error)
	GetScript(ctx context.Context, id string) (string, error)
	FetchAudio(ctx context.Context, id string) (*Audio, error)
	Requests(ctx context.Context, id string) ([]models.GenerationRequest, error)
}
