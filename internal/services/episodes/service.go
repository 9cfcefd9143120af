package episodes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/storage"
	apperrors "github.com/musicjoeyoung/MCP-ElevenLabs/pkg/errors"
)

// ScriptPlaceholder is returned for episodes whose script has not been written yet
const ScriptPlaceholder = "Script not yet generated"

// Pagination bounds
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Summary is the externally visible state of an episode
type Summary struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     *string              `json:"description,omitempty"`
	Status          models.EpisodeStatus `json:"status"`
	DurationSeconds *int                 `json:"duration_seconds,omitempty"`
	AudioRef        *string              `json:"audio_ref,omitempty"`
	ErrorMessage    string               `json:"error_message,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// NewSummary projects an episode row
func NewSummary(e *models.Episode) Summary {
	return Summary{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Status:          e.Status,
		DurationSeconds: e.DurationSeconds,
		AudioRef:        e.AudioRef,
		ErrorMessage:    e.ErrorMessage,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// ListParams selects a page. Nil fields take their defaults.
type ListParams struct {
	Limit  *int
	Offset *int
}

// Page is one slice of the newest-first episode listing
type Page struct {
	Episodes []Summary `json:"episodes"`
	Total    int64     `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// Audio is a stored episode artifact
type Audio struct {
	Data        []byte
	ContentType string
	Key         string
}

// Service implements EpisodeService
type Service struct {
	repo  EpisodeRepository
	blobs storage.BlobStore
}

// Ensure Service implements EpisodeService interface
var _ EpisodeService = (*Service)(nil)

// NewService creates a new episode query service
func NewService(repo EpisodeRepository, blobs storage.BlobStore) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// GetStatus returns the summary of one episode
func (s *Service) GetStatus(ctx context.Context, id string) (*Summary, error) {
	episode, err := s.getEpisode(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := NewSummary(episode)
	return &summary, nil
}

// List returns episodes newest first
func (s *Service) List(ctx context.Context, params ListParams) (*Page, error) {
	limit, offset := DefaultLimit, 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	if params.Offset != nil {
		offset = *params.Offset
	}
	if limit < 1 || limit > MaxLimit {
		return nil, apperrors.InvalidInput("limit", fmt.Sprintf("must be between 1 and %d", MaxLimit))
	}
	if offset < 0 {
		return nil, apperrors.InvalidInput("offset", "must not be negative")
	}

	rows, total, err := s.repo.ListEpisodes(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to list episodes")
	}

	page := &Page{
		Episodes: make([]Summary, 0, len(rows)),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
	for i := range rows {
		page.Episodes = append(page.Episodes, NewSummary(&rows[i]))
	}
	return page, nil
}

// GetScript returns the script, or ScriptPlaceholder when none has been written
func (s *Service) GetScript(ctx context.Context, id string) (string, error) {
	episode, err := s.getEpisode(ctx, id)
	if err != nil {
		return "", err
	}
	if !episode.HasScript() {
		return ScriptPlaceholder, nil
	}
	return episode.Script, nil
}

// FetchAudio returns the artifact of a completed episode.
// Episodes without an audio reference are NotFound, never partial.
func (s *Service) FetchAudio(ctx context.Context, id string) (*Audio, error) {
	episode, err := s.getEpisode(ctx, id)
	if err != nil {
		return nil, err
	}
	if episode.Status != models.EpisodeStatusCompleted || episode.AudioRef == nil {
		return nil, apperrors.NotFound("audio", id).
			WithDetail("status", string(episode.Status))
	}

	data, contentType, err := s.blobs.Get(ctx, *episode.AudioRef)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, apperrors.NotFound("audio", id).WithCause(err)
		}
		return nil, apperrors.StorageError("get", err)
	}

	return &Audio{Data: data, ContentType: contentType, Key: *episode.AudioRef}, nil
}

// Requests returns the generation requests recorded for an episode
func (s *Service) Requests(ctx context.Context, id string) ([]models.GenerationRequest, error) {
	if _, err := s.getEpisode(ctx, id); err != nil {
		return nil, err
	}
	requests, err := s.repo.GetRequestsByEpisodeID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to load generation requests")
	}
	return requests, nil
}

func (s *Service) getEpisode(ctx context.Context, id string) (*models.Episode, error) {
	episode, err := s.repo.GetEpisodeByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperrors.NotFound("episode", id).WithCause(err)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to load episode")
	}
	return episode, nil
}
