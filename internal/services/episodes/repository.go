package episodes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

// Ensure Repository implements EpisodeRepository interface
var _ EpisodeRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithRequest commits both rows in one transaction.
// The episode id exists and is visible once this returns.
func (r *Repository) CreateWithRequest(ctx context.Context, episode *models.Episode, request *models.GenerationRequest) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(episode).Error; err != nil {
			return fmt.Errorf("creating episode: %w", err)
		}
		request.EpisodeID = episode.ID
		if err := tx.Omit("Episode").Create(request).Error; err != nil {
			return fmt.Errorf("creating generation request: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[DEBUG] Repository.CreateWithRequest: episode=%s request=%s", episode.ID, request.ID)
	return nil
}

func (r *Repository) GetEpisodeByID(ctx context.Context, id string) (*models.Episode, error) {
	var episode models.Episode
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&episode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("episode", id)
		}
		return nil, fmt.Errorf("getting episode: %w", err)
	}
	return &episode, nil
}

// ListEpisodes returns a page of episodes, newest first, and the total count
func (r *Repository) ListEpisodes(ctx context.Context, limit, offset int) ([]models.Episode, int64, error) {
	var episodes []models.Episode
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Episode{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting episodes: %w", err)
	}

	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&episodes).Error; err != nil {
		return nil, 0, fmt.Errorf("listing episodes: %w", err)
	}

	return episodes, total, nil
}

func (r *Repository) GetRequestsByEpisodeID(ctx context.Context, episodeID string) ([]models.GenerationRequest, error) {
	var requests []models.GenerationRequest
	if err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("getting generation requests: %w", err)
	}
	return requests, nil
}

func (r *Repository) UpdateScript(ctx context.Context, id, script string, at time.Time) error {
	return r.updateGenerating(ctx, id, map[string]interface{}{
		"script":     script,
		"updated_at": at,
	})
}

func (r *Repository) MarkCompleted(ctx context.Context, id, audioRef string, durationSeconds int, at time.Time) error {
	return r.updateGenerating(ctx, id, map[string]interface{}{
		"status":           models.EpisodeStatusCompleted,
		"audio_ref":        audioRef,
		"duration_seconds": durationSeconds,
		"error_message":    "",
		"updated_at":       at,
	})
}

func (r *Repository) MarkFailed(ctx context.Context, id, message string, at time.Time) error {
	return r.updateGenerating(ctx, id, map[string]interface{}{
		"status":           models.EpisodeStatusFailed,
		"audio_ref":        nil,
		"duration_seconds": nil,
		"error_message":    message,
		"updated_at":       at,
	})
}

// FailStale fails every episode that has been generating without an update since before.
// It returns the number of episodes changed.
func (r *Repository) FailStale(ctx context.Context, before time.Time, message string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Episode{}).
		Where("status = ? AND updated_at < ?", models.EpisodeStatusGenerating, before).
		Updates(map[string]interface{}{
			"status":           models.EpisodeStatusFailed,
			"audio_ref":        nil,
			"duration_seconds": nil,
			"error_message":    message,
			"updated_at":       at,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failing stale episodes: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// updateGenerating applies values only while the episode is still generating,
// so a terminal status is written at most once
func (r *Repository) updateGenerating(ctx context.Context, id string, values map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Episode{}).
		Where("id = ? AND status = ?", id, models.EpisodeStatusGenerating).
		Updates(values)
	if result.Error != nil {
		return fmt.Errorf("updating episode: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	episode, err := r.GetEpisodeByID(ctx, id)
	if err != nil {
		return err
	}
	return TerminalError{ID: id, Status: string(episode.Status)}
}
