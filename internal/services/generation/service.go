package generation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/episodes"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/script"
	apperrors "github.com/musicjoeyoung/MCP-ElevenLabs/pkg/errors"
	"gorm.io/datatypes"
)

// Metadata keys recorded alongside the user's own source metadata
const (
	MetadataKeyFocusAreas = "focus_areas"
	MetadataKeyProfile    = "profile"
	MetadataKeyTitle      = "title"
)

// Result messages for a finished submission
const (
	MessageCompleted = "Episode generated successfully"
)

// SubmitRequest is one call to generate an episode
type SubmitRequest struct {
	Content     string
	ContentType string
	Title       string
	Description string
	FocusAreas  []string
	Profile     string
	Metadata    models.SourceMetadata
}

// SubmitResult reports the terminal state of a submitted episode
type SubmitResult struct {
	EpisodeID       string               `json:"episode_id"`
	Title           string               `json:"title"`
	Status          models.EpisodeStatus `json:"status"`
	Message         string               `json:"message"`
	AudioRef        *string              `json:"audio_ref,omitempty"`
	DurationSeconds *int                 `json:"duration_seconds,omitempty"`
	LowQuality      bool                 `json:"low_quality,omitempty"`
}

// Service accepts generation requests and runs them to completion
type Service struct {
	repo           episodes.EpisodeRepository
	orchestrator   *Orchestrator
	defaultProfile script.Profile
	now            func() time.Time
}

// NewService creates a submission service. defaultProfile applies when a request names none.
func NewService(repo episodes.EpisodeRepository, orchestrator *Orchestrator, defaultProfile script.Profile) *Service {
	return &Service{
		repo:           repo,
		orchestrator:   orchestrator,
		defaultProfile: defaultProfile,
		now:            orchestrator.cfg.Now,
	}
}

// Submit validates req, creates the episode and its request record, and runs the pipeline.
//
// Invalid input returns an InvalidInput error before anything is written. Once the
// episode exists a pipeline failure is reported through the result with status failed.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	input, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	episode := &models.Episode{
		Title:     script.TitleFor(req.Title, input.ContentType),
		Status:    models.EpisodeStatusGenerating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		episode.Description = &d
	}
	request := &models.GenerationRequest{
		SourceType:     input.ContentType,
		SourceContent:  req.Content,
		SourceMetadata: datatypes.NewJSONType(requestMetadata(req.Metadata, input)),
		CreatedAt:      now,
	}

	if err := s.repo.CreateWithRequest(ctx, episode, request); err != nil {
		return nil, apperrors.StorageError("create episode", err)
	}
	log.Printf("[INFO] Created episode %s (%s, %d bytes of %s)", episode.ID, episode.Title, len(req.Content), input.ContentType)

	outcome, err := s.orchestrator.Run(ctx, episode.ID, input)
	if outcome == nil {
		s.abandon(ctx, episode.ID, err)
		return nil, err
	}

	result := &SubmitResult{
		EpisodeID:       episode.ID,
		Title:           episode.Title,
		Status:          outcome.Status,
		AudioRef:        outcome.AudioRef,
		DurationSeconds: outcome.DurationSeconds,
		LowQuality:      outcome.LowQuality,
	}

	if err != nil {
		stageErr, ok := AsStageError(err)
		if !ok || outcome.Status != models.EpisodeStatusFailed {
			// The failure itself could not be recorded
			return nil, err
		}
		result.Message = stageErr.Error()
		return result, nil
	}

	result.Message = MessageCompleted
	return result, nil
}

// abandon fails an episode the orchestrator never ran, so no submission
// returns while its episode is still generating
func (s *Service) abandon(ctx context.Context, id string, cause error) {
	message := fmt.Sprintf("%s failed: %v", StageStorage, cause)
	if err := s.repo.MarkFailed(context.WithoutCancel(ctx), id, message, s.now()); err != nil && !episodes.IsTerminal(err) {
		log.Printf("[ERROR] Failed to mark abandoned episode %s as failed: %v", id, err)
	}
}

func (s *Service) validate(req SubmitRequest) (script.Input, error) {
	if strings.TrimSpace(req.Content) == "" {
		return script.Input{}, apperrors.InvalidInput("content", "must not be empty")
	}

	contentType, err := models.ParseSourceType(req.ContentType)
	if err != nil {
		return script.Input{}, apperrors.InvalidInput("content_type", err.Error())
	}

	profile := s.defaultProfile
	if name := strings.TrimSpace(req.Profile); name != "" {
		if profile, err = script.LookupProfile(name); err != nil {
			return script.Input{}, err
		}
	}

	if err := req.Metadata.Validate(); err != nil {
		return script.Input{}, apperrors.InvalidInput("metadata", err.Error())
	}

	var focus []string
	for _, area := range req.FocusAreas {
		if area = strings.TrimSpace(area); area != "" {
			focus = append(focus, area)
		}
	}

	return script.Input{
		Content:     req.Content,
		ContentType: contentType,
		Title:       req.Title,
		FocusAreas:  focus,
		Profile:     profile,
	}, nil
}

// requestMetadata merges user metadata with the generation parameters. The
// parameters win on key collisions.
func requestMetadata(user models.SourceMetadata, in script.Input) models.SourceMetadata {
	meta := make(models.SourceMetadata, len(user)+3)
	for k, v := range user {
		meta[k] = v
	}
	meta[MetadataKeyProfile] = models.StringValue(in.Profile.Name)
	if len(in.FocusAreas) > 0 {
		meta[MetadataKeyFocusAreas] = models.StringsValue(in.FocusAreas)
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		meta[MetadataKeyTitle] = models.StringValue(t)
	}
	return meta
}
