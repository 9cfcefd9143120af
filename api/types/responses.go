package types

import (
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/episodes"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`  // One of the Status constants above
	Message string `json:"message"` // Human-readable message
}

// GenerateRequest is the body of POST /api/v1/generate
type GenerateRequest struct {
	Content     string                `json:"content" example:"package main\n\nfunc main() {}"`
	ContentType string                `json:"content_type" example:"code"` // code, file, discussion or project
	Title       string                `json:"title,omitempty"`
	Description string                `json:"description,omitempty"`
	FocusAreas  []string              `json:"focus_areas,omitempty"`
	Profile     string                `json:"profile,omitempty" example:"conversation"` // highlight or conversation
	Metadata    models.SourceMetadata `json:"metadata,omitempty" swaggertype:"object"`
}

// GenerateResponse reports the terminal state of a generation request.
// Status is the episode status, so a pipeline failure reads "failed".
type GenerateResponse struct {
	EpisodeID       string               `json:"episode_id"`
	Title           string               `json:"title"`
	Status          models.EpisodeStatus `json:"status"`
	Message         string               `json:"message"`
	AudioRef        *string              `json:"audio_ref,omitempty"`
	DurationSeconds *int                 `json:"duration_seconds,omitempty"`
	LowQuality      bool                 `json:"low_quality,omitempty"`
}

// EpisodesResponse for episode lists
type EpisodesResponse struct {
	BaseResponse
	Episodes []episodes.Summary `json:"episodes"`
	Count    int                `json:"count"` // Number of results in this response
	Total    int64              `json:"total"` // Total episodes stored
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// SingleEpisodeResponse for getting a single episode
type SingleEpisodeResponse struct {
	BaseResponse
	Episode episodes.Summary `json:"episode"`
}

// GenerationRequestsResponse lists the submissions recorded for an episode
type GenerationRequestsResponse struct {
	BaseResponse
	Requests []models.GenerationRequest `json:"requests"`
	Count    int                        `json:"count"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version,omitempty"`
	Database  map[string]interface{} `json:"database"`
}
