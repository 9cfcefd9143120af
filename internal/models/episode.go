package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EpisodeStatus represents where an episode is in the generation pipeline
type EpisodeStatus string

const (
	EpisodeStatusGenerating EpisodeStatus = "generating"
	EpisodeStatusCompleted  EpisodeStatus = "completed"
	EpisodeStatusFailed     EpisodeStatus = "failed"
)

// IsTerminal reports whether no further transition can happen
func (s EpisodeStatus) IsTerminal() bool {
	return s == EpisodeStatusCompleted || s == EpisodeStatusFailed
}

// SourceType classifies the material an episode is built from
type SourceType string

const (
	SourceTypeCode       SourceType = "code"
	SourceTypeFile       SourceType = "file"
	SourceTypeDiscussion SourceType = "discussion"
	SourceTypeProject    SourceType = "project"
)

// SourceTypes lists every accepted source type
var SourceTypes = []SourceType{SourceTypeCode, SourceTypeFile, SourceTypeDiscussion, SourceTypeProject}

// Valid reports whether t is one of the accepted source types
func (t SourceType) Valid() bool {
	for _, known := range SourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseSourceType converts a raw string into a SourceType
func ParseSourceType(raw string) (SourceType, error) {
	t := SourceType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("unknown source type %q", raw)
	}
	return t, nil
}

// Episode is one generated audio artifact and its metadata.
// AudioRef and DurationSeconds are set only once Status is completed.
type Episode struct {
	ID              string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title           string        `json:"title" gorm:"not null"`
	Description     *string       `json:"description,omitempty" gorm:"type:text"`
	Script          string        `json:"-" gorm:"type:text;not null;default:''"`
	AudioRef        *string       `json:"audio_ref,omitempty"`
	DurationSeconds *int          `json:"duration_seconds,omitempty"`
	Status          EpisodeStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	ErrorMessage    string        `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt       time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Episode) TableName() string {
	return "episodes"
}

// BeforeCreate assigns an id and the initial status
func (e *Episode) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = EpisodeStatusGenerating
	}
	return nil
}

// HasScript reports whether the script checkpoint has been written
func (e *Episode) HasScript() bool {
	return e.Script != ""
}

// GenerationRequest is the audit record of one submission against an episode
type GenerationRequest struct {
	ID             string                             `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EpisodeID      string                             `json:"episode_id" gorm:"type:varchar(36);not null;index"`
	SourceType     SourceType                         `json:"source_type" gorm:"type:varchar(20);not null"`
	SourceContent  string                             `json:"source_content" gorm:"type:text;not null"`
	SourceMetadata datatypes.JSONType[SourceMetadata] `json:"source_metadata"`
	CreatedAt      time.Time                          `json:"created_at"`

	Episode *Episode `json:"-" gorm:"foreignKey:EpisodeID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (GenerationRequest) TableName() string {
	return "generation_requests"
}

// BeforeCreate assigns an id
func (r *GenerationRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Metadata returns the decoded source metadata, nil when none was given
func (r *GenerationRequest) Metadata() SourceMetadata {
	return r.SourceMetadata.Data()
}

// AllModels lists every model managed by migrations, parents first
func AllModels() []any {
	return []any{&Episode{}, &GenerationRequest{}}
}
