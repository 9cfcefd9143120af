package generation

import (
	"errors"
	"fmt"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/resilience"
	apperrors "github.com/musicjoeyoung/MCP-ElevenLabs/pkg/errors"
)

// Stage names a step of the pipeline
type Stage string

const (
	StageGeneration   Stage = "generation"
	StageSegmentation Stage = "segmentation"
	StageSynthesis    Stage = "synthesis"
	StageAssembly     Stage = "assembly"
	StageStorage      Stage = "storage"
)

// ErrNoTurns is returned when a script holds no lines for either persona
var ErrNoTurns = errors.New("script contains no dialogue turns")

// StageError is a pipeline failure after the episode row exists
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Code classifies the failure. Expired provider deadlines are always API_TIMEOUT.
func (e *StageError) Code() apperrors.ErrorCode {
	if resilience.IsTimeout(e.Err) {
		return apperrors.ErrCodeAPITimeout
	}
	switch e.Stage {
	case StageGeneration:
		return apperrors.ErrCodeGenerationFailure
	case StageSegmentation:
		return apperrors.ErrCodeSegmentationFailure
	case StageSynthesis, StageAssembly:
		return apperrors.ErrCodeSynthesisFailure
	case StageStorage:
		return apperrors.ErrCodeStorageFailure
	default:
		return apperrors.ErrCodeInternal
	}
}

// AppError converts the failure into a structured application error
func (e *StageError) AppError() *apperrors.AppError {
	return apperrors.Wrap(e.Err, e.Code(), e.Error()).WithDetail("stage", string(e.Stage))
}

// AsStageError finds a StageError in err's chain
func AsStageError(err error) (*StageError, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
