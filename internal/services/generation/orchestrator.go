package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/episodes"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/resilience"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/script"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/speech"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/storage"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/telemetry"
	apperrors "github.com/musicjoeyoung/MCP-ElevenLabs/pkg/errors"
)

// OrchestratorConfig holds the pipeline settings that are not collaborators
type OrchestratorConfig struct {
	// AudioContentType is recorded with every stored artifact
	AudioContentType string
	// Policy wraps the text generation call
	Policy resilience.Policy
	// Now overrides the clock, for tests
	Now func() time.Time
}

// Outcome is the terminal state reached by a run
type Outcome struct {
	EpisodeID       string
	Status          models.EpisodeStatus
	AudioRef        *string
	DurationSeconds *int
	LowQuality      bool
	Failure         *StageError
}

// Orchestrator sequences the pipeline stages for one episode and owns its status
type Orchestrator struct {
	repo        episodes.EpisodeRepository
	generator   *script.Generator
	segmenter   *script.Segmenter
	synthesizer *speech.Synthesizer
	blobs       storage.BlobStore
	metrics     *telemetry.Metrics
	cfg         OrchestratorConfig
}

// NewOrchestrator wires the pipeline. metrics may be nil.
func NewOrchestrator(
	repo episodes.EpisodeRepository,
	generator *script.Generator,
	segmenter *script.Segmenter,
	synthesizer *speech.Synthesizer,
	blobs storage.BlobStore,
	metrics *telemetry.Metrics,
	cfg OrchestratorConfig,
) *Orchestrator {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.AudioContentType == "" {
		cfg.AudioContentType = "audio/mpeg"
	}
	return &Orchestrator{
		repo:        repo,
		generator:   generator,
		segmenter:   segmenter,
		synthesizer: synthesizer,
		blobs:       blobs,
		metrics:     metrics,
		cfg:         cfg,
	}
}

// Run drives a generating episode to a terminal status.
//
// A stage failure is persisted as status=failed and returned as a *StageError
// together with the Outcome. An episode that is already terminal yields a
// Conflict error and is left untouched.
func (o *Orchestrator) Run(ctx context.Context, episodeID string, in script.Input) (*Outcome, error) {
	// Loaded detached: a cancelled caller must still reach the terminal write
	episode, err := o.repo.GetEpisodeByID(context.WithoutCancel(ctx), episodeID)
	if err != nil {
		if episodes.IsNotFound(err) {
			return nil, apperrors.NotFound("episode", episodeID).WithCause(err)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to load episode")
	}
	if episode.Status.IsTerminal() {
		return nil, apperrors.Conflict("episode", episodeID, episodes.ErrEpisodeTerminal.Error()).
			WithDetail("status", string(episode.Status))
	}

	started := o.cfg.Now()
	outcome, err := o.run(ctx, episodeID, in)
	o.metrics.RecordRun(context.WithoutCancel(ctx), string(outcome.Status), o.cfg.Now().Sub(started))
	return outcome, err
}

func (o *Orchestrator) run(ctx context.Context, id string, in script.Input) (*Outcome, error) {
	outcome := &Outcome{EpisodeID: id, Status: models.EpisodeStatusGenerating}

	log.Printf("[INFO] Generation started: episode=%s type=%s profile=%s", id, in.ContentType, in.Profile.Name)

	result, err := resilience.Do(ctx, o.cfg.Policy, "text generation", func(ctx context.Context) (*script.Result, error) {
		return o.generator.Generate(ctx, in)
	})
	if err != nil {
		return o.fail(ctx, outcome, StageGeneration, err)
	}
	if result.LowQuality {
		outcome.LowQuality = true
		o.metrics.RecordLowQuality(ctx, in.Profile.Name)
	}

	// Checkpoint: the script stays inspectable whatever happens next
	if err := o.repo.UpdateScript(ctx, id, result.Script, o.cfg.Now()); err != nil {
		return o.fail(ctx, outcome, StageStorage, fmt.Errorf("saving script: %w", err))
	}

	turns := o.segmenter.Segment(result.Script)
	if len(turns) == 0 {
		return o.fail(ctx, outcome, StageSegmentation, ErrNoTurns)
	}
	log.Printf("[DEBUG] Generation: episode=%s segmented into %d turns", id, len(turns))

	audio, err := speech.Assemble(ctx, o.synthesizer.Stream(turns))
	if err != nil {
		if errors.Is(err, speech.ErrNoAudio) {
			return o.fail(ctx, outcome, StageAssembly, err)
		}
		return o.fail(ctx, outcome, StageSynthesis, err)
	}
	o.metrics.RecordAudioBytes(ctx, len(audio))

	key := storage.AudioKey(id, o.cfg.AudioContentType)
	if err := o.blobs.Put(ctx, key, audio, o.cfg.AudioContentType); err != nil {
		return o.fail(ctx, outcome, StageStorage, fmt.Errorf("saving audio: %w", err))
	}

	duration := script.EstimateDuration(result.Script)
	if err := o.repo.MarkCompleted(context.WithoutCancel(ctx), id, key, duration, o.cfg.Now()); err != nil {
		o.discardAudio(ctx, id, key)
		return o.fail(ctx, outcome, StageStorage, fmt.Errorf("saving status: %w", err))
	}

	outcome.Status = models.EpisodeStatusCompleted
	outcome.AudioRef = &key
	outcome.DurationSeconds = &duration
	log.Printf("[INFO] Generation completed: episode=%s turns=%d bytes=%d duration=%ds", id, len(turns), len(audio), duration)
	return outcome, nil
}

// discardAudio removes audio that no episode row will ever reference
func (o *Orchestrator) discardAudio(ctx context.Context, id, key string) {
	if err := o.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		log.Printf("[WARN] Failed to remove orphaned audio for episode %s: %v", id, err)
	}
}

// fail persists status=failed. The write is detached from ctx so a cancelled
// caller still leaves the episode terminal.
func (o *Orchestrator) fail(ctx context.Context, outcome *Outcome, stage Stage, cause error) (*Outcome, error) {
	stageErr := &StageError{Stage: stage, Err: cause}
	o.metrics.RecordStageFailure(context.WithoutCancel(ctx), string(stage))
	log.Printf("[ERROR] Generation failed: episode=%s %v", outcome.EpisodeID, stageErr)

	if err := o.repo.MarkFailed(context.WithoutCancel(ctx), outcome.EpisodeID, stageErr.Error(), o.cfg.Now()); err != nil {
		log.Printf("[ERROR] Failed to mark episode %s as failed: %v", outcome.EpisodeID, err)
		return outcome, apperrors.Wrap(err, apperrors.ErrCodeStorageFailure, "failed to record episode failure").
			WithDetail("stage", string(stage))
	}

	outcome.Status = models.EpisodeStatusFailed
	outcome.Failure = stageErr
	return outcome, stageErr
}
