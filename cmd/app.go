package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/database"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/providers/elevenlabs"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/providers/openai"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/episodes"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/generation"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/resilience"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/script"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/speech"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/storage"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/telemetry"
	"github.com/musicjoeyoung/MCP-ElevenLabs/pkg/config"
)

// providers are the external services the pipeline calls
type providers struct {
	text   script.TextGenerationProvider
	speech speech.SpeechSynthesisProvider
}

// newProvidersFunc builds providers from config. Tests replace it with fakes.
var newProvidersFunc = newProviders

func newProviders(cfg *config.Config) (providers, error) {
	openaiCfg := openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	}

	text, err := openai.NewClient(openaiCfg)
	if err != nil {
		return providers{}, fmt.Errorf("failed to create text provider: %w", err)
	}

	var sp speech.SpeechSynthesisProvider
	switch cfg.Speech.Provider {
	case config.SpeechProviderOpenAI:
		sp, err = openai.NewSpeechClient(openaiCfg, "")
	default:
		sp, err = elevenlabs.NewClient(elevenlabs.Config{
			APIKey:       cfg.ElevenLabs.APIKey,
			BaseURL:      cfg.ElevenLabs.BaseURL,
			OutputFormat: cfg.ElevenLabs.OutputFormat,
			Timeout:      cfg.ElevenLabs.Timeout,
		})
	}
	if err != nil {
		return providers{}, fmt.Errorf("failed to create speech provider: %w", err)
	}

	return providers{text: text, speech: sp}, nil
}

// speechModelID returns the model passed to the speech provider
func speechModelID(cfg *config.Config) string {
	// The default model id names an ElevenLabs model
	if cfg.Speech.Provider == config.SpeechProviderOpenAI && cfg.Speech.ModelID == elevenlabs.DefaultModelID {
		return ""
	}
	return cfg.Speech.ModelID
}

func newBlobStore(cfg config.StorageConfig) (storage.BlobStore, error) {
	switch cfg.Backend {
	case config.StorageBackendMemory:
		log.Printf("[WARN] Using in-memory audio storage, audio is lost on restart")
		return storage.NewMemoryStore(), nil
	default:
		return storage.NewFilesystemStore(cfg.AudioDir)
	}
}

// application holds the wired services shared by the serve and generate commands
type application struct {
	cfg        *config.Config
	db         *database.DB
	telemetry  *telemetry.Provider
	repo       *episodes.Repository
	episodes   *episodes.Service
	generation *generation.Service
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	profile, err := script.LookupProfile(cfg.Generation.Profile)
	if err != nil {
		return nil, fmt.Errorf("invalid generation.profile: %w", err)
	}

	personas := script.Personas{Primary: cfg.Personas.Primary.Name, Secondary: cfg.Personas.Secondary.Name}
	if err := personas.Validate(); err != nil {
		return nil, err
	}
	voices, err := speech.NewVoiceMap(
		speech.Voice{Persona: cfg.Personas.Primary.Name, VoiceID: cfg.Personas.Primary.VoiceID},
		speech.Voice{Persona: cfg.Personas.Secondary.Name, VoiceID: cfg.Personas.Secondary.VoiceID},
	)
	if err != nil {
		return nil, err
	}

	p, err := newProvidersFunc(cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := newBlobStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio storage: %w", err)
	}

	db, err := database.InitializeWithMigrations(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	serviceName := cfg.Monitoring.ServiceName
	if serviceName == "" {
		serviceName = "podgen"
	}
	tel, err := telemetry.Setup(ctx, serviceName, Version)
	if err != nil {
		db.Close()
		return nil, err
	}
	metrics, err := telemetry.NewMetrics(tel.Meter())
	if err != nil {
		db.Close()
		return nil, err
	}

	policy := resilience.Policy{
		Timeout:              cfg.Generation.StageTimeout,
		RetryAttempts:        cfg.Generation.RetryAttempts,
		RetryInitialInterval: cfg.Generation.RetryInitialInterval,
	}

	repo := episodes.NewRepository(db.DB)
	generator := script.NewGenerator(p.text, script.GeneratorConfig{
		Personas:       personas,
		MaxTokens:      cfg.Generation.MaxTokens,
		MinScriptChars: cfg.Generation.MinScriptChars,
	})
	synthesizer := speech.NewSynthesizer(p.speech, voices, speechModelID(cfg), policy)
	orchestrator := generation.NewOrchestrator(repo, generator, script.NewSegmenter(personas), synthesizer, blobs, metrics,
		generation.OrchestratorConfig{
			AudioContentType: cfg.Speech.ContentType,
			Policy:           policy,
		})

	log.Printf("[INFO] Pipeline ready: profile=%s speech=%s storage=%s", profile.Name, cfg.Speech.Provider, cfg.Storage.Backend)

	return &application{
		cfg:        cfg,
		db:         db,
		telemetry:  tel,
		repo:       repo,
		episodes:   episodes.NewService(repo, blobs),
		generation: generation.NewService(repo, orchestrator, profile),
	}, nil
}

// dependencies exposes the services to the HTTP handlers
func (a *application) dependencies() *types.Dependencies {
	deps := &types.Dependencies{
		DB:                a.db,
		EpisodeService:    a.episodes,
		GenerationService: a.generation,
		Version:           Version,
	}
	if a.cfg.Monitoring.Enabled {
		deps.MetricsHandler = a.telemetry.Handler()
	}
	return deps
}

func (a *application) Close(ctx context.Context) error {
	return errors.Join(a.telemetry.Shutdown(ctx), a.db.Close())
}

// setGinMode keeps gin's debug route dump for debug logging only
func setGinMode(level string) {
	if level == "debug" {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
