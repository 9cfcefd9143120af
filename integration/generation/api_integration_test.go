package generation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api"
	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/database"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/episodes"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/generation"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/resilience"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/script"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/speech"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/storage"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/telemetry"
	"github.com/musicjoeyoung/MCP-ElevenLabs/pkg/config"
)

const dialogue = `Here is your episode.

Alex: Welcome back to the show, today we are reading some code.
Sam: I brought coffee, so let's go slowly.
Alex: The entrypoint is tiny, it just calls Execute.
Sam: Which is exactly how I like my entrypoints.`

type scriptedText struct {
	mu      sync.Mutex
	err     error
	prompts [][]script.Message
}

func (s *scriptedText) Generate(ctx context.Context, messages []script.Message, maxTokens int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, messages)
	if s.err != nil {
		return "", s.err
	}
	return dialogue, nil
}

type echoSpeech struct {
	failVoice string
}

func (e *echoSpeech) Stream(ctx context.Context, voiceID, text, modelID string) (io.ReadCloser, error) {
	if voiceID == e.failVoice {
		return nil, errors.New("voice unavailable")
	}
	return io.NopCloser(strings.NewReader(fmt.Sprintf("[%s]%s", voiceID, text))), nil
}

type APITestSuite struct {
	t      *testing.T
	server *api.Server
	text   *scriptedText
	speech *echoSpeech
	blobs  *storage.MemoryStore
}

func setupAPITestSuite(t *testing.T) *APITestSuite {
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	tel, err := telemetry.Setup(context.Background(), "podgen-test", "test")
	require.NoError(t, err)
	t.Cleanup(func() { tel.Shutdown(context.Background()) })
	metrics, err := telemetry.NewMetrics(tel.Meter())
	require.NoError(t, err)

	personas := script.Personas{Primary: "Alex", Secondary: "Sam"}
	voices, err := speech.NewVoiceMap(
		speech.Voice{Persona: "Alex", VoiceID: "voice-alex"},
		speech.Voice{Persona: "Sam", VoiceID: "voice-sam"},
	)
	require.NoError(t, err)

	text := &scriptedText{}
	sp := &echoSpeech{}
	blobs := storage.NewMemoryStore()
	repo := episodes.NewRepository(db.DB)
	policy := resilience.Policy{Timeout: 5 * time.Second}

	orchestrator := generation.NewOrchestrator(
		repo,
		script.NewGenerator(text, script.GeneratorConfig{Personas: personas, MaxTokens: 1024, MinScriptChars: 20}),
		script.NewSegmenter(personas),
		speech.NewSynthesizer(sp, voices, "", policy),
		blobs,
		metrics,
		generation.OrchestratorConfig{AudioContentType: "audio/mpeg", Policy: policy},
	)

	deps := &types.Dependencies{
		DB:                db,
		EpisodeService:    episodes.NewService(repo, blobs),
		GenerationService: generation.NewService(repo, orchestrator, script.ProfileConversation),
		MetricsHandler:    tel.Handler(),
		Version:           "test",
	}

	cfg := &config.Config{
		Server:       config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		RateLimiting: config.RateLimitConfig{Enabled: false},
		Monitoring:   config.MonitoringConfig{Enabled: true, MetricsPath: "/metrics"},
	}
	server := api.NewServer(cfg, deps)
	require.NoError(t, server.Initialize())
	t.Cleanup(func() { server.Shutdown(context.Background()) })

	return &APITestSuite{t: t, server: server, text: text, speech: sp, blobs: blobs}
}

func (s *APITestSuite) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.server.Engine().ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) generate(body map[string]any) types.GenerateResponse {
	w := s.do(http.MethodPost, "/api/v1/generate", body)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp types.GenerateResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGenerationFlow(t *testing.T) {
	suite := setupAPITestSuite(t)

	resp := suite.generate(map[string]any{
		"content":      "package main\n\nfunc main() { cmd.Execute() }",
		"content_type": "code",
		"title":        "Reading main.go",
		"description":  "A short walkthrough",
		"focus_areas":  []string{"entrypoint", "cobra"},
		"metadata":     map[string]any{"language": "go", "lines": 3, "tags": []string{"cli"}},
	})

	assert.Equal(t, models.EpisodeStatusCompleted, resp.Status)
	assert.Equal(t, "Reading main.go", resp.Title)
	assert.Equal(t, generation.MessageCompleted, resp.Message)
	require.NotNil(t, resp.AudioRef)
	assert.Equal(t, "episodes/"+resp.EpisodeID+".mp3", *resp.AudioRef)
	require.NotNil(t, resp.DurationSeconds)
	assert.Greater(t, *resp.DurationSeconds, 0)

	// The prompt carried the focus areas
	require.Len(t, suite.text.prompts, 1)
	var prompt string
	for _, m := range suite.text.prompts[0] {
		prompt += m.Content
	}
	assert.Contains(t, prompt, "entrypoint")
	assert.Contains(t, prompt, "cobra")

	t.Run("status", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/v1/episodes/"+resp.EpisodeID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var body types.SingleEpisodeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, models.EpisodeStatusCompleted, body.Episode.Status)
		require.NotNil(t, body.Episode.Description)
		assert.Equal(t, "A short walkthrough", *body.Episode.Description)
	})

	t.Run("list", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/v1/episodes", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var body types.EpisodesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(1), body.Total)
		require.Len(t, body.Episodes, 1)
		assert.Equal(t, resp.EpisodeID, body.Episodes[0].ID)
	})

	t.Run("script", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/v1/episodes/"+resp.EpisodeID+"/script", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		assert.Equal(t, dialogue, w.Body.String())
	})

	t.Run("audio in turn order", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/v1/episodes/"+resp.EpisodeID+"/audio", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))

		expected := "[voice-alex]Welcome back to the show, today we are reading some code." +
			"[voice-sam]I brought coffee, so let's go slowly." +
			"[voice-alex]The entrypoint is tiny, it just calls Execute." +
			"[voice-sam]Which is exactly how I like my entrypoints."
		assert.Equal(t, expected, w.Body.String())
	})

	t.Run("audio range", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/v1/episodes/"+resp.EpisodeID+"/audio", nil, "Range", "bytes=0-11")
		require.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, "[voice-alex]", w.Body.String())
	})

	t.Run("requests keep metadata", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/v1/episodes/"+resp.EpisodeID+"/requests", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Requests []struct {
				SourceType     string         `json:"source_type"`
				SourceMetadata map[string]any `json:"source_metadata"`
			} `json:"requests"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Requests, 1)
		assert.Equal(t, "code", body.Requests[0].SourceType)
		meta := body.Requests[0].SourceMetadata
		assert.Equal(t, "go", meta["language"])
		assert.Equal(t, float64(3), meta["lines"])
		assert.Equal(t, []any{"cli"}, meta["tags"])
		assert.Equal(t, []any{"entrypoint", "cobra"}, meta["focus_areas"])
		assert.Equal(t, "conversation", meta["profile"])
	})

	t.Run("metrics", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/metrics", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "podgen_generation_runs")
		assert.Contains(t, w.Body.String(), "podgen_audio_bytes")
	})
}

func TestGenerationFlow_SynthesisFailure(t *testing.T) {
	suite := setupAPITestSuite(t)
	suite.speech.failVoice = "voice-sam"

	resp := suite.generate(map[string]any{"content": "We argued about tabs.", "content_type": "discussion"})
	assert.Equal(t, models.EpisodeStatusFailed, resp.Status)
	assert.True(t, strings.HasPrefix(resp.Message, "synthesis failed: "), resp.Message)
	assert.Contains(t, resp.Message, "voice unavailable")
	assert.Nil(t, resp.AudioRef)
	assert.Zero(t, suite.blobs.Len())

	// The script checkpoint survives the failure
	w := suite.do(http.MethodGet, "/api/v1/episodes/"+resp.EpisodeID+"/script", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dialogue, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/episodes/"+resp.EpisodeID+"/audio", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/episodes/"+resp.EpisodeID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body types.SingleEpisodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.EpisodeStatusFailed, body.Episode.Status)
	assert.Equal(t, resp.Message, body.Episode.ErrorMessage)
}

func TestGenerationFlow_GenerationFailureLeavesPlaceholder(t *testing.T) {
	suite := setupAPITestSuite(t)
	suite.text.err = errors.New("model overloaded")

	resp := suite.generate(map[string]any{"content": "A todo app in Rust.", "content_type": "project"})
	assert.Equal(t, models.EpisodeStatusFailed, resp.Status)
	assert.True(t, strings.HasPrefix(resp.Message, "generation failed: "), resp.Message)
	assert.Contains(t, resp.Message, "model overloaded")
	assert.Equal(t, "Project deep dive", resp.Title)

	w := suite.do(http.MethodGet, "/api/v1/episodes/"+resp.EpisodeID+"/script", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, episodes.ScriptPlaceholder, w.Body.String())
}

func TestGenerationFlow_InvalidInput(t *testing.T) {
	suite := setupAPITestSuite(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "empty content", body: map[string]any{"content": "  ", "content_type": "code"}},
		{name: "unknown type", body: map[string]any{"content": "x", "content_type": "podcast"}},
		{name: "unknown profile", body: map[string]any{"content": "x", "content_type": "code", "profile": "epic"}},
		{name: "nested metadata", body: map[string]any{"content": "x", "content_type": "code", "metadata": map[string]any{"a": map[string]any{"b": 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := suite.do(http.MethodPost, "/api/v1/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	// Nothing was created
	w := suite.do(http.MethodGet, "/api/v1/episodes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body types.EpisodesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.Total)
	assert.Empty(t, suite.text.prompts)
}

func TestGenerationFlow_ConcurrentSubmissions(t *testing.T) {
	suite := setupAPITestSuite(t)

	const n = 4
	var wg sync.WaitGroup
	results := make([]types.GenerateResponse, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := suite.do(http.MethodPost, "/api/v1/generate", map[string]any{
				"content":      fmt.Sprintf("project %d", i),
				"content_type": "project",
				"title":        fmt.Sprintf("Episode %d", i),
			})
			if w.Code == http.StatusOK {
				json.Unmarshal(w.Body.Bytes(), &results[i])
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i, r := range results {
		assert.Equal(t, models.EpisodeStatusCompleted, r.Status, "episode %d", i)
		assert.Equal(t, fmt.Sprintf("Episode %d", i), r.Title)
		seen[r.EpisodeID] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, suite.blobs.Len())
}
