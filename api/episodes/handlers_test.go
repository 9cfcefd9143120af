package episodes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/database"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/episodes"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/storage"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	router *gin.Engine
	repo   *episodes.Repository
	blobs  *storage.MemoryStore
}

func setupEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	repo := episodes.NewRepository(db.DB)
	blobs := storage.NewMemoryStore()
	deps := &types.Dependencies{DB: db, EpisodeService: episodes.NewService(repo, blobs)}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1/episodes"), deps)
	return &testEnv{router: router, repo: repo, blobs: blobs}
}

func (e *testEnv) create(t *testing.T, title string, at time.Time) *models.Episode {
	episode := &models.Episode{Title: title, CreatedAt: at, UpdatedAt: at}
	request := &models.GenerationRequest{SourceType: models.SourceTypeProject, SourceContent: "a project", CreatedAt: at}
	require.NoError(t, e.repo.CreateWithRequest(context.Background(), episode, request))
	return episode
}

func (e *testEnv) get(path string, headers ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	e.router.ServeHTTP(w, req)
	return w
}

func TestGetAll(t *testing.T) {
	env := setupEnv(t)
	for i := 0; i < 15; i++ {
		env.create(t, fmt.Sprintf("episode %d", i), baseTime.Add(time.Duration(i)*time.Minute))
	}

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
		firstTitle     string
	}{
		{name: "defaults", query: "", expectedStatus: http.StatusOK, expectedCount: 10, firstTitle: "episode 14"},
		{name: "second page", query: "?limit=10&offset=10", expectedStatus: http.StatusOK, expectedCount: 5, firstTitle: "episode 4"},
		{name: "past the end", query: "?offset=40", expectedStatus: http.StatusOK, expectedCount: 0},
		{name: "limit too large", query: "?limit=101", expectedStatus: http.StatusBadRequest},
		{name: "limit zero", query: "?limit=0", expectedStatus: http.StatusBadRequest},
		{name: "negative offset", query: "?offset=-1", expectedStatus: http.StatusBadRequest},
		{name: "non numeric", query: "?limit=abc", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.get("/api/v1/episodes" + tt.query)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp types.EpisodesResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, types.StatusOK, resp.Status)
			assert.Equal(t, int64(15), resp.Total)
			assert.Equal(t, tt.expectedCount, resp.Count)
			require.Len(t, resp.Episodes, tt.expectedCount)
			if tt.firstTitle != "" {
				assert.Equal(t, tt.firstTitle, resp.Episodes[0].Title)
			}
		})
	}
}

func TestGetByID(t *testing.T) {
	env := setupEnv(t)
	episode := env.create(t, "Project deep dive", baseTime)

	w := env.get("/api/v1/episodes/" + episode.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.SingleEpisodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, episode.ID, resp.Episode.ID)
	assert.Equal(t, models.EpisodeStatusGenerating, resp.Episode.Status)

	w = env.get("/api/v1/episodes/does-not-exist")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetScript(t *testing.T) {
	env := setupEnv(t)
	episode := env.create(t, "t", baseTime)

	w := env.get("/api/v1/episodes/" + episode.ID + "/script")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, episodes.ScriptPlaceholder, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	require.NoError(t, env.repo.UpdateScript(context.Background(), episode.ID, "Alex: hi\nSam: hey", baseTime))
	w = env.get("/api/v1/episodes/" + episode.ID + "/script")
	assert.Equal(t, "Alex: hi\nSam: hey", w.Body.String())

	w = env.get("/api/v1/episodes/missing/script")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAudio(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	completed := env.create(t, "done", baseTime)
	key := storage.AudioKey(completed.ID, "audio/mpeg")
	require.NoError(t, env.blobs.Put(ctx, key, []byte("0123456789"), "audio/mpeg"))
	require.NoError(t, env.repo.MarkCompleted(ctx, completed.ID, key, 4, baseTime))

	pending := env.create(t, "pending", baseTime)

	t.Run("full body", func(t *testing.T) {
		w := env.get("/api/v1/episodes/" + completed.ID + "/audio")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, "0123456789", w.Body.String())
		assert.Equal(t, "10", w.Header().Get("Content-Length"))
	})

	t.Run("range", func(t *testing.T) {
		w := env.get("/api/v1/episodes/"+completed.ID+"/audio", "Range", "bytes=2-5")
		require.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, "2345", w.Body.String())
		assert.Equal(t, "bytes 2-5/10", w.Header().Get("Content-Range"))
	})

	t.Run("not completed", func(t *testing.T) {
		w := env.get("/api/v1/episodes/" + pending.ID + "/audio")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetRequests(t *testing.T) {
	env := setupEnv(t)
	episode := env.create(t, "t", baseTime)

	w := env.get("/api/v1/episodes/" + episode.ID + "/requests")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["count"])
	requests := resp["requests"].([]interface{})
	first := requests[0].(map[string]interface{})
	assert.Equal(t, "project", first["source_type"])
	assert.Equal(t, episode.ID, first["episode_id"])
}
