package episodes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/storage"
	apperrors "github.com/musicjoeyoung/MCP-ElevenLabs/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEpisodeRepository is a mock implementation of EpisodeRepository
type MockEpisodeRepository struct {
	mock.Mock
}

func (m *MockEpisodeRepository) CreateWithRequest(ctx context.Context, episode *models.Episode, request *models.GenerationRequest) error {
	return m.Called(ctx, episode, request).Error(0)
}

func (m *MockEpisodeRepository) GetEpisodeByID(ctx context.Context, id string) (*models.Episode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Episode), args.Error(1)
}

func (m *MockEpisodeRepository) ListEpisodes(ctx context.Context, limit, offset int) ([]models.Episode, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Episode), args.Get(1).(int64), args.Error(2)
}

func (m *MockEpisodeRepository) GetRequestsByEpisodeID(ctx context.Context, episodeID string) ([]models.GenerationRequest, error) {
	args := m.Called(ctx, episodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GenerationRequest), args.Error(1)
}

func (m *MockEpisodeRepository) UpdateScript(ctx context.Context, id, script string, at time.Time) error {
	return m.Called(ctx, id, script, at).Error(0)
}

func (m *MockEpisodeRepository) MarkCompleted(ctx context.Context, id, audioRef string, durationSeconds int, at time.Time) error {
	return m.Called(ctx, id, audioRef, durationSeconds, at).Error(0)
}

func (m *MockEpisodeRepository) MarkFailed(ctx context.Context, id, message string, at time.Time) error {
	return m.Called(ctx, id, message, at).Error(0)
}

func intPtr(v int) *int { return &v }

func setupService(t *testing.T) (*Service, *Repository, *storage.MemoryStore) {
	repo := NewRepository(setupTestDB(t))
	blobs := storage.NewMemoryStore()
	return NewService(repo, blobs), repo, blobs
}

func TestService_GetStatus(t *testing.T) {
	svc, repo, _ := setupService(t)
	episode := createEpisode(t, repo, "Code deep dive", baseTime)

	summary, err := svc.GetStatus(context.Background(), episode.ID)
	require.NoError(t, err)
	assert.Equal(t, episode.ID, summary.ID)
	assert.Equal(t, models.EpisodeStatusGenerating, summary.Status)
	assert.Nil(t, summary.AudioRef)
	assert.Nil(t, summary.DurationSeconds)

	_, err = svc.GetStatus(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}

func TestService_List(t *testing.T) {
	svc, repo, _ := setupService(t)

	var ids []string
	for i := 0; i < 15; i++ {
		ids = append(ids, createEpisode(t, repo, "e", baseTime.Add(time.Duration(i)*time.Second)).ID)
	}

	page, err := svc.List(context.Background(), ListParams{Limit: intPtr(10), Offset: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, int64(15), page.Total)
	require.Len(t, page.Episodes, 10)
	for i, s := range page.Episodes {
		assert.Equal(t, ids[14-i], s.ID)
	}
	for i := 1; i < len(page.Episodes); i++ {
		assert.True(t, page.Episodes[i-1].CreatedAt.After(page.Episodes[i].CreatedAt))
	}

	defaults, err := svc.List(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, defaults.Limit)
	assert.Equal(t, 0, defaults.Offset)
	assert.Len(t, defaults.Episodes, 10)

	tail, err := svc.List(context.Background(), ListParams{Limit: intPtr(100), Offset: intPtr(12)})
	require.NoError(t, err)
	assert.Len(t, tail.Episodes, 3)

	empty, err := svc.List(context.Background(), ListParams{Offset: intPtr(50)})
	require.NoError(t, err)
	assert.NotNil(t, empty.Episodes)
	assert.Empty(t, empty.Episodes)
}

func TestService_ListValidation(t *testing.T) {
	repo := new(MockEpisodeRepository)
	svc := NewService(repo, storage.NewMemoryStore())

	for _, params := range []ListParams{
		{Limit: intPtr(0)},
		{Limit: intPtr(101)},
		{Limit: intPtr(-1)},
		{Offset: intPtr(-1)},
	} {
		_, err := svc.List(context.Background(), params)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))
	}
	repo.AssertNotCalled(t, "ListEpisodes", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_GetScript(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()
	episode := createEpisode(t, repo, "t", baseTime)

	script, err := svc.GetScript(ctx, episode.ID)
	require.NoError(t, err)
	assert.Equal(t, ScriptPlaceholder, script)

	require.NoError(t, repo.UpdateScript(ctx, episode.ID, "Alex: hello\nSam: hi", baseTime))
	script, err = svc.GetScript(ctx, episode.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alex: hello\nSam: hi", script)

	_, err = svc.GetScript(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}

func TestService_GetScriptFailedWithoutScript(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()
	episode := createEpisode(t, repo, "t", baseTime)
	require.NoError(t, repo.MarkFailed(ctx, episode.ID, "generation failed: x", baseTime))

	script, err := svc.GetScript(ctx, episode.ID)
	require.NoError(t, err)
	assert.Equal(t, ScriptPlaceholder, script)
}

func TestService_FetchAudio(t *testing.T) {
	ctx := context.Background()

	t.Run("completed", func(t *testing.T) {
		svc, repo, blobs := setupService(t)
		episode := createEpisode(t, repo, "t", baseTime)
		require.NoError(t, blobs.Put(ctx, "episodes/a.mp3", []byte("audio"), "audio/mpeg"))
		require.NoError(t, repo.MarkCompleted(ctx, episode.ID, "episodes/a.mp3", 3, baseTime))

		audio, err := svc.FetchAudio(ctx, episode.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("audio"), audio.Data)
		assert.Equal(t, "audio/mpeg", audio.ContentType)
		assert.Equal(t, "episodes/a.mp3", audio.Key)
	})

	t.Run("generating", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		episode := createEpisode(t, repo, "t", baseTime)

		audio, err := svc.FetchAudio(ctx, episode.ID)
		assert.Nil(t, audio)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	})

	t.Run("failed", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		episode := createEpisode(t, repo, "t", baseTime)
		require.NoError(t, repo.MarkFailed(ctx, episode.ID, "synthesis failed: x", baseTime))

		audio, err := svc.FetchAudio(ctx, episode.ID)
		assert.Nil(t, audio)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	})

	t.Run("missing blob", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		episode := createEpisode(t, repo, "t", baseTime)
		require.NoError(t, repo.MarkCompleted(ctx, episode.ID, "episodes/gone.mp3", 3, baseTime))

		_, err := svc.FetchAudio(ctx, episode.ID)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
		assert.ErrorIs(t, err, storage.ErrBlobNotFound)
	})

	t.Run("unknown episode", func(t *testing.T) {
		svc, _, _ := setupService(t)
		_, err := svc.FetchAudio(ctx, "missing")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	})
}

func TestService_RepositoryFailure(t *testing.T) {
	repo := new(MockEpisodeRepository)
	repo.On("GetEpisodeByID", mock.Anything, "x").Return(nil, errors.New("disk I/O error"))
	svc := NewService(repo, storage.NewMemoryStore())

	_, err := svc.GetStatus(context.Background(), "x")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInternal))
	repo.AssertExpectations(t)
}

func TestService_Requests(t *testing.T) {
	svc, repo, _ := setupService(t)
	episode := createEpisode(t, repo, "t", baseTime)

	requests, err := svc.Requests(context.Background(), episode.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, models.SourceTypeCode, requests[0].SourceType)

	_, err = svc.Requests(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}
