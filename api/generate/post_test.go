package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api/types"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/generation"
	apperrors "github.com/musicjoeyoung/MCP-ElevenLabs/pkg/errors"
)

// MockGenerationService is a mock implementation of GenerationService
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Submit(ctx context.Context, req generation.SubmitRequest) (*generation.SubmitResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generation.SubmitResult), args.Error(1)
}

func setupRouter(svc generation.GenerationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/api/v1/generate"), &types.Dependencies{GenerationService: svc})
	return router
}

func post(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestPost(t *testing.T) {
	ref := "episodes/e1.mp3"
	duration := 120

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockGenerationService)
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name: "completed episode",
			body: `{"content":"package main","content_type":"code","focus_areas":["tests"],"metadata":{"repo":"podgen","stars":12}}`,
			setupMock: func(m *MockGenerationService) {
				m.On("Submit", mock.Anything, mock.MatchedBy(func(req generation.SubmitRequest) bool {
					repo, _ := req.Metadata["repo"].AsString()
					stars, _ := req.Metadata["stars"].AsNumber()
					return req.Content == "package main" && req.ContentType == "code" &&
						len(req.FocusAreas) == 1 && repo == "podgen" && stars == 12
				})).Return(&generation.SubmitResult{
					EpisodeID:       "e1",
					Title:           "Code deep dive",
					Status:          models.EpisodeStatusCompleted,
					Message:         generation.MessageCompleted,
					AudioRef:        &ref,
					DurationSeconds: &duration,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp types.GenerateResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "e1", resp.EpisodeID)
				assert.Equal(t, models.EpisodeStatusCompleted, resp.Status)
				require.NotNil(t, resp.AudioRef)
				assert.Equal(t, ref, *resp.AudioRef)
				assert.Equal(t, 120, *resp.DurationSeconds)
			},
		},
		{
			name: "pipeline failure is still 200",
			body: `{"content":"notes","content_type":"discussion"}`,
			setupMock: func(m *MockGenerationService) {
				m.On("Submit", mock.Anything, mock.Anything).Return(&generation.SubmitResult{
					EpisodeID: "e2",
					Status:    models.EpisodeStatusFailed,
					Message:   "synthesis failed: turn 3 (Sam): quota exceeded",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "failed", resp["status"])
				assert.Equal(t, "synthesis failed: turn 3 (Sam): quota exceeded", resp["message"])
				assert.NotContains(t, resp, "audio_ref")
			},
		},
		{
			name: "invalid input",
			body: `{"content":"","content_type":"code"}`,
			setupMock: func(m *MockGenerationService) {
				m.On("Submit", mock.Anything, mock.Anything).Return(nil, apperrors.InvalidInput("content", "must not be empty"))
			},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				var resp types.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, types.StatusError, resp.Status)
				assert.Equal(t, "INVALID_INPUT", resp.Error)
			},
		},
		{
			name:           "malformed json",
			body:           `{"content":`,
			setupMock:      func(m *MockGenerationService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "nested metadata rejected",
			body:           `{"content":"x","content_type":"code","metadata":{"owner":{"name":"a"}}}`,
			setupMock:      func(m *MockGenerationService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "storage error",
			body: `{"content":"x","content_type":"code"}`,
			setupMock: func(m *MockGenerationService) {
				m.On("Submit", mock.Anything, mock.Anything).Return(nil, apperrors.StorageError("create episode", assert.AnError))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockGenerationService)
			tt.setupMock(svc)

			w := post(setupRouter(svc), tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.check != nil {
				tt.check(t, w.Body.Bytes())
			}
			svc.AssertExpectations(t)
		})
	}
}
