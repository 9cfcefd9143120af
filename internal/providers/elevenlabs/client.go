// Package elevenlabs streams speech from the ElevenLabs text-to-speech API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL      = "https://api.elevenlabs.io"
	DefaultModelID      = "eleven_multilingual_v2"
	DefaultOutputFormat = "mp3_44100_128"

	maxErrorBody = 4096
)

// Config holds configuration for the ElevenLabs client
type Config struct {
	APIKey       string
	BaseURL      string
	OutputFormat string
	Timeout      time.Duration
	// HTTPClient overrides the transport, mostly for tests
	HTTPClient *http.Client
}

// APIError is a non-2xx response from ElevenLabs
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("elevenlabs returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("elevenlabs returned status %d: %s", e.StatusCode, e.Body)
}

// Client calls the streaming text-to-speech endpoint
type Client struct {
	apiKey       string
	baseURL      string
	outputFormat string
	httpClient   *http.Client
}

type streamRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// NewClient creates a new ElevenLabs client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("elevenlabs api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = DefaultOutputFormat
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		outputFormat: cfg.OutputFormat,
		httpClient:   httpClient,
	}, nil
}

// Stream starts synthesis of text in voiceID. The caller must close the returned body.
func (c *Client) Stream(ctx context.Context, voiceID, text, modelID string) (io.ReadCloser, error) {
	if voiceID == "" {
		return nil, fmt.Errorf("voice id is required")
	}
	if modelID == "" {
		modelID = DefaultModelID
	}

	payload, err := json.Marshal(streamRequest{Text: text, ModelID: modelID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/stream?output_format=%s",
		c.baseURL, url.PathEscape(voiceID), url.QueryEscape(c.outputFormat))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call elevenlabs: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return resp.Body, nil
}
