// Package openai adapts the OpenAI chat and speech APIs to the pipeline's
// provider interfaces.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/script"
)

// Config holds connection settings for the OpenAI API
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// HTTPClient overrides the transport, mostly for tests
	HTTPClient *http.Client
}

// ErrNoChoices is returned when a completion carries no message
var ErrNoChoices = errors.New("openai returned no choices")

// Client wraps a go-openai client
type Client struct {
	client *goopenai.Client
	model  string
}

// NewClient creates an OpenAI client from cfg
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4oMini
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	switch {
	case cfg.HTTPClient != nil:
		clientConfig.HTTPClient = cfg.HTTPClient
	case cfg.Timeout > 0:
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client: goopenai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

// Generate sends messages as a single chat completion and returns the reply text
func (c *Client) Generate(ctx context.Context, messages []script.Message, maxTokens int) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  toChatMessages(messages),
		MaxTokens: maxTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func toChatMessages(messages []script.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := goopenai.ChatMessageRoleUser
		if m.Role == script.RoleSystem {
			role = goopenai.ChatMessageRoleSystem
		}
		out = append(out, goopenai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

// SpeechClient renders speech with the OpenAI audio endpoint. Voice ids are
// OpenAI voice names such as "alloy" or "onyx".
type SpeechClient struct {
	client *goopenai.Client
	format goopenai.SpeechResponseFormat
}

// NewSpeechClient creates a speech adapter sharing cfg with the chat client
func NewSpeechClient(cfg Config, format string) (*SpeechClient, error) {
	c, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = string(goopenai.SpeechResponseFormatMp3)
	}
	return &SpeechClient{client: c.client, format: goopenai.SpeechResponseFormat(format)}, nil
}

// Stream starts synthesis of text and returns the response body unread
func (s *SpeechClient) Stream(ctx context.Context, voiceID, text, modelID string) (io.ReadCloser, error) {
	if modelID == "" {
		modelID = string(goopenai.TTSModel1)
	}
	resp, err := s.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(modelID),
		Input:          text,
		Voice:          goopenai.SpeechVoice(voiceID),
		ResponseFormat: s.format,
	})
	if err != nil {
		return nil, fmt.Errorf("create speech: %w", err)
	}
	return resp, nil
}
