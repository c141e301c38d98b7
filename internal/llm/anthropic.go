// Package llm provides the Anthropic messages API client used for report
// generation.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/standupbot/standup/internal/config"
	"github.com/standupbot/standup/pkg/models"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
	maxTokens        = 2000
)

// Client handles Anthropic messages API calls.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a new Anthropic client from configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	if err := config.ValidateAnthropicConfig(cfg); err != nil {
		return nil, models.NewConfigError("anthropic not configured: %v", err)
	}

	return &Client{
		apiKey:  cfg.Anthropic.APIKey,
		model:   cfg.Anthropic.Model,
		baseURL: anthropicBaseURL,
		client:  &http.Client{},
	}, nil
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
// Used by tests to point at a local fake.
func NewClientWithBaseURL(cfg *config.Config, baseURL string) (*Client, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	client.baseURL = baseURL
	return client, nil
}

// Complete sends one system+user prompt pair and returns the model's text
// response. There is no retry here; a failed or timed-out call surfaces as
// an UpstreamError with the provider's message.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []message{
			{Role: "user", Content: userPrompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", models.NewUpstreamError("anthropic request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", models.NewUpstreamError("anthropic request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewUpstreamError("anthropic response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", models.NewUpstreamError(
				fmt.Sprintf("anthropic api error (status: %d)", resp.StatusCode),
				fmt.Errorf("%s: %s", apiErr.Error.Type, apiErr.Error.Message))
		}
		return "", models.NewUpstreamError(
			fmt.Sprintf("anthropic api error (status: %d)", resp.StatusCode),
			fmt.Errorf("%s", string(body)))
	}

	var result messagesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", models.NewUpstreamError("anthropic response", err)
	}

	for _, block := range result.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", nil
}
