package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standupbot/standup/internal/config"
	"github.com/standupbot/standup/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Anthropic: config.AnthropicConfig{
			APIKey: "test-key",
			Model:  "claude-sonnet-4-20250514",
		},
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.Anthropic.APIKey = ""

	_, err := NewClient(cfg)
	require.Error(t, err)

	var configErr *models.ConfigError
	assert.ErrorAs(t, err, &configErr)
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-sonnet-4-20250514", req.Model)
		assert.Equal(t, maxTokens, req.MaxTokens)
		assert.Equal(t, "system prompt", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "user prompt", req.Messages[0].Content)

		fmt.Fprint(w, `{"content":[{"type":"text","text":"## Last Week\nreport body"}]}`)
	}))
	defer srv.Close()

	client, err := NewClientWithBaseURL(testConfig(), srv.URL)
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "## Last Week\nreport body", text)
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"type":"rate_limit_error","message":"slow down"}}`)
	}))
	defer srv.Close()

	client, err := NewClientWithBaseURL(testConfig(), srv.URL)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "system", "user")
	require.Error(t, err)

	var upstream *models.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, err.Error(), "slow down")
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client, err := NewClientWithBaseURL(testConfig(), srv.URL)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "system", "user")
	require.Error(t, err)

	var upstream *models.UpstreamError
	assert.ErrorAs(t, err, &upstream)
}
