// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	Jira      JiraConfig
	Anthropic AnthropicConfig
	Store     StoreConfig
	User      string
}

// JiraConfig holds Jira specific configuration.
type JiraConfig struct {
	// BaseURL is the site URL used for browse links (e.g., "https://acme.atlassian.net")
	BaseURL string

	// CloudID selects the Atlassian cloud API gateway when set; API calls
	// then go through https://api.atlassian.com/ex/jira/<CloudID>
	CloudID string

	// Username enables basic auth together with Token; when empty, Token is
	// used as an OAuth bearer token
	Username string

	// Token is the API token or OAuth access token
	Token string
}

// AnthropicConfig holds LLM provider configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string
}

// DefaultModel is used when ANTHROPIC_MODEL is not set.
const DefaultModel = "claude-sonnet-4-20250514"

// LoadConfig initializes and loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	// Initialize Viper for environment variables
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map specific environment variables
	v.BindEnv("jira.base_url", "JIRA_BASE_URL")
	v.BindEnv("jira.cloud_id", "JIRA_CLOUD_ID")
	v.BindEnv("jira.username", "JIRA_USERNAME")
	v.BindEnv("jira.token", "JIRA_TOKEN")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "ANTHROPIC_MODEL")
	v.BindEnv("store.path", "STANDUP_DB_PATH")
	v.BindEnv("user", "STANDUP_USER")

	v.SetDefault("anthropic.model", DefaultModel)
	v.SetDefault("store.path", "standup.db")
	v.SetDefault("user", "default")

	config := &Config{
		Jira: JiraConfig{
			BaseURL:  v.GetString("jira.base_url"),
			CloudID:  v.GetString("jira.cloud_id"),
			Username: v.GetString("jira.username"),
			Token:    v.GetString("jira.token"),
		},
		Anthropic: AnthropicConfig{
			APIKey: v.GetString("anthropic.api_key"),
			Model:  v.GetString("anthropic.model"),
		},
		Store: StoreConfig{
			Path: v.GetString("store.path"),
		},
		User: v.GetString("user"),
	}

	return config, nil
}

// ValidateJiraConfig ensures the Jira connection parameters are present.
func ValidateJiraConfig(config *Config) error {
	var missingVars []string

	if config.Jira.BaseURL == "" {
		missingVars = append(missingVars, "JIRA_BASE_URL")
	}
	if config.Jira.Token == "" {
		missingVars = append(missingVars, "JIRA_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}

// ValidateAnthropicConfig ensures the LLM provider parameters are present.
func ValidateAnthropicConfig(config *Config) error {
	if config.Anthropic.APIKey == "" {
		return fmt.Errorf("missing required environment variables: [ANTHROPIC_API_KEY]")
	}

	return nil
}
