// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DatabaseURL     string
	GitHubToken     string
	ListenAddr      string
	LLMProvider     string
	LLMModel        string
	LLMAPIKey       string
	SlackWebhookURL string
	AnalysisCache   int
}

// HasSlackWebhook returns true when a Slack incoming webhook URL is
// configured. Used by the composition root to decide whether to wire a
// real notifier.
func (c *Config) HasSlackWebhook() bool {
	return c.SlackWebhookURL != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. A local .env file is loaded first when present. Required variables:
// AGENTBOARD_DATABASE_URL, AGENTBOARD_GITHUB_TOKEN, AGENTBOARD_LLM_API_KEY.
// Optional variables with defaults: AGENTBOARD_LISTEN_ADDR (127.0.0.1:8080),
// AGENTBOARD_LLM_PROVIDER (openai), AGENTBOARD_LLM_MODEL (provider default),
// AGENTBOARD_ANALYSIS_CACHE_SIZE (256). AGENTBOARD_SLACK_WEBHOOK_URL is
// optional; when absent, run recaps are not delivered anywhere.
func Load() (*Config, error) {
	// Missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	databaseURL := os.Getenv("AGENTBOARD_DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("AGENTBOARD_DATABASE_URL is required")
	}

	token := os.Getenv("AGENTBOARD_GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("AGENTBOARD_GITHUB_TOKEN is required")
	}

	apiKey := os.Getenv("AGENTBOARD_LLM_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("AGENTBOARD_LLM_API_KEY is required")
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("AGENTBOARD_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	provider := "openai"
	if v, ok := os.LookupEnv("AGENTBOARD_LLM_PROVIDER"); ok && v != "" {
		provider = v
	}

	model := os.Getenv("AGENTBOARD_LLM_MODEL")

	cacheSize := 256
	if v, ok := os.LookupEnv("AGENTBOARD_ANALYSIS_CACHE_SIZE"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("AGENTBOARD_ANALYSIS_CACHE_SIZE has invalid value %q: expected a positive integer", v)
		}
		cacheSize = parsed
	}

	return &Config{
		DatabaseURL:     databaseURL,
		GitHubToken:     token,
		ListenAddr:      listenAddr,
		LLMProvider:     provider,
		LLMModel:        model,
		LLMAPIKey:       apiKey,
		SlackWebhookURL: os.Getenv("AGENTBOARD_SLACK_WEBHOOK_URL"),
		AnalysisCache:   cacheSize,
	}, nil
}
