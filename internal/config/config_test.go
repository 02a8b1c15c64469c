package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every AGENTBOARD_ env var that Load() reads.
var allConfigKeys = []string{
	"AGENTBOARD_DATABASE_URL",
	"AGENTBOARD_GITHUB_TOKEN",
	"AGENTBOARD_LISTEN_ADDR",
	"AGENTBOARD_LLM_PROVIDER",
	"AGENTBOARD_LLM_MODEL",
	"AGENTBOARD_LLM_API_KEY",
	"AGENTBOARD_SLACK_WEBHOOK_URL",
	"AGENTBOARD_ANALYSIS_CACHE_SIZE",
}

// isolateConfigEnv saves and unsets all AGENTBOARD_ env vars so tests don't
// inherit values from the host environment. t.Cleanup restores original
// values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AGENTBOARD_DATABASE_URL", "postgres://localhost:5432/agentboard")
	t.Setenv("AGENTBOARD_GITHUB_TOKEN", "ghp_test123")
	t.Setenv("AGENTBOARD_LLM_API_KEY", "sk-test")
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("AGENTBOARD_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("AGENTBOARD_LLM_PROVIDER", "gemini")
	t.Setenv("AGENTBOARD_LLM_MODEL", "gemini-2.5-flash")
	t.Setenv("AGENTBOARD_SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T0/B0/x")
	t.Setenv("AGENTBOARD_ANALYSIS_CACHE_SIZE", "64")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/agentboard", cfg.DatabaseURL)
	assert.Equal(t, "ghp_test123", cfg.GitHubToken)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLMModel)
	assert.Equal(t, "sk-test", cfg.LLMAPIKey)
	assert.True(t, cfg.HasSlackWebhook())
	assert.Equal(t, 64, cfg.AnalysisCache)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Empty(t, cfg.LLMModel)
	assert.False(t, cfg.HasSlackWebhook())
	assert.Equal(t, 256, cfg.AnalysisCache)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("AGENTBOARD_GITHUB_TOKEN", "ghp_test123")
	t.Setenv("AGENTBOARD_LLM_API_KEY", "sk-test")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AGENTBOARD_DATABASE_URL")
}

func TestLoad_MissingGitHubToken(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("AGENTBOARD_DATABASE_URL", "postgres://localhost:5432/agentboard")
	t.Setenv("AGENTBOARD_LLM_API_KEY", "sk-test")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AGENTBOARD_GITHUB_TOKEN")
}

func TestLoad_MissingLLMAPIKey(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("AGENTBOARD_DATABASE_URL", "postgres://localhost:5432/agentboard")
	t.Setenv("AGENTBOARD_GITHUB_TOKEN", "ghp_test123")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AGENTBOARD_LLM_API_KEY")
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("AGENTBOARD_ANALYSIS_CACHE_SIZE", "not-a-number")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AGENTBOARD_ANALYSIS_CACHE_SIZE")
}
