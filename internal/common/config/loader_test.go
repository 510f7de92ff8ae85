package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: test-app\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-app", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DefaultProviderOrder, cfg.Providers.Order)
	assert.Equal(t, 3, cfg.Providers.MaxRetries)
	assert.Equal(t, []int{1000, 2000, 4000}, cfg.Providers.RetryDelays)
	assert.Equal(t, 30000, cfg.Providers.ConnectTimeout)
	assert.Equal(t, 60000, cfg.Providers.RequestTimeout)
	assert.Equal(t, "memory", cfg.RateLimit.Store)
	assert.Equal(t, 5000, cfg.RateLimit.Window)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "groq-from-env")
	t.Setenv("TEST_GEMINI_KEY", "gemini-expanded")
	path := writeConfig(t, `
providers:
  gemini:
    api_key: ${TEST_GEMINI_KEY}
  max_retries: 2
  retry_delays: [10, 20]
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-expanded", cfg.Providers.Gemini.APIKey)
	assert.Equal(t, "groq-from-env", cfg.Providers.Groq.APIKey)
	assert.Equal(t, 2, cfg.Providers.MaxRetries)
	assert.Equal(t, []int{10, 20}, cfg.Providers.RetryDelays)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown provider",
			body:    "providers:\n  order: [gemini, openai]\n",
			wantErr: "unknown provider",
		},
		{
			name:    "redis store without address",
			body:    "rate_limit:\n  store: redis\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "bad store",
			body:    "rate_limit:\n  store: etcd\n",
			wantErr: "rate_limit.store",
		},
		{
			name:    "postgres enabled without host",
			body:    "database:\n  postgres:\n    enabled: true\n",
			wantErr: "database.postgres.host",
		},
		{
			name:    "camunda without broker",
			body:    "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "short delay schedule",
			body:    "providers:\n  max_retries: 5\n  retry_delays: [100]\n",
			wantErr: "retry_delays",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{
		Camunda: CamundaConfig{MaxJobsActive: 4, Timeout: 1000},
		Workers: map[string]WorkerConfig{
			"chat-completion": {Enabled: false, Timeout: 500},
		},
	}

	assert.False(t, IsWorkerEnabled(cfg, "chat-completion"))
	assert.True(t, IsWorkerEnabled(cfg, "validate-url"))

	def := GetWorkerConfig(cfg, "validate-url")
	assert.True(t, def.Enabled)
	assert.Equal(t, 4, def.MaxJobsActive)
	assert.Equal(t, time.Second, GetDuration(def.Timeout))
}
