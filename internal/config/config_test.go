package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RepositoryConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "assistant.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "TalentScout", cfg.GetCompanyName())
	assert.Equal(t, 10, cfg.Telegram.RateLimit)
	assert.Equal(t, time.Minute, cfg.Telegram.RateWindow)
	assert.Equal(t, 24*time.Hour, cfg.Telegram.SessionTTL)
	assert.Equal(t, "exports", cfg.GetExportDir())
	assert.True(t, cfg.MetricsEnabled())
}

func TestParse_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("assistant:\n  company_name: Acme\n"))
	require.NoError(t, err)

	assert.Equal(t, "Acme", cfg.Assistant.CompanyName)
	assert.Equal(t, Default().Telegram, cfg.Telegram)
	assert.Equal(t, Default().Storage, cfg.Storage)
	assert.False(t, cfg.MetricsEnabled())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"broken yaml", "assistant: [oops"},
		{"empty company", "assistant:\n  company_name: \"\"\n"},
		{"zero rate limit", "telegram:\n  rate_limit: 0\n"},
		{"message too long", "telegram:\n  max_message_length: 5000\n"},
		{"empty export dir", "storage:\n  export_dir: \"\"\n"},
		{"bad metrics addr", "metrics:\n  listen_addr: nowhere\n"},
		{"cleanup longer than ttl", "telegram:\n  session_ttl: 1m\n  cleanup_interval: 1h\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(missing)
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := LoadOrDefault(missing)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadAppConfig_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  export_dir: from-file\n"), 0644))

	t.Setenv("ASSISTANT_CONFIG", path)
	t.Setenv("TELEGRAM_BOT_TOKEN", "secret")
	t.Setenv("TELEGRAM_RATE_LIMIT", "3")
	t.Setenv("TELEGRAM_SESSION_TTL", "2h")
	t.Setenv("EXPORT_DIR", "from-env")
	t.Setenv("METRICS_ADDR", "localhost:9100")
	t.Setenv("COMPANY_NAME", "")
	t.Setenv("DATABASE_PATH", "")

	cfg, err := LoadAppConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Telegram.Token)
	assert.Equal(t, 3, cfg.Telegram.RateLimit)
	assert.Equal(t, 2*time.Hour, cfg.Telegram.SessionTTL)
	assert.Equal(t, "from-env", cfg.Storage.ExportDir)
	assert.Equal(t, "localhost:9100", cfg.Metrics.ListenAddr)
	assert.Equal(t, "TalentScout", cfg.Assistant.CompanyName)
	assert.NoError(t, cfg.RequireTelegramToken())
}

func TestLoadAppConfig_InvalidEnv(t *testing.T) {
	t.Setenv("ASSISTANT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("METRICS_ADDR", "not an address")

	_, err := LoadAppConfig()
	assert.Error(t, err)
}

func TestRequireTelegramToken(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.RequireTelegramToken())
}
