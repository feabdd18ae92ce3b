package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"READ_ONLY", "VERCEL", "ENVIRONMENT", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "DOCS_STORE", "USE_LEGACY_UI"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.False(t, cfg.ReadOnly)
	assert.Equal(t, DocsStoreFile, cfg.DocsStore)
	assert.Equal(t, 10, cfg.RateLimit.Max)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 25*time.Second, cfg.StreamHeartbeat)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 1024, cfg.OpenAI.MaxTokens)
	assert.Equal(t, cfg.UI.Dir, cfg.UIRoot())
}

func TestLoadReadOnlyTriggers(t *testing.T) {
	t.Run("vercel", func(t *testing.T) {
		t.Setenv("VERCEL", "1")
		t.Setenv("ENVIRONMENT", "")
		assert.True(t, Load().ReadOnly)
	})
	t.Run("production", func(t *testing.T) {
		t.Setenv("VERCEL", "")
		t.Setenv("ENVIRONMENT", "production")
		assert.True(t, Load().ReadOnly)
	})
	t.Run("explicit", func(t *testing.T) {
		t.Setenv("VERCEL", "")
		t.Setenv("ENVIRONMENT", "")
		t.Setenv("READ_ONLY", "yes")
		assert.True(t, Load().ReadOnly)
	})
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW", "90")
	t.Setenv("STREAM_HEARTBEAT", "5s")
	t.Setenv("DOCS_STORE", "DB")
	t.Setenv("USE_LEGACY_UI", "true")
	t.Setenv("RATE_LIMIT_MAX", "-3")

	cfg := Load()
	assert.Equal(t, 90*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 5*time.Second, cfg.StreamHeartbeat)
	assert.Equal(t, DocsStoreDB, cfg.DocsStore)
	assert.Equal(t, cfg.UI.LegacyDir, cfg.UIRoot())
	assert.Equal(t, 10, cfg.RateLimit.Max)
}

func TestLoadTelemetry(t *testing.T) {
	t.Setenv("LOG_LEVEL", " DEBUG ")
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "HTTP")
	t.Setenv("OTEL_SAMPLING_RATIO", "4")

	tel := Load().Telemetry
	assert.Equal(t, "debug", tel.LogLevel)
	assert.False(t, tel.OTelEnabled)
	assert.Equal(t, "http", tel.OTLPProtocol)
	assert.Equal(t, 1.0, tel.SamplingRatio)

	t.Setenv("OTEL_SAMPLING_RATIO", "nope")
	assert.Equal(t, 0.1, Load().Telemetry.SamplingRatio)
}

func TestDecodeAssistantConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assistant.yml")
	require.NoError(t, os.WriteFile(path, []byte("assistant:\n  systemPrompt: \"  be brief  \"\n  navTriggers: [\"دور\"]\n  knowledgeLimit: 2\n"), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := decodeAssistantConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "be brief", cfg.SystemPrompt)
	assert.Equal(t, []string{"دور"}, cfg.NavTriggers)
	assert.Equal(t, 2, cfg.KnowledgeLimit)
}

func TestDecodeAssistantConfigRejectsEmptyPrompt(t *testing.T) {
	v := viper.New()
	v.Set("assistant.systemPrompt", " ")
	_, err := decodeAssistantConfig(v)
	assert.Error(t, err)
}

func TestStaticHolder(t *testing.T) {
	holder := NewStaticAssistantConfigHolder(DefaultAssistantConfig())
	assert.Equal(t, DefaultSystemPrompt, holder.Get().SystemPrompt)
}
