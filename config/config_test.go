package config

import (
	"testing"
	"time"

	"clario-backend/generator"
	"clario-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "APP_ENV", "DATABASE_URL", "REDIS_URL", "CACHE_TTL",
	"GENERATOR_BACKEND", "GEMINI_API_KEY", "GEMINI_MODEL", "HF_API_KEY", "HF_MODEL",
	"GENERATOR_TIMEOUT", "GENERATOR_RATE", "GENERATOR_BURST",
	"CHUNK_SENTENCES", "SUMMARY_SENTENCES", "CLARIO_RULEBOOK_PATH",
	"STORAGE_TYPE", "STORAGE_LOCAL_PATH", "AWS_S3_BUCKET", "AWS_REGION", "AWS_S3_ENDPOINT",
	"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, generator.BackendGemini, cfg.Generator.Backend)
	assert.Equal(t, generator.DefaultGeminiModel, cfg.Generator.GeminiModel)
	assert.Equal(t, generator.DefaultHuggingFaceModel, cfg.Generator.HFModel)
	assert.Equal(t, 30*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, 2.0, cfg.Generator.Rate)
	assert.Equal(t, 4, cfg.Generator.Burst)
	assert.Equal(t, 5, cfg.ChunkSentences)
	assert.Equal(t, 2, cfg.SummarySentences)
	assert.Equal(t, storage.StorageTypeLocal, cfg.Storage.Type)
	assert.Equal(t, "us-east-1", cfg.Storage.S3Region)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("GENERATOR_BACKEND", "HuggingFace")
	t.Setenv("HF_API_KEY", "hf_x")
	t.Setenv("GENERATOR_TIMEOUT", "5s")
	t.Setenv("CHUNK_SENTENCES", "3")
	t.Setenv("CLARIO_RULEBOOK_PATH", "/etc/clario/rules.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, generator.BackendHuggingFace, cfg.Generator.Backend)
	assert.Equal(t, "hf_x", cfg.Generator.HFAPIKey)
	assert.Equal(t, 5*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, 3, cfg.ChunkSentences)
	assert.Equal(t, "/etc/clario/rules.yaml", cfg.RulebookPath)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_TTL", "a day")
	t.Setenv("GENERATOR_BURST", "-1")
	t.Setenv("GENERATOR_BACKEND", "gpt2")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
	assert.Contains(t, err.Error(), "GENERATOR_BURST")
	assert.Contains(t, err.Error(), "GENERATOR_BACKEND")
}
