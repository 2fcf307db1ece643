// Package config reads the server and CLI settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"clario-backend/generator"
	"clario-backend/storage"
	"clario-backend/summarizer"

	"go.uber.org/zap"
)

// Config holds every setting read from the environment
type Config struct {
	Port   string
	AppEnv string

	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration

	Generator generator.Settings

	ChunkSentences   int
	SummarySentences int

	RulebookPath string

	Storage storage.StorageConfig
}

// Load reads the configuration. Unset variables take their defaults; values
// that do not parse are errors.
func Load() (*Config, error) {
	var errs []string
	duration := func(key string, def time.Duration) time.Duration {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", key, v))
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid integer %q", key, v))
			return def
		}
		return n
	}
	float := func(key string, def float64) float64 {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid number %q", key, v))
			return def
		}
		return f
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		CacheTTL:    duration("CACHE_TTL", 24*time.Hour),
		Generator: generator.Settings{
			Backend:      strings.ToLower(getEnv("GENERATOR_BACKEND", generator.BackendGemini)),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  getEnv("GEMINI_MODEL", generator.DefaultGeminiModel),
			HFAPIKey:     os.Getenv("HF_API_KEY"),
			HFModel:      getEnv("HF_MODEL", generator.DefaultHuggingFaceModel),
			Timeout:      duration("GENERATOR_TIMEOUT", generator.DefaultTimeout),
			Rate:         float("GENERATOR_RATE", 2),
			Burst:        integer("GENERATOR_BURST", 4),
		},
		ChunkSentences:   integer("CHUNK_SENTENCES", summarizer.DefaultChunkSentences),
		SummarySentences: integer("SUMMARY_SENTENCES", summarizer.DefaultSummarySentences),
		RulebookPath:     os.Getenv("CLARIO_RULEBOOK_PATH"),
		Storage: storage.StorageConfig{
			Type:         storage.StorageType(getEnv("STORAGE_TYPE", string(storage.StorageTypeLocal))),
			LocalPath:    getEnv("STORAGE_LOCAL_PATH", "./storage/documents"),
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Region:     getEnv("AWS_REGION", "us-east-1"),
			S3Endpoint:   os.Getenv("AWS_S3_ENDPOINT"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}

	switch cfg.Generator.Backend {
	case generator.BackendGemini, generator.BackendHuggingFace, generator.BackendNone:
	default:
		errs = append(errs, fmt.Sprintf("GENERATOR_BACKEND: unknown backend %q", cfg.Generator.Backend))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// NewLogger builds a JSON production logger in production and a console
// development logger otherwise.
func (c *Config) NewLogger() (*zap.Logger, error) {
	if c.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
