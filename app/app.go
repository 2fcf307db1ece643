// Package app assembles the services from a Config. The HTTP server and the
// CLI share it.
package app

import (
	"context"
	"fmt"

	"clario-backend/cache"
	"clario-backend/config"
	"clario-backend/generator"
	"clario-backend/handlers"
	"clario-backend/legal"
	"clario-backend/repository"
	"clario-backend/service"
	"clario-backend/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the assembled services and the connections they depend on
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Provider  *generator.Provider
	Summaries *service.SummaryService
	Chat      *service.ChatService

	db    *pgxpool.Pool
	redis *redis.Client
}

// New builds the core services: rulebook, generator provider, the optional
// Redis cache, and the summary and chat services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	rulebook, err := legal.Load(cfg.RulebookPath)
	if err != nil {
		return nil, err
	}
	for _, w := range rulebook.Warnings {
		logger.Warn("rulebook", zap.String("warning", w))
	}

	provider, err := generator.NewProviderFromSettings(cfg.Generator, generator.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if provider.Available() {
		logger.Info("generator configured", zap.String("generator", provider.Name()))
	} else {
		logger.Warn("no generator configured; summaries stay extractive", zap.String("backend", cfg.Generator.Backend))
	}

	a := &App{Config: cfg, Logger: logger, Provider: provider}

	opts := []service.SummaryServiceOption{
		service.SummaryWithProvider(provider),
		service.SummaryWithRulebook(rulebook),
		service.SummaryWithLogger(logger),
		service.SummaryWithSizes(cfg.ChunkSentences, cfg.SummarySentences),
	}
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			// The cache is optional; summaries still work without it.
			logger.Warn("summary cache disabled", zap.Error(err))
		} else {
			a.redis = client
			opts = append(opts, service.SummaryWithCache(cache.NewRedisCache(client, cfg.CacheTTL)))
			logger.Info("summary cache enabled", zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	a.Summaries = service.NewSummaryService(opts...)
	a.Chat = service.NewChatService(
		service.ChatWithProvider(provider),
		service.ChatWithRulebook(rulebook),
		service.ChatWithLogger(logger),
	)
	return a, nil
}

// DocumentHandler builds document storage, the document and job stores and
// the analysis service. Without DATABASE_URL records are kept in memory.
func (a *App) DocumentHandler(ctx context.Context) (*handlers.DocumentHandler, error) {
	st, err := storage.NewStorage(a.Config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var (
		documents interface {
			handlers.DocumentRecorder
			service.DocumentStore
		}
		jobs service.AnalysisJobStore
	)
	if a.Config.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, a.Config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = pool
		documents = repository.NewDocumentRepository(pool)
		jobs = repository.NewAnalysisJobRepository(pool)
		a.Logger.Info("document records stored in postgres")
	} else {
		documents = repository.NewMemoryDocumentRepository()
		jobs = repository.NewMemoryAnalysisJobRepository()
		a.Logger.Warn("DATABASE_URL not set; document records are kept in memory")
	}

	analysis := service.NewAnalysisService(
		service.AnalysisWithDocumentStore(documents),
		service.AnalysisWithJobStore(jobs),
		service.AnalysisWithStorage(st),
		service.AnalysisWithSummaryService(a.Summaries),
		service.AnalysisWithLogger(a.Logger),
	)
	return handlers.NewDocumentHandler(documents, st, analysis, a.Logger), nil
}

// Close releases the generator and every open connection
func (a *App) Close() {
	if err := a.Provider.Close(); err != nil {
		a.Logger.Warn("failed to close generator", zap.Error(err))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
