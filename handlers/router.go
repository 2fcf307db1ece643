package handlers

import (
	"net/http"
	"time"

	"clario-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig wires the handlers into a router. Documents may be nil when
// no database is configured; the document routes are then not registered.
type RouterConfig struct {
	Summaries *service.SummaryService
	Chat      *service.ChatService
	Documents *DocumentHandler
	Logger    *zap.Logger
}

// NewRouter builds the gin engine with every API route
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())

	summaryHandler := NewSummaryHandler(cfg.Summaries)
	chatHandler := NewChatHandler(cfg.Chat)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"generator": gin.H{
				"name":      cfg.Summaries.GeneratorName(),
				"available": cfg.Summaries.GeneratorAvailable(),
			},
			"documents": cfg.Documents != nil,
		})
	})

	api := r.Group("/api")
	{
		api.POST("/summarize", summaryHandler.Summarize)
		api.POST("/red-flags", summaryHandler.RedFlags)
		api.POST("/clauses/assess", summaryHandler.AssessClauses)
		api.POST("/chat", chatHandler.Ask)

		if cfg.Documents != nil {
			api.POST("/documents/upload", cfg.Documents.Upload)
			api.GET("/documents/:id", cfg.Documents.Download)
			api.POST("/documents/:id/analyze", cfg.Documents.Analyze)
			api.GET("/jobs/:id", cfg.Documents.GetJob)
		}
	}

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request failed", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
