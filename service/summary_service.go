package service

import (
	"context"
	"errors"
	"strings"

	"clario-backend/cache"
	"clario-backend/generator"
	"clario-backend/legal"
	"clario-backend/summarizer"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "clario-backend/service"

// SummaryPromptPrefix precedes the extractive draft in the rewrite prompt.
const SummaryPromptPrefix = "Rewrite the following legal summary in simple, plain language:\n\n"

// SummaryService turns legal text into a plain-language summary: extractive
// LSA per chunk, an optional model rewrite, then terminology normalization.
type SummaryService struct {
	provider         *generator.Provider
	rulebook         *legal.Rulebook
	lsa              *summarizer.LSA
	cache            cache.SummaryCache
	logger           *zap.Logger
	tracer           trace.Tracer
	chunkSentences   int
	summarySentences int
}

// SummaryServiceOption is a functional option for SummaryService
type SummaryServiceOption func(*SummaryService)

// SummaryWithProvider sets the generator provider
func SummaryWithProvider(p *generator.Provider) SummaryServiceOption {
	return func(s *SummaryService) {
		s.provider = p
	}
}

// SummaryWithRulebook sets the rulebook
func SummaryWithRulebook(rb *legal.Rulebook) SummaryServiceOption {
	return func(s *SummaryService) {
		s.rulebook = rb
	}
}

// SummaryWithCache enables the summary cache
func SummaryWithCache(c cache.SummaryCache) SummaryServiceOption {
	return func(s *SummaryService) {
		s.cache = c
	}
}

// SummaryWithLogger sets the logger
func SummaryWithLogger(logger *zap.Logger) SummaryServiceOption {
	return func(s *SummaryService) {
		s.logger = logger
	}
}

// SummaryWithSizes sets the sentences per chunk and the sentences kept per chunk
func SummaryWithSizes(chunkSentences, summarySentences int) SummaryServiceOption {
	return func(s *SummaryService) {
		s.chunkSentences = chunkSentences
		s.summarySentences = summarySentences
	}
}

// NewSummaryService creates a new summary service. Without options it uses
// the embedded rulebook and no generator.
func NewSummaryService(opts ...SummaryServiceOption) *SummaryService {
	s := &SummaryService{
		lsa:              summarizer.NewLSA(),
		chunkSentences:   summarizer.DefaultChunkSentences,
		summarySentences: summarizer.DefaultSummarySentences,
		tracer:           otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.provider == nil {
		s.provider = generator.NewUnavailableProvider()
	}
	if s.rulebook == nil {
		s.rulebook = legal.Default()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// SummarizeRequest represents a request to summarize text
type SummarizeRequest struct {
	Text string
}

// SummarizeResult represents a finished summary
type SummarizeResult struct {
	Summary   string           `json:"summary"`
	UsedModel bool             `json:"used_model"`
	Outcome   generator.Status `json:"outcome"`
	Chunks    int              `json:"chunks"`
	Cached    bool             `json:"cached"`
}

// Summarize never fails: every generator problem degrades to the extractive
// draft.
func (s *SummaryService) Summarize(ctx context.Context, req SummarizeRequest) *SummarizeResult {
	ctx, span := s.tracer.Start(ctx, "summary.summarize")
	defer span.End()

	if strings.TrimSpace(req.Text) == "" {
		return &SummarizeResult{Outcome: generator.StatusSkipped}
	}

	key := cache.Key(req.Text, s.provider.Name())
	if cached := s.lookupCache(ctx, key); cached != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached
	}

	chunks := s.Chunk(ctx, req.Text)
	draft := s.Extract(ctx, chunks)
	outcome := s.Rewrite(ctx, draft)
	summary := s.Finalize(ctx, draft, outcome)

	result := &SummarizeResult{
		Summary:   summary,
		UsedModel: outcome.Accepted(),
		Outcome:   outcome.Status,
		Chunks:    len(chunks),
	}
	span.SetAttributes(
		attribute.Int("summary.chunks", result.Chunks),
		attribute.String("summary.outcome", string(result.Outcome)),
	)

	// A generator that failed to load may work on the next request.
	if outcome.Status != generator.StatusFailed && outcome.Err == nil {
		s.storeCache(ctx, key, result)
	}
	return result
}

// Chunk splits text into sentences and groups them into chunks.
func (s *SummaryService) Chunk(ctx context.Context, text string) [][]string {
	_, span := s.tracer.Start(ctx, "summary.chunk")
	defer span.End()

	return summarizer.ChunkSentences(summarizer.SplitSentences(text), s.chunkSentences)
}

// Extract summarizes each chunk and joins the results into the draft.
func (s *SummaryService) Extract(ctx context.Context, chunks [][]string) string {
	_, span := s.tracer.Start(ctx, "summary.extract")
	defer span.End()

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if part := s.lsa.SummarizeSentences(chunk, s.summarySentences); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// Rewrite asks the generator for a plain-language version of draft and logs
// the outcome.
func (s *SummaryService) Rewrite(ctx context.Context, draft string) generator.Outcome {
	ctx, span := s.tracer.Start(ctx, "summary.rewrite")
	defer span.End()

	if strings.TrimSpace(draft) == "" {
		return generator.Outcome{Status: generator.StatusSkipped}
	}

	outcome := s.provider.Rewrite(ctx, SummaryPromptPrefix+draft, draft, generator.SummaryMaxTokens)
	span.SetAttributes(attribute.String("generator.outcome", string(outcome.Status)))

	fields := []zap.Field{zap.String("generator", s.provider.Name()), zap.Int("draft_chars", len(draft))}
	switch outcome.Status {
	case generator.StatusAccepted:
		s.logger.Debug("summary rewritten by model", fields...)
	case generator.StatusUnavailable:
		s.logger.Debug("no generator available, keeping extractive draft", append(fields, zap.Error(outcome.Err))...)
	case generator.StatusRejected:
		s.logger.Info("model rewrite rejected as empty or unchanged, keeping extractive draft", fields...)
	case generator.StatusFailed:
		span.RecordError(outcome.Err)
		s.logger.Warn("model rewrite failed, keeping extractive draft", append(fields, zap.Error(outcome.Err))...)
	}
	return outcome
}

// Finalize picks the accepted rewrite or the draft and normalizes its
// terminology.
func (s *SummaryService) Finalize(ctx context.Context, draft string, outcome generator.Outcome) string {
	_, span := s.tracer.Start(ctx, "summary.normalize")
	defer span.End()

	text := draft
	if outcome.Accepted() {
		text = outcome.Text
	}
	return s.rulebook.Terms.Normalize(text)
}

// Analysis bundles everything the service reports about a document
type Analysis struct {
	Summary     string                   `json:"summary"`
	UsedModel   bool                     `json:"used_model"`
	Outcome     generator.Status         `json:"outcome"`
	RedFlags    []string                 `json:"red_flags"`
	RedFlagText string                   `json:"red_flag_text"`
	Clauses     []legal.ClauseAssessment `json:"clauses"`
	OverallRisk legal.RiskLevel          `json:"overall_risk"`
}

// Analyze summarizes text and runs the red-flag and clause checks on the
// original wording.
func (s *SummaryService) Analyze(ctx context.Context, text string) *Analysis {
	summary := s.Summarize(ctx, SummarizeRequest{Text: text})
	clauses := s.AssessClauses(text)

	return &Analysis{
		Summary:     summary.Summary,
		UsedModel:   summary.UsedModel,
		Outcome:     summary.Outcome,
		RedFlags:    s.rulebook.RedFlags(text),
		RedFlagText: s.rulebook.DetectRedFlags(text),
		Clauses:     clauses,
		OverallRisk: legal.OverallRisk(clauses),
	}
}

// RedFlags returns the warnings raised by text and their display form.
func (s *SummaryService) RedFlags(text string) ([]string, string) {
	return s.rulebook.RedFlags(text), s.rulebook.DetectRedFlags(text)
}

// AssessClauses grades every sentence of text as a clause.
func (s *SummaryService) AssessClauses(text string) []legal.ClauseAssessment {
	return s.rulebook.AssessClauses(summarizer.SplitSentences(text))
}

// Rulebook returns the rulebook in use.
func (s *SummaryService) Rulebook() *legal.Rulebook {
	return s.rulebook
}

// GeneratorAvailable reports whether a model backend is configured.
func (s *SummaryService) GeneratorAvailable() bool {
	return s.provider.Available()
}

// GeneratorName identifies the configured generator.
func (s *SummaryService) GeneratorName() string {
	return s.provider.Name()
}

func (s *SummaryService) lookupCache(ctx context.Context, key string) *SummarizeResult {
	if s.cache == nil {
		return nil
	}
	entry, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("summary cache read failed", zap.Error(err))
		}
		return nil
	}
	return &SummarizeResult{
		Summary:   entry.Summary,
		UsedModel: entry.UsedModel,
		Outcome:   generator.Status(entry.Outcome),
		Chunks:    entry.Chunks,
		Cached:    true,
	}
}

func (s *SummaryService) storeCache(ctx context.Context, key string, r *SummarizeResult) {
	if s.cache == nil {
		return
	}
	err := s.cache.Set(ctx, key, &cache.Entry{
		Summary:   r.Summary,
		UsedModel: r.UsedModel,
		Outcome:   string(r.Outcome),
		Chunks:    r.Chunks,
	})
	if err != nil {
		s.logger.Warn("summary cache write failed", zap.Error(err))
	}
}
