package service

import (
	"context"
	"strings"

	"clario-backend/generator"
	"clario-backend/legal"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Fixed chat replies
const (
	RefusalMessage       = "⚠️ Cannot provide a confident answer. Please consult a legal professional."
	NoModelMessage       = "⚠️ No AI available. Please consult a professional."
	EmptyQuestionMessage = "❌ Please type a question."

	chatPromptPrefix  = "You are a legal assistant. Answer this question safely in simple language:\n\nQuestion: "
	simpleExplanation = "\n\nExplain it as simply as you would to a fifteen year old."
)

// AnswerSource tells where an answer came from.
type AnswerSource string

const (
	SourceKnowledge   AnswerSource = "knowledge"
	SourceModel       AnswerSource = "model"
	SourceRefused     AnswerSource = "refused"
	SourceFailed      AnswerSource = "failed"
	SourceUnavailable AnswerSource = "unavailable"
	SourceInvalid     AnswerSource = "invalid"
)

// ChatService answers legal questions from the knowledge base, falling back
// to the generator.
type ChatService struct {
	provider *generator.Provider
	rulebook *legal.Rulebook
	logger   *zap.Logger
	tracer   trace.Tracer
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

// ChatWithProvider sets the generator provider
func ChatWithProvider(p *generator.Provider) ChatServiceOption {
	return func(s *ChatService) {
		s.provider = p
	}
}

// ChatWithRulebook sets the rulebook
func ChatWithRulebook(rb *legal.Rulebook) ChatServiceOption {
	return func(s *ChatService) {
		s.rulebook = rb
	}
}

// ChatWithLogger sets the logger
func ChatWithLogger(logger *zap.Logger) ChatServiceOption {
	return func(s *ChatService) {
		s.logger = logger
	}
}

// NewChatService creates a new chat service
func NewChatService(opts ...ChatServiceOption) *ChatService {
	s := &ChatService{tracer: otel.Tracer(tracerName)}
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

// AskRequest represents a question
type AskRequest struct {
	Question string
	// Simple asks for an explanation aimed at a non-specialist.
	Simple bool
}

// AskResult represents an answer. Answer is never empty.
type AskResult struct {
	Answer string       `json:"answer"`
	Source AnswerSource `json:"source"`
	Topic  string       `json:"topic,omitempty"`
}

// Ask answers a question. It never fails.
func (s *ChatService) Ask(ctx context.Context, req AskRequest) *AskResult {
	ctx, span := s.tracer.Start(ctx, "chat.ask")
	defer span.End()

	result := s.answer(ctx, req)
	span.SetAttributes(attribute.String("chat.source", string(result.Source)))
	return result
}

func (s *ChatService) answer(ctx context.Context, req AskRequest) *AskResult {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return &AskResult{Answer: EmptyQuestionMessage, Source: SourceInvalid}
	}

	if entry, ok := s.rulebook.Knowledge.Lookup(question); ok {
		s.logger.Debug("answered from knowledge base", zap.String("topic", entry.Topic))
		return &AskResult{Answer: entry.Answer, Source: SourceKnowledge, Topic: entry.Topic}
	}

	if !s.provider.Available() {
		s.logger.Info("no knowledge match and no generator configured")
		return &AskResult{Answer: NoModelMessage, Source: SourceUnavailable}
	}

	prompt := chatPromptPrefix + question
	if req.Simple {
		prompt += simpleExplanation
	}

	outcome := s.provider.Rewrite(ctx, prompt, question, generator.ChatMaxTokens)
	fields := []zap.Field{zap.String("generator", s.provider.Name())}
	switch outcome.Status {
	case generator.StatusAccepted:
		s.logger.Debug("answered by model", fields...)
		return &AskResult{Answer: outcome.Text, Source: SourceModel}
	case generator.StatusRejected:
		s.logger.Info("model answer rejected as empty or an echo of the question", fields...)
		return &AskResult{Answer: RefusalMessage, Source: SourceRefused}
	case generator.StatusUnavailable:
		s.logger.Warn("generator could not be loaded", append(fields, zap.Error(outcome.Err))...)
		return &AskResult{Answer: NoModelMessage, Source: SourceUnavailable}
	default:
		s.logger.Warn("model answer failed", append(fields, zap.Error(outcome.Err))...)
		return &AskResult{Answer: RefusalMessage, Source: SourceFailed}
	}
}
