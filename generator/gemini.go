package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini generates text with Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini client for the given API key and model.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Name returns the backend and model, e.g. "gemini/gemini-1.5-flash".
func (g *Gemini) Name() string {
	return BackendGemini + "/" + g.model
}

// Generate runs greedy decoding (temperature 0) capped at maxTokens.
func (g *Gemini) Generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0)
	model.SetCandidateCount(1)
	if maxTokens > 0 {
		model.SetMaxOutputTokens(maxTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return geminiText(resp)
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
		}
		return "", nil
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	// Empty output is not an error; the provider rejects it.
	return b.String(), nil
}
