package generator

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("You can be "), genai.Text("fired anytime.")}},
		}},
	}

	text, err := geminiText(resp)

	require.NoError(t, err)
	assert.Equal(t, "You can be fired anytime.", text)
}

func TestGeminiText_Empty(t *testing.T) {
	_, err := geminiText(nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)

	text, err := geminiText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = geminiText(&genai.GenerateContentResponse{})
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = geminiText(&genai.GenerateContentResponse{
		PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
