package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultHuggingFaceModel is a small instruction-tuned seq2seq model.
	DefaultHuggingFaceModel = "google/flan-t5-base"

	huggingFaceInferenceURL = "https://api-inference.huggingface.co/models/"
)

// HuggingFace calls the hosted Hugging Face Inference API.
type HuggingFace struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// HuggingFaceOption is a functional option for HuggingFace
type HuggingFaceOption func(*HuggingFace)

// WithHuggingFaceBaseURL points the client at another inference endpoint.
func WithHuggingFaceBaseURL(url string) HuggingFaceOption {
	return func(h *HuggingFace) {
		h.baseURL = strings.TrimRight(url, "/") + "/"
	}
}

// WithHuggingFaceHTTPClient sets the HTTP client
func WithHuggingFaceHTTPClient(client *http.Client) HuggingFaceOption {
	return func(h *HuggingFace) {
		h.httpClient = client
	}
}

// NewHuggingFace creates a client for model, authenticated with apiKey.
func NewHuggingFace(apiKey, model string, opts ...HuggingFaceOption) (*HuggingFace, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultHuggingFaceModel
	}

	h := &HuggingFace{
		apiKey:     apiKey,
		model:      model,
		baseURL:    huggingFaceInferenceURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Name returns the backend and model.
func (h *HuggingFace) Name() string {
	return BackendHuggingFace + "/" + h.model
}

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
	Options    huggingFaceOptions    `json:"options"`
}

type huggingFaceParameters struct {
	MaxNewTokens   int32 `json:"max_new_tokens,omitempty"`
	DoSample       bool  `json:"do_sample"`
	ReturnFullText bool  `json:"return_full_text"`
}

type huggingFaceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Generate posts the prompt and returns the first generated text.
func (h *HuggingFace) Generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	body, err := json.Marshal(huggingFaceRequest{
		Inputs: prompt,
		Parameters: huggingFaceParameters{
			MaxNewTokens: maxTokens,
		},
		Options: huggingFaceOptions{WaitForModel: true},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.model, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("huggingface API error: %d - %s", resp.StatusCode, huggingFaceError(respBody))
	}

	var generations []struct {
		GeneratedText string `json:"generated_text"`
		SummaryText   string `json:"summary_text"`
	}
	if err := json.Unmarshal(respBody, &generations); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	for _, g := range generations {
		if g.GeneratedText != "" {
			return g.GeneratedText, nil
		}
		if g.SummaryText != "" {
			return g.SummaryText, nil
		}
	}
	return "", nil
}

// Close is a no-op; the HTTP client holds no per-model resources.
func (h *HuggingFace) Close() error {
	return nil
}

func huggingFaceError(body []byte) string {
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	return strings.TrimSpace(string(body))
}
