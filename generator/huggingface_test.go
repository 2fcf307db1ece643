package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFaceGenerate(t *testing.T) {
	var got huggingFaceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/google/flan-t5-base", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"generated_text":"You can be fired without pay."}]`))
	}))
	defer srv.Close()

	h, err := NewHuggingFace("hf_test", "", WithHuggingFaceBaseURL(srv.URL), WithHuggingFaceHTTPClient(srv.Client()))
	require.NoError(t, err)

	text, err := h.Generate(context.Background(), "Summarize: The employee can be fired at will without pay.", 100)

	require.NoError(t, err)
	assert.Equal(t, "You can be fired without pay.", text)
	assert.Equal(t, "Summarize: The employee can be fired at will without pay.", got.Inputs)
	assert.Equal(t, int32(100), got.Parameters.MaxNewTokens)
	assert.False(t, got.Parameters.DoSample)
	assert.Equal(t, "huggingface/google/flan-t5-base", h.Name())
}

func TestHuggingFaceGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{"api error", http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`, "Model is currently loading"},
		{"bad json", http.StatusOK, `{"generated_text":`, "failed to decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			h, err := NewHuggingFace("hf_test", "m", WithHuggingFaceBaseURL(srv.URL))
			require.NoError(t, err)

			_, err = h.Generate(context.Background(), "p", 10)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestHuggingFaceGenerate_EmptyOutputIsNotAnError(t *testing.T) {
	for _, body := range []string{`[]`, `[{"generated_text":""}]`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		h, err := NewHuggingFace("hf_test", "m", WithHuggingFaceBaseURL(srv.URL))
		require.NoError(t, err)

		text, err := h.Generate(context.Background(), "p", 10)
		srv.Close()
		require.NoError(t, err, body)
		assert.Empty(t, text, body)

		p := NewProvider("hf", func(context.Context) (Generator, error) { return h, nil })
		assert.Equal(t, StatusRejected, p.Rewrite(context.Background(), "p", "ref", 10).Status, body)
	}
}

func TestNewHuggingFace_RequiresKey(t *testing.T) {
	_, err := NewHuggingFace("", "m")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
