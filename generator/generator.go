// Package generator wraps the optional text-generation backends used to
// rewrite summaries and answer questions.
package generator

import (
	"context"
	"errors"
)

// Token budgets for the two prompts the application sends.
const (
	SummaryMaxTokens int32 = 250
	ChatMaxTokens    int32 = 200
)

// Backend names accepted by Settings.Backend.
const (
	BackendGemini      = "gemini"
	BackendHuggingFace = "huggingface"
	BackendNone        = "none"
)

var (
	ErrEmptyResponse  = errors.New("generator returned no text")
	ErrUnknownBackend = errors.New("unknown generator backend")
	ErrMissingAPIKey  = errors.New("generator API key not set")
	ErrGeneratorPanic = errors.New("generator panicked")
)

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int32) (string, error)
	Name() string
	Close() error
}

// Status classifies what happened to a single rewrite attempt.
type Status string

const (
	// StatusAccepted means the model produced usable text.
	StatusAccepted Status = "accepted"
	// StatusUnavailable means no generator is configured or it failed to load.
	StatusUnavailable Status = "unavailable"
	// StatusRejected means the model answered with nothing new: empty output or
	// a copy of the reference text.
	StatusRejected Status = "rejected"
	// StatusFailed means the call errored, panicked or timed out.
	StatusFailed Status = "failed"
	// StatusSkipped means there was nothing to rewrite and no call was made.
	StatusSkipped Status = "skipped"
)

// Outcome is the result of Provider.Rewrite. Text is set for accepted and
// rejected outcomes, Err for failed and unavailable ones.
type Outcome struct {
	Status Status
	Text   string
	Err    error
}

// Accepted reports whether the outcome carries model text to use.
func (o Outcome) Accepted() bool {
	return o.Status == StatusAccepted
}
