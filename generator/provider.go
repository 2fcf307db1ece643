package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single generation call, including the wait for a
// rate limiter slot.
const DefaultTimeout = 30 * time.Second

// Factory builds the backend on first use.
type Factory func(ctx context.Context) (Generator, error)

// Settings selects and configures a backend.
type Settings struct {
	Backend      string
	GeminiAPIKey string
	GeminiModel  string
	HFAPIKey     string
	HFModel      string
	Timeout      time.Duration
	Rate         float64
	Burst        int
}

// Provider is the process-wide handle on the optional generator. Whether a
// backend is configured is decided once at construction; the backend itself
// is built lazily on the first Rewrite and shared by every caller after that.
type Provider struct {
	name      string
	factory   Factory
	available bool
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    *zap.Logger

	once    sync.Once
	gen     Generator
	loadErr error
}

// ProviderOption is a functional option for Provider
type ProviderOption func(*Provider)

// WithTimeout sets the per call timeout
func WithTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithRateLimit allows perSecond calls per second with the given burst. A
// non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) ProviderOption {
	return func(p *Provider) {
		if perSecond <= 0 {
			p.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ProviderOption {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProvider creates a provider named name that builds its backend with
// factory. A nil factory yields a provider that is never available.
func NewProvider(name string, factory Factory, opts ...ProviderOption) *Provider {
	p := &Provider{
		name:      name,
		factory:   factory,
		available: factory != nil,
		timeout:   DefaultTimeout,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewUnavailableProvider returns a provider with no backend.
func NewUnavailableProvider(opts ...ProviderOption) *Provider {
	return NewProvider(BackendNone, nil, opts...)
}

// NewProviderFromSettings resolves the configured backend. A missing API key
// or the "none" backend produces an unavailable provider rather than an
// error; an unknown backend name is an error.
func NewProviderFromSettings(s Settings, opts ...ProviderOption) (*Provider, error) {
	opts = append([]ProviderOption{WithTimeout(s.Timeout), WithRateLimit(s.Rate, s.Burst)}, opts...)

	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case "", BackendNone:
		return NewUnavailableProvider(opts...), nil
	case BackendGemini:
		if s.GeminiAPIKey == "" {
			return NewUnavailableProvider(opts...), nil
		}
		model := s.GeminiModel
		if model == "" {
			model = DefaultGeminiModel
		}
		return NewProvider(BackendGemini+"/"+model, func(ctx context.Context) (Generator, error) {
			return NewGemini(ctx, s.GeminiAPIKey, model)
		}, opts...), nil
	case BackendHuggingFace:
		if s.HFAPIKey == "" {
			return NewUnavailableProvider(opts...), nil
		}
		model := s.HFModel
		if model == "" {
			model = DefaultHuggingFaceModel
		}
		return NewProvider(BackendHuggingFace+"/"+model, func(context.Context) (Generator, error) {
			return NewHuggingFace(s.HFAPIKey, model)
		}, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
}

// Available reports whether a backend was configured at construction.
func (p *Provider) Available() bool {
	return p.available
}

// Name identifies the configured backend; "none" when unavailable.
func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) load() (Generator, error) {
	p.once.Do(func() {
		gen, err := p.factory(context.Background())
		if err == nil && gen == nil {
			err = ErrEmptyResponse
		}
		if err != nil {
			p.loadErr = err
			p.logger.Error("generator failed to load, continuing without it",
				zap.String("generator", p.name), zap.Error(err))
			return
		}
		p.gen = gen
		p.logger.Info("generator loaded", zap.String("generator", p.name))
	})
	return p.gen, p.loadErr
}

var errProviderClosed = errors.New("generator provider closed")

type generation struct {
	text string
	err  error
}

// Rewrite asks the generator to complete prompt and classifies the result.
// reference is the text the model is meant to improve on; an answer equal to
// it (ignoring case and surrounding whitespace) is rejected. Rewrite never
// returns an error or panics: every failure is folded into the Outcome.
func (p *Provider) Rewrite(ctx context.Context, prompt, reference string, maxTokens int32) Outcome {
	if !p.available {
		return Outcome{Status: StatusUnavailable}
	}
	gen, err := p.load()
	if err != nil {
		return Outcome{Status: StatusUnavailable, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return Outcome{Status: StatusFailed, Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	done := make(chan generation, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- generation{err: fmt.Errorf("%w: %v", ErrGeneratorPanic, r)}
			}
		}()
		text, err := gen.Generate(ctx, prompt, maxTokens)
		done <- generation{text: text, err: err}
	}()

	var res generation
	select {
	case res = <-done:
	case <-ctx.Done():
		return Outcome{Status: StatusFailed, Err: ctx.Err()}
	}
	if res.err != nil {
		return Outcome{Status: StatusFailed, Err: res.err}
	}

	text := strings.TrimSpace(res.text)
	if text == "" || strings.EqualFold(text, strings.TrimSpace(reference)) {
		return Outcome{Status: StatusRejected, Text: text}
	}
	return Outcome{Status: StatusAccepted, Text: text}
}

// Close releases the backend if it was loaded.
func (p *Provider) Close() error {
	p.once.Do(func() { p.loadErr = errProviderClosed })
	if p.gen == nil {
		return nil
	}
	return p.gen.Close()
}
