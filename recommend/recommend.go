// Package recommend asks Gemini for productivity recommendations about a
// summarized workspace.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"clickupai/aggregator"
	"clickupai/common"
	"clickupai/domain"
	"clickupai/secret_manager"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

const (
	GeminiAPIKeySecretName = "GEMINI_API_KEY"
	GoogleAPIKeySecretName = "GOOGLE_API_KEY"

	tracerName = "clickupai/recommend"
)

type Client struct {
	secrets   secret_manager.SecretManager
	generator Generator
	model     string
	timeout   time.Duration
}

type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

func WithGenerator(g Generator) Option {
	return func(c *Client) { c.generator = g }
}

// WithTimeout bounds a single Recommend call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(secrets secret_manager.SecretManager, opts ...Option) *Client {
	c := &Client{
		secrets:   secrets,
		generator: GeminiGenerator{HTTPClient: &http.Client{Timeout: common.DefaultGeminiTimeout}},
		model:     common.DefaultGeminiModel,
		timeout:   common.DefaultGeminiTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig builds a client from the loaded config.
func NewFromConfig(secrets secret_manager.SecretManager, cfg common.GeminiConfig, opts ...Option) *Client {
	base := []Option{
		WithModel(cfg.Model),
		WithTimeout(cfg.Timeout),
		WithGenerator(GeminiGenerator{HTTPClient: &http.Client{Timeout: cfg.Timeout}}),
	}
	return New(secrets, append(base, opts...)...)
}

func (c *Client) Model() string {
	return c.model
}

// Recommend returns the model's recommendations for useCase, exactly as
// generated. The use case is validated before any call is made.
func (c *Client) Recommend(ctx context.Context, useCase string, summary aggregator.Summary) (string, error) {
	uc, err := domain.ParseUseCase(useCase)
	if err != nil {
		return "", err
	}

	apiKey, err := c.apiKey()
	if err != nil {
		return "", err
	}

	prompt, err := RenderPrompt(uc, summary)
	if err != nil {
		return "", fmt.Errorf("rendering recommendation prompt: %w", err)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "recommend.Recommend")
	defer span.End()
	span.SetAttributes(attribute.String("gemini.model", c.model), attribute.String("use_case", string(uc)))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.generator.Generate(ctx, apiKey, c.model, prompt)
	if err != nil {
		return "", classifyError(ctx, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", &domain.ProviderError{Kind: domain.ErrTransient, Provider: domain.ProviderGemini, Err: errors.New("empty response")}
	}

	log.Debug().Str("model", c.model).Str("useCase", string(uc)).Dur("duration", time.Since(start)).Int("chars", len(text)).Msg("Generated recommendations")
	return text, nil
}

func (c *Client) apiKey() (string, error) {
	var errs []error
	for _, name := range []string{GeminiAPIKeySecretName, GoogleAPIKeySecretName} {
		key, err := c.secrets.GetSecret(name)
		if err == nil && strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return "", &domain.ProviderError{
		Kind:     domain.ErrAuth,
		Provider: domain.ProviderGemini,
		Err:      fmt.Errorf("no Gemini API key configured: %w", errors.Join(errs...)),
	}
}

// classifyError maps a generation failure to the domain error taxonomy.
func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	for _, kind := range []error{domain.ErrAuth, domain.ErrNotFound, domain.ErrRateLimit, domain.ErrTransient, domain.ErrInvalidInput} {
		if errors.Is(err, kind) {
			return err
		}
	}

	pe := &domain.ProviderError{Kind: domain.ErrTransient, Provider: domain.ProviderGemini, Err: err}
	if apiErr, ok := asAPIError(err); ok {
		pe.StatusCode = apiErr.Code
		pe.Err = errors.New(apiErr.Message)
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			pe.Kind = domain.ErrAuth
		case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "API key not valid"):
			pe.Kind = domain.ErrAuth
		case apiErr.Code == http.StatusNotFound:
			pe.Kind = domain.ErrNotFound
		case apiErr.Code == http.StatusTooManyRequests:
			pe.Kind = domain.ErrRateLimit
		case apiErr.Code >= 500:
			pe.Kind = domain.ErrTransient
		default:
			pe.Kind = domain.ErrInvalidInput
		}
	} else if ctx.Err() != nil {
		pe.Err = fmt.Errorf("gemini request timed out: %w", ctx.Err())
	}
	return pe
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}
