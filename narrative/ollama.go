// SPDX-License-Identifier: MIT

package narrative

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/soyuz43/hypergraph-cli/internal/httpjson"
)

var tracer = otel.Tracer("hypergraph.narrative")

// Ollama defaults.
const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "qwen2.5-coder:3b-instruct-q8_0"
)

// OllamaClient calls a local Ollama server's /api/chat endpoint without
// streaming. Requests share one rate limiter.
type OllamaClient struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	temperature *float64
	limiter     *rate.Limiter
	logger      *zap.Logger
	err         error
}

// OllamaOption configures an OllamaClient.
type OllamaOption func(*OllamaClient)

// WithOllamaModel overrides DefaultOllamaModel.
func WithOllamaModel(model string) OllamaOption {
	return func(c *OllamaClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithOllamaHTTPClient replaces the default client (5 minute timeout).
func WithOllamaHTTPClient(hc *http.Client) OllamaOption {
	return func(c *OllamaClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithOllamaLogger sets the logger. nil keeps the no-op logger.
func WithOllamaLogger(l *zap.Logger) OllamaOption {
	return func(c *OllamaClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOllamaTemperature sets the sampling temperature.
func WithOllamaTemperature(t float64) OllamaOption {
	return func(c *OllamaClient) {
		if t < 0 {
			c.err = fmt.Errorf("%w: temperature cannot be negative (%v)", ErrInvalidOption, t)
			return
		}
		c.temperature = &t
	}
}

// WithOllamaRateLimit allows rps requests per second with the given burst.
// rps <= 0 disables limiting.
func WithOllamaRateLimit(rps float64, burst int) OllamaOption {
	return func(c *OllamaClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			c.err = fmt.Errorf("%w: burst must be at least 1 (%d)", ErrInvalidOption, burst)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewOllamaClient returns a client for baseURL ("" means DefaultOllamaURL).
func NewOllamaClient(baseURL string, opts ...OllamaOption) (*OllamaClient, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	c := &OllamaClient{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      DefaultOllamaModel,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.err != nil {
		return nil, c.err
	}
	c.logger.Debug("initialized ollama client", zap.String("base_url", c.baseURL), zap.String("model", c.model))

	return c, nil
}

// Name implements Generator.
func (c *OllamaClient) Name() string { return "Ollama" }

// Model returns the configured model name.
func (c *OllamaClient) Model() string { return c.model }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ollamaMessage        `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// Generate sends the lens context as a system message, when present, and the
// prompt as the user message. The reply is trimmed.
func (c *OllamaClient) Generate(ctx context.Context, prompt, lensContext string) (string, error) {
	ctx, span := tracer.Start(ctx, "OllamaClient.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model), attribute.Bool("llm.lens", lensContext != ""))

	fail := func(err error) (string, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(fmt.Errorf("narrative: rate limit: %w", err))
		}
	}

	var msgs []ollamaMessage
	if lensContext != "" {
		msgs = append(msgs, ollamaMessage{Role: "system", Content: lensContext})
	}
	msgs = append(msgs, ollamaMessage{Role: "user", Content: prompt})
	payload := ollamaChatRequest{Model: c.model, Messages: msgs}
	if c.temperature != nil {
		payload.Options = map[string]interface{}{"temperature": *c.temperature}
	}

	var out ollamaChatResponse
	err := httpjson.Post(ctx, c.httpClient, c.baseURL+"/api/chat", payload, &out, ErrRequestFailed, c.logger)
	var se *httpjson.StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound && bytes.Contains(se.Body, []byte("not found")) {
		return fail(fmt.Errorf("%w: model %q not found, run 'ollama pull %s'", ErrRequestFailed, c.model, c.model))
	}
	if err != nil {
		return fail(err)
	}
	text := strings.TrimSpace(out.Message.Content)
	if text == "" {
		return fail(ErrEmptyResponse)
	}
	c.logger.Debug("received ollama response", zap.Int("chars", len(text)))

	return text, nil
}
