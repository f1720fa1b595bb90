// SPDX-License-Identifier: MIT

package narrative

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// OpenAIOption configures an OpenAIClient.
type OpenAIOption func(*openAIOptions)

type openAIOptions struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// WithOpenAIBaseURL points the client at a compatible server ("…/v1").
func WithOpenAIBaseURL(u string) OpenAIOption {
	return func(o *openAIOptions) { o.baseURL = strings.TrimSuffix(u, "/") }
}

// WithOpenAIModel overrides DefaultOpenAIModel.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *openAIOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOpenAIHTTPClient replaces the HTTP client.
func WithOpenAIHTTPClient(hc *http.Client) OpenAIOption {
	return func(o *openAIOptions) { o.httpClient = hc }
}

// WithOpenAILogger sets the logger. nil keeps the no-op logger.
func WithOpenAILogger(l *zap.Logger) OpenAIOption {
	return func(o *openAIOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewOpenAIClient returns a client authenticated with apiKey.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	o := openAIOptions{model: DefaultOpenAIModel, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if apiKey == "" && o.baseURL == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required for the default endpoint", ErrInvalidOption)
	}

	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	}
	o.logger.Debug("initialized openai client", zap.String("base_url", cfg.BaseURL), zap.String("model", o.model))

	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: o.model, logger: o.logger}, nil
}

// Name implements Generator.
func (c *OpenAIClient) Name() string { return "OpenAI" }

// Model returns the configured model name.
func (c *OpenAIClient) Model() string { return c.model }

// Generate sends the lens context as a system message, when present.
func (c *OpenAIClient) Generate(ctx context.Context, prompt, lensContext string) (string, error) {
	ctx, span := tracer.Start(ctx, "OpenAIClient.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model), attribute.Bool("llm.lens", lensContext != ""))

	var msgs []openai.ChatCompletionMessage
	if lensContext != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: lensContext})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{Model: c.model, Messages: msgs})
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrRequestFailed, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		span.SetStatus(codes.Error, ErrEmptyResponse.Error())
		return "", ErrEmptyResponse
	}
	c.logger.Debug("received openai response", zap.String("finish_reason", string(resp.Choices[0].FinishReason)))

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
