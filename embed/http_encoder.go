// SPDX-License-Identifier: MIT

package embed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/soyuz43/hypergraph-cli/internal/httpjson"
	"github.com/soyuz43/hypergraph-cli/matrix"
)

var tracer = otel.Tracer("hypergraph.embed")

// DefaultEncodeTimeout bounds a single encode request.
const DefaultEncodeTimeout = 60 * time.Second

// HTTPEncoder is an Encoder backed by a transformers-style HTTP service.
type HTTPEncoder struct {
	httpClient *http.Client
	baseURL    string
	model      string
	logger     *zap.Logger
}

// HTTPEncoderOption configures an HTTPEncoder.
type HTTPEncoderOption func(*HTTPEncoder)

// WithEncoderHTTPClient replaces the default http.Client.
func WithEncoderHTTPClient(c *http.Client) HTTPEncoderOption {
	return func(e *HTTPEncoder) {
		if c != nil {
			e.httpClient = c
		}
	}
}

// WithEncoderLogger sets the logger; nil keeps the no-op logger.
func WithEncoderLogger(l *zap.Logger) HTTPEncoderOption {
	return func(e *HTTPEncoder) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEncoderModel requests a specific checkpoint (e.g. "bert-base-uncased").
func WithEncoderModel(model string) HTTPEncoderOption {
	return func(e *HTTPEncoder) { e.model = model }
}

// NewHTTPEncoder builds an encoder client for baseURL.
func NewHTTPEncoder(baseURL string, opts ...HTTPEncoderOption) (*HTTPEncoder, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: encoder base URL not set", ErrEncodeFailed)
	}
	e := &HTTPEncoder{
		httpClient: &http.Client{Timeout: DefaultEncodeTimeout},
		baseURL:    baseURL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

type encodeRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

type encodeResponse struct {
	Model        string      `json:"model"`
	HiddenSize   int         `json:"hidden_size"`
	Tokens       []string    `json:"tokens"`
	HiddenStates [][]float64 `json:"hidden_states"`
}

// Encode implements Encoder.
//
// Errors: ErrEncodeFailed (transport, status, decoding), ErrInvalidEncoding
// (token/row count or hidden size disagree).
func (e *HTTPEncoder) Encode(ctx context.Context, text string) (*Encoding, error) {
	ctx, span := tracer.Start(ctx, "HTTPEncoder.Encode")
	defer span.End()
	span.SetAttributes(attribute.String("embed.model", e.model))

	fail := func(err error) (*Encoding, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var er encodeResponse
	if err := httpjson.Post(ctx, e.httpClient, e.baseURL+"/encode", encodeRequest{Text: text, Model: e.model}, &er, ErrEncodeFailed, e.logger); err != nil {
		return fail(err)
	}
	if len(er.Tokens) == 0 || len(er.Tokens) != len(er.HiddenStates) {
		return fail(fmt.Errorf("%w: %d tokens vs %d hidden rows", ErrInvalidEncoding, len(er.Tokens), len(er.HiddenStates)))
	}
	hidden, err := matrix.NewDenseFromRows(er.HiddenStates)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrInvalidEncoding, err))
	}
	if er.HiddenSize != 0 && er.HiddenSize != hidden.Cols() {
		return fail(fmt.Errorf("%w: hidden_size %d vs %d columns", ErrInvalidEncoding, er.HiddenSize, hidden.Cols()))
	}

	span.SetAttributes(attribute.Int("embed.tokens", len(er.Tokens)), attribute.Int("embed.hidden_size", hidden.Cols()))
	e.logger.Debug("encoded proposition", zap.Int("tokens", len(er.Tokens)), zap.Int("hidden_size", hidden.Cols()))

	return &Encoding{Model: er.Model, Tokens: er.Tokens, Hidden: hidden}, nil
}
