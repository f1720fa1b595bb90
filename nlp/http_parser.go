// SPDX-License-Identifier: MIT

package nlp

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
)

var tracer = otel.Tracer("hypergraph.nlp")

// DefaultParseTimeout bounds a single parse request.
const DefaultParseTimeout = 30 * time.Second

// HTTPParser is a Parser backed by a spaCy-compatible HTTP service.
type HTTPParser struct {
	httpClient *http.Client
	baseURL    string
	model      string
	logger     *zap.Logger
}

// HTTPParserOption configures an HTTPParser.
type HTTPParserOption func(*HTTPParser)

// WithParserHTTPClient replaces the default http.Client.
func WithParserHTTPClient(c *http.Client) HTTPParserOption {
	return func(p *HTTPParser) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// WithParserLogger sets the logger; nil keeps the no-op logger.
func WithParserLogger(l *zap.Logger) HTTPParserOption {
	return func(p *HTTPParser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithParserModel requests a specific pipeline (e.g. "en_core_web_sm").
func WithParserModel(model string) HTTPParserOption {
	return func(p *HTTPParser) { p.model = model }
}

// NewHTTPParser builds a parser client for baseURL.
func NewHTTPParser(baseURL string, opts ...HTTPParserOption) (*HTTPParser, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: parser base URL not set", ErrParseFailed)
	}
	p := &HTTPParser{
		httpClient: &http.Client{Timeout: DefaultParseTimeout},
		baseURL:    baseURL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

type parseRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// Parse implements Parser.
//
// Errors: ErrEmptyText, ErrParseFailed (transport, status, decoding),
// ErrInvalidDoc (malformed heads).
func (p *HTTPParser) Parse(ctx context.Context, text string) (*Doc, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	ctx, span := tracer.Start(ctx, "HTTPParser.Parse")
	defer span.End()
	span.SetAttributes(attribute.Int("nlp.text_len", len(text)))

	fail := func(err error) (*Doc, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var doc Doc
	if err := httpjson.Post(ctx, p.httpClient, p.baseURL+"/parse", parseRequest{Text: text, Model: p.model}, &doc, ErrParseFailed, p.logger); err != nil {
		return fail(err)
	}
	if err := doc.Validate(); err != nil {
		return fail(err)
	}

	span.SetAttributes(attribute.Int("nlp.tokens", len(doc.Tokens)), attribute.String("nlp.model", doc.Model))
	p.logger.Debug("parsed proposition", zap.Int("tokens", len(doc.Tokens)), zap.String("model", doc.Model))

	return &doc, nil
}
