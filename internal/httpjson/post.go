// SPDX-License-Identifier: MIT

// Package httpjson holds the JSON-over-HTTP round trip shared by the parser
// and encoder clients.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// StatusError is returned for a non-200 response. It unwraps to the
// caller's failure sentinel.
type StatusError struct {
	Failed error
	Code   int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: status %d: %s", e.Failed, e.Code, strings.TrimSpace(string(e.Body)))
}

func (e *StatusError) Unwrap() error { return e.Failed }

// Post marshals in, POSTs it to url and decodes a 200 response into out.
//
// Every error wraps failed. Transport errors also wrap the client error, so
// context cancellation stays visible through errors.Is. Non-200 responses
// come back as *StatusError.
func Post(ctx context.Context, client *http.Client, url string, in, out any, failed error, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", failed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", failed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("request failed", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("%w: %w", failed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", failed, err)
	}
	if resp.StatusCode != http.StatusOK {
		logger.Error("service returned an error",
			zap.String("url", url), zap.Int("status_code", resp.StatusCode), zap.ByteString("response", raw))
		return &StatusError{Failed: failed, Code: resp.StatusCode, Body: raw}
	}

	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", failed, err)
	}

	return nil
}
