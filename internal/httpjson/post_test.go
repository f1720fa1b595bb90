// SPDX-License-Identifier: MIT

package httpjson_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/soyuz43/hypergraph-cli/internal/httpjson"
)

var errFailed = errors.New("test: call failed")

type echo struct {
	Text string `json:"text"`
}

func TestPost_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in echo
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(echo{Text: in.Text + "!"})
	}))
	defer srv.Close()

	var out echo
	err := httpjson.Post(context.Background(), srv.Client(), srv.URL+"/echo", echo{Text: "hi"}, &out, errFailed, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "hi!", out.Text)
}

func TestPost_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"status", http.StatusBadGateway, "  upstream down\n", "status 502: upstream down"},
		{"decode", http.StatusOK, `{"text":`, "decode response"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			var out echo
			err := httpjson.Post(context.Background(), srv.Client(), srv.URL, echo{}, &out, errFailed, nil)
			require.ErrorIs(t, err, errFailed)
			assert.Contains(t, err.Error(), tc.message)
		})
	}

	t.Run("status code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer srv.Close()

		var out echo
		err := httpjson.Post(context.Background(), srv.Client(), srv.URL, echo{}, &out, errFailed, nil)
		var se *httpjson.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusNotFound, se.Code)
		assert.Equal(t, "model not found\n", string(se.Body))
	})

	t.Run("marshal", func(t *testing.T) {
		var out echo
		err := httpjson.Post(context.Background(), http.DefaultClient, "http://127.0.0.1:1", func() {}, &out, errFailed, nil)
		require.ErrorIs(t, err, errFailed)
		assert.Contains(t, err.Error(), "marshal request")
	})

	t.Run("cancelled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		defer srv.Close()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out echo
		err := httpjson.Post(ctx, srv.Client(), srv.URL, echo{}, &out, errFailed, nil)
		require.ErrorIs(t, err, errFailed)
		require.ErrorIs(t, err, context.Canceled)
	})
}
