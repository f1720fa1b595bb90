// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyuz43/hypergraph-cli/config"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 768, cfg.Encoder.HiddenSize)
	assert.Equal(t, 10, cfg.Stability.Rounds)
	assert.Equal(t, "qwen2.5-coder:3b-instruct-q8_0", cfg.LLM.Model)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
baseline:
  path: /srv/cloud.json
  ridge: 0.01
llm:
  lenses: [haraway, barad]
  timeout: 90s
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "dev", cfg.Log.Mode, "unset keys keep defaults")
	assert.Equal(t, "/srv/cloud.json", cfg.Baseline.Path)
	assert.Equal(t, 0.01, cfg.Baseline.Ridge)
	assert.Equal(t, []string{"haraway", "barad"}, cfg.LLM.Lenses)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 1e-9, cfg.Baseline.Rcond)
	assert.Equal(t, 1e-6, cfg.Baseline.RidgeScale)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := config.Load(filepath.Join(dir, "absent.yaml"))
	require.ErrorIs(t, err, config.ErrNotFound)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log: [unclosed"), 0o644))
	_, err = config.Load(bad)
	require.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("llm:\n  lenses: [kant]\n"), 0o644))
	_, err = config.Load(invalid)
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"level", func(c *config.Config) { c.Log.Level = "chatty" }},
		{"parser url", func(c *config.Config) { c.Parser.URL = "" }},
		{"hidden size", func(c *config.Config) { c.Encoder.HiddenSize = 0 }},
		{"ridge", func(c *config.Config) { c.Baseline.Ridge = -1 }},
		{"ridge scale", func(c *config.Config) { c.Baseline.RidgeScale = -1 }},
		{"backend", func(c *config.Config) { c.LLM.Backend = "gemini" }},
		{"parallelism", func(c *config.Config) { c.LLM.Parallelism = 4 }},
		{"encoder outside reduced mode", func(c *config.Config) { c.Encoder.URL = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}

	cfg := config.Default()
	cfg.Encoder.URL = ""
	cfg.Stability.Reduced = true
	require.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, config.ApplyEnv(&cfg, env(map[string]string{
		"OLLAMA_BASE_URL":       "http://gpu-box:11434",
		"OLLAMA_MODEL":          "llama3",
		"OPENAI_API_KEY":        "sk-x",
		"HYPERGRAPH_SEED":       "7",
		"HYPERGRAPH_REDUCED":    "true",
		"HYPERGRAPH_LENSES":     " Haraway, spivak ,",
		"HYPERGRAPH_LOG_LEVEL":  "",
		"HYPERGRAPH_PARSER_URL": "http://spacy:9000",
	})))

	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.OllamaURL)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, "sk-x", cfg.LLM.OpenAIAPIKey)
	assert.Equal(t, uint64(7), cfg.Stability.Seed)
	assert.True(t, cfg.Stability.Reduced)
	assert.Equal(t, []string{"haraway", "spivak"}, cfg.LLM.Lenses)
	assert.Equal(t, "info", cfg.Log.Level, "empty values are ignored")
	assert.Equal(t, "http://spacy:9000", cfg.Parser.URL)

	require.ErrorIs(t, config.ApplyEnv(&cfg, env(map[string]string{"HYPERGRAPH_SEED": "-1"})), config.ErrInvalid)
	require.ErrorIs(t, config.ApplyEnv(&cfg, env(map[string]string{"HYPERGRAPH_REDUCED": "maybe"})), config.ErrInvalid)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "hypergraph.yaml")
	require.NoError(t, config.WriteDefault(path))
	require.Error(t, config.WriteDefault(path), "existing files are not overwritten")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	want := config.Default()
	require.NoError(t, config.ApplyEnv(&want, os.LookupEnv))
	assert.Equal(t, want, *cfg)
}
