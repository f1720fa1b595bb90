// SPDX-License-Identifier: MIT

// Package config loads the hypergraph YAML configuration, applies
// environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no explicit path is given and the file exists.
const DefaultPath = "hypergraph.yaml"

// Sentinel errors for config.
var (
	// ErrNotFound is returned when an explicitly named file does not exist.
	ErrNotFound = errors.New("config: file not found")

	// ErrInvalid is returned when the configuration fails validation.
	ErrInvalid = errors.New("config: invalid configuration")
)

// Config is the complete application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Parser    ParserConfig    `yaml:"parser"`
	Encoder   EncoderConfig   `yaml:"encoder"`
	Baseline  BaselineConfig  `yaml:"baseline"`
	Stability StabilityConfig `yaml:"stability"`
	LLM       LLMConfig       `yaml:"llm"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LogConfig selects the zap encoder and level.
type LogConfig struct {
	Mode  string `yaml:"mode" validate:"oneof=dev development prod production"`
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// ParserConfig points at the dependency-parse service.
type ParserConfig struct {
	URL     string        `yaml:"url" validate:"required,url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// EncoderConfig points at the contextual encoder service. An empty URL is
// only valid in reduced mode.
type EncoderConfig struct {
	URL        string        `yaml:"url" validate:"omitempty,url"`
	Model      string        `yaml:"model"`
	HiddenSize int           `yaml:"hidden_size" validate:"gt=0"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
}

// BaselineConfig locates the reference cloud and tunes the fitted model.
// Ridge > 0 is an absolute δ; 0 derives δ from RidgeScale·trace/d. Both
// zero select the plain pseudo-inverse.
type BaselineConfig struct {
	Path       string  `yaml:"path" validate:"required"`
	Ridge      float64 `yaml:"ridge" validate:"gte=0"`
	RidgeScale float64 `yaml:"ridge_scale" validate:"gte=0"`
	Rcond      float64 `yaml:"rcond" validate:"gt=0,lt=1"`
}

// StabilityConfig tunes the analyzer.
type StabilityConfig struct {
	Seed         uint64 `yaml:"seed"`
	Rounds       int    `yaml:"rounds" validate:"gte=0"`
	Reduced      bool   `yaml:"reduced"`
	SyntheticDim int    `yaml:"synthetic_dim" validate:"gt=0"`
}

// LLMConfig selects the text-generation backend for the narrative phases.
type LLMConfig struct {
	Backend       string        `yaml:"backend" validate:"oneof=ollama openai"`
	OllamaURL     string        `yaml:"ollama_url" validate:"omitempty,url"`
	OpenAIBaseURL string        `yaml:"openai_base_url" validate:"omitempty,url"`
	OpenAIAPIKey  string        `yaml:"openai_api_key,omitempty"`
	Model         string        `yaml:"model"`
	Temperature   float64       `yaml:"temperature" validate:"gte=0,lte=2"`
	RateLimit     float64       `yaml:"rate_limit" validate:"gte=0"`
	Burst         int           `yaml:"burst" validate:"gte=1"`
	Parallelism   int           `yaml:"parallelism" validate:"gte=1,lte=3"`
	Lenses        []string      `yaml:"lenses" validate:"dive,oneof=haraway barad foucault spivak none"`
	Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
}

// TelemetryConfig controls tracing and the metrics dump.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" validate:"required"`
	TraceStdout bool   `yaml:"trace_stdout"`
	MetricsFile string `yaml:"metrics_file"`
}

// Default returns a configuration that works against local services.
func Default() Config {
	return Config{
		Log:    LogConfig{Mode: "dev", Level: "info"},
		Parser: ParserConfig{URL: "http://localhost:8001", Model: "en_core_web_sm", Timeout: 30 * time.Second},
		Encoder: EncoderConfig{
			URL:        "http://localhost:8002",
			Model:      "bert-base-uncased",
			HiddenSize: 768,
			Timeout:    time.Minute,
		},
		Baseline:  BaselineConfig{Path: "data/baseline_vectors.npy", RidgeScale: 1e-6, Rcond: 1e-9},
		Stability: StabilityConfig{Seed: 42, Rounds: 10, SyntheticDim: 768},
		LLM: LLMConfig{
			Backend:     "ollama",
			OllamaURL:   "http://localhost:11434",
			Model:       "qwen2.5-coder:3b-instruct-q8_0",
			Temperature: 0.7,
			RateLimit:   2,
			Burst:       3,
			Parallelism: 3,
			Lenses:      []string{"none"},
			Timeout:     5 * time.Minute,
		},
		Telemetry: TelemetryConfig{ServiceName: "hypergraph"},
	}
}

// Load builds the configuration: defaults, then the YAML file, then the
// environment. path "" reads DefaultPath when present; a named file that
// does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnv overlays environment variables read through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("HYPERGRAPH_LOG_MODE", &cfg.Log.Mode)
	str("HYPERGRAPH_LOG_LEVEL", &cfg.Log.Level)
	str("HYPERGRAPH_PARSER_URL", &cfg.Parser.URL)
	str("HYPERGRAPH_ENCODER_URL", &cfg.Encoder.URL)
	str("HYPERGRAPH_BASELINE_PATH", &cfg.Baseline.Path)
	str("HYPERGRAPH_LLM_BACKEND", &cfg.LLM.Backend)
	str("OLLAMA_BASE_URL", &cfg.LLM.OllamaURL)
	str("OLLAMA_MODEL", &cfg.LLM.Model)
	str("OPENAI_API_KEY", &cfg.LLM.OpenAIAPIKey)
	str("OPENAI_BASE_URL", &cfg.LLM.OpenAIBaseURL)
	if cfg.LLM.Backend == "openai" {
		str("OPENAI_MODEL", &cfg.LLM.Model)
	}

	if v, ok := lookup("HYPERGRAPH_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: HYPERGRAPH_SEED: %v", ErrInvalid, err)
		}
		cfg.Stability.Seed = seed
	}
	if v, ok := lookup("HYPERGRAPH_REDUCED"); ok && v != "" {
		reduced, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: HYPERGRAPH_REDUCED: %v", ErrInvalid, err)
		}
		cfg.Stability.Reduced = reduced
	}
	if v, ok := lookup("HYPERGRAPH_LENSES"); ok && v != "" {
		cfg.LLM.Lenses = splitList(v)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}

	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !c.Stability.Reduced && c.Encoder.URL == "" {
		return fmt.Errorf("%w: encoder.url is required unless stability.reduced is set", ErrInvalid)
	}

	return nil
}

// WriteDefault writes Default() as YAML to path, creating its directory.
// An existing file is left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("config: marshal defaults: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
