// Package config loads service configuration from environment variables
// and an optional YAML file carrying emission factor overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the environment does not set a value.
const (
	DefaultListenAddr        = ":8080"
	DefaultLogLevel          = "info"
	DefaultEstimationTimeout = 5 * time.Second
)

// Config is the resolved service configuration.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// EstimationURL is the base URL of the external emissions-estimation
	// service. Empty disables remote delegation.
	EstimationURL string `yaml:"estimation_url"`

	// EstimationTimeout bounds a single remote estimation call.
	EstimationTimeout time.Duration `yaml:"estimation_timeout"`

	// GeminiAPIKey enables the generative recommendation delegation.
	// Empty runs the deterministic engine only.
	GeminiAPIKey string `yaml:"-"`

	// GeminiModels is the ordered model fallback chain.
	GeminiModels []string `yaml:"gemini_models"`

	// DatabaseDSN is the Postgres DSN for the persistence adapter.
	// Empty disables persistence.
	DatabaseDSN string `yaml:"-"`

	// HealthEndpoint enables GET /healthz.
	HealthEndpoint bool `yaml:"health_endpoint"`

	// EmissionFactors are factor-table overrides merged over the built-in
	// coefficients at startup: category -> activity key -> kg CO2e per unit.
	EmissionFactors map[string]map[string]float64 `yaml:"emission_factors"`
}

// Load resolves configuration. The optional YAML file named by
// SUSTAINPACK_CONFIG is read first; environment variables override it.
// Secrets (API key, DSN) are environment-only.
func Load(logger zerolog.Logger) (Config, error) {
	cfg := Config{
		ListenAddr:        DefaultListenAddr,
		LogLevel:          DefaultLogLevel,
		EstimationTimeout: DefaultEstimationTimeout,
	}

	if path := os.Getenv("SUSTAINPACK_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		logger.Debug().Str("path", path).Msg("loaded config file")
	}

	if v := os.Getenv("SUSTAINPACK_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("SUSTAINPACK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SUSTAINPACK_ESTIMATION_URL"); v != "" {
		cfg.EstimationURL = v
	}
	if v := os.Getenv("SUSTAINPACK_ESTIMATION_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.EstimationTimeout = time.Duration(ms) * time.Millisecond
		} else {
			logger.Warn().Str("value", v).Msg("invalid SUSTAINPACK_ESTIMATION_TIMEOUT_MS, using default")
		}
	}
	if v := os.Getenv("SUSTAINPACK_GEMINI_MODELS"); v != "" {
		cfg.GeminiModels = splitList(v)
	}
	if strings.EqualFold(os.Getenv("SUSTAINPACK_HEALTH_ENDPOINT"), "true") {
		cfg.HealthEndpoint = true
	}

	cfg.GeminiAPIKey = os.Getenv("SUSTAINPACK_GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	cfg.DatabaseDSN = os.Getenv("SUSTAINPACK_DATABASE_DSN")

	return cfg, nil
}

// splitList splits a comma-separated env value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
