package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset or unparsable.
const (
	DefaultAPIBaseURL        = "http://localhost:3000"
	DefaultAPITimeoutSeconds = 30
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultTracingExporter   = "stdout"
	DefaultTracingEndpoint   = "localhost:4317"
)

// Config holds all configuration for gsctl.
// Values are loaded from environment variables once at startup and passed
// explicitly to the components that need them.
type Config struct {
	APIBaseURL        string        `json:"api_base_url"`
	APITimeoutSeconds int           `json:"api_timeout_seconds"`
	APITimeout        time.Duration `json:"-"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// PushgatewayURL enables pushing submission metrics when non-empty.
	PushgatewayURL string `json:"metrics_pushgateway_url,omitempty"`

	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingExporter string `json:"tracing_exporter"`
	TracingEndpoint string `json:"tracing_otlp_endpoint"`
}

// LoadDotEnv reads KEY=VALUE pairs from path into the process environment.
// Variables already set win over the file. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	cfg := Config{
		APIBaseURL:      os.Getenv("API_BASE_URL"),
		LogLevel:        strings.ToLower(os.Getenv("LOG_LEVEL")),
		LogFormat:       strings.ToLower(os.Getenv("LOG_FORMAT")),
		PushgatewayURL:  os.Getenv("METRICS_PUSHGATEWAY_URL"),
		TracingEnabled:  strings.EqualFold(os.Getenv("TRACING_ENABLED"), "true"),
		TracingExporter: strings.ToLower(os.Getenv("TRACING_EXPORTER")),
		TracingEndpoint: os.Getenv("TRACING_OTLP_ENDPOINT"),
	}

	// Non-integer or non-positive values silently fall back to the default.
	if timeoutStr := os.Getenv("API_TIMEOUT_SECONDS"); timeoutStr != "" {
		if n, err := parseInt(timeoutStr); err == nil && n > 0 {
			cfg.APITimeoutSeconds = n
		}
	}
	if cfg.APITimeoutSeconds == 0 {
		cfg.APITimeoutSeconds = DefaultAPITimeoutSeconds
	}
	cfg.APITimeout = time.Duration(cfg.APITimeoutSeconds) * time.Second

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.TracingExporter == "" {
		cfg.TracingExporter = DefaultTracingExporter
	}
	if cfg.TracingEndpoint == "" {
		cfg.TracingEndpoint = DefaultTracingEndpoint
	}

	return cfg
}

// parseInt parses a string of ASCII digits as a non-negative integer.
func parseInt(s string) (int, error) {
	if s == "" || len(s) > 9 {
		return 0, os.ErrInvalid
	}
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, os.ErrInvalid
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// MaskedJSON returns the configuration as JSON with credentials in URLs masked.
func (c Config) MaskedJSON() ([]byte, error) {
	masked := c
	masked.APIBaseURL = maskUserinfo(c.APIBaseURL)
	masked.PushgatewayURL = maskUserinfo(c.PushgatewayURL)
	return json.MarshalIndent(masked, "", "  ")
}

// maskUserinfo replaces any user:password@ section of a URL with ***@.
func maskUserinfo(s string) string {
	schemeEnd := strings.Index(s, "://")
	if schemeEnd < 0 {
		return s
	}
	rest := s[schemeEnd+3:]
	hostEnd := strings.IndexAny(rest, "/?#")
	if hostEnd < 0 {
		hostEnd = len(rest)
	}
	at := strings.LastIndex(rest[:hostEnd], "@")
	if at < 0 {
		return s
	}
	return s[:schemeEnd+3] + "***@" + rest[at+1:]
}
