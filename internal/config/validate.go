package config

import (
	"fmt"
	"net/url"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:", len(e))
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// ConfigurationError reports that a component could not be built from the
// loaded configuration.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Validate checks the configuration for errors.
// Returns nil if valid, or ValidationErrors if invalid.
func Validate(cfg Config) error {
	var errs ValidationErrors

	if err := ValidateHTTPURL(cfg.APIBaseURL); err != nil {
		errs = append(errs, ValidationError{
			Field:   "API_BASE_URL",
			Message: err.Error(),
		})
	}

	if cfg.APITimeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "API_TIMEOUT_SECONDS",
			Message: "must be positive",
		})
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "LOG_LEVEL",
			Message: fmt.Sprintf("must be one of debug, info, warn, error, got %q", cfg.LogLevel),
		})
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, ValidationError{
			Field:   "LOG_FORMAT",
			Message: fmt.Sprintf("must be 'text' or 'json', got %q", cfg.LogFormat),
		})
	}

	if cfg.PushgatewayURL != "" {
		if err := ValidateHTTPURL(cfg.PushgatewayURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "METRICS_PUSHGATEWAY_URL",
				Message: err.Error(),
			})
		}
	}

	if cfg.TracingEnabled && cfg.TracingExporter != "stdout" && cfg.TracingExporter != "otlp" {
		errs = append(errs, ValidationError{
			Field:   "TRACING_EXPORTER",
			Message: fmt.Sprintf("must be 'stdout' or 'otlp', got %q", cfg.TracingExporter),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateHTTPURL requires an absolute http or https URL with a host.
func ValidateHTTPURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
