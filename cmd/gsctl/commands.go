package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/djlord-it/gsctl/internal/api"
	"github.com/djlord-it/gsctl/internal/config"
	"github.com/djlord-it/gsctl/internal/input"
	"github.com/djlord-it/gsctl/internal/logging"
	"github.com/djlord-it/gsctl/internal/metrics"
	"github.com/djlord-it/gsctl/internal/tracing"
)

const envHelp = `Environment Variables:
  API_BASE_URL              Ground station API base URL (default: "http://localhost:3000")
  API_TIMEOUT_SECONDS       Whole-request timeout in seconds (default: "30")

  LOG_LEVEL                 debug, info, warn or error (default: "info")
  LOG_FORMAT                text or json, written to stderr (default: "text")

  METRICS_PUSHGATEWAY_URL   Push submission metrics to this Pushgateway (optional)

  TRACING_ENABLED           Record a trace span per submission (default: "false")
  TRACING_EXPORTER          stdout or otlp (default: "stdout")
  TRACING_OTLP_ENDPOINT     OTLP gRPC collector address (default: "localhost:4317")

A .env file in the working directory is read first; variables already set
in the environment take precedence.`

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "gsctl",
		Short:         "Submit satellite tracking jobs to a ground station API",
		Long:          "gsctl - ground station job client\n\n" + envHelp,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("gsctl version {{.Version}}\n")

	root.AddCommand(
		&cobra.Command{
			Use:   "add-job",
			Short: "Interactively create a tracking job and submit it",
			Long: `Prompts for the tracking window, the satellite's two-line element set and
the RX/TX frequencies, then submits the job with a single POST to
{API_BASE_URL}/jobs.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runAddJob(cmd)
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate configuration (no connections made)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.loadConfig(); err != nil {
					return &exitError{code: exitInvalidConfig, err: err}
				}
				fmt.Fprintln(cmd.OutOrStdout(), "configuration valid")
				return nil
			},
		},
		&cobra.Command{
			Use:   "config",
			Short: "Print effective configuration as JSON (credentials masked)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.LoadDotEnv(a.dotenvPath); err != nil {
					return &exitError{code: exitInvalidConfig, err: &config.ConfigurationError{Err: err}}
				}
				data, err := config.Load().MaskedJSON()
				if err != nil {
					return &exitError{code: exitRuntimeError, phase: "failed to marshal config", err: err}
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			},
		},
	)

	return root
}

// loadConfig reads .env and the environment, then validates the result.
func (a *app) loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(a.dotenvPath); err != nil {
		return config.Config{}, &config.ConfigurationError{Err: fmt.Errorf("read %s: %w", a.dotenvPath, err)}
	}

	cfg := config.Load()
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, &config.ConfigurationError{Err: err}
	}
	return cfg, nil
}

func (a *app) runAddJob(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	// Init
	cfg, err := a.loadConfig()
	if err != nil {
		return &exitError{code: exitInvalidConfig, phase: "failed to initialize API client", err: err}
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, a.stderr)

	tp, shutdown, err := tracing.Init(ctx, tracing.Config{
		Enabled:  cfg.TracingEnabled,
		Exporter: cfg.TracingExporter,
		Endpoint: cfg.TracingEndpoint,
		Writer:   a.stderr,
	}, logger)
	if err != nil {
		return &exitError{code: exitInvalidConfig, phase: "failed to initialize API client", err: &config.ConfigurationError{Err: err}}
	}
	defer tracing.ShutdownWithTimeout(shutdown, logger)

	sink := newMetricsSink(cfg, logger)
	defer flushMetrics(sink, logger)

	client, err := api.NewClient(cfg, logger)
	if err != nil {
		return &exitError{code: exitInvalidConfig, phase: "failed to initialize API client", err: err}
	}
	client.WithMetrics(sink).WithTracerProvider(tp)

	fmt.Fprintf(out, "API client initialized (base URL: %s)\n", client.BaseURL())

	// CollectFields
	collector := input.NewCollector(a.newPrompter(a.stdin, out), out)
	start := time.Now()
	fields, err := collector.Collect(ctx)
	sink.CollectionCompleted(time.Since(start), err)
	if err != nil {
		return &exitError{code: exitRuntimeError, phase: "error collecting input", err: err}
	}

	// AssembleRequest
	job := api.NewJobRequest(fields)

	// Submit
	fmt.Fprintf(out, "\nSubmitting job to %s%s...\n", client.BaseURL(), api.JobsPath)
	resp, err := client.AddJob(ctx, job)
	if err != nil {
		return &exitError{code: exitRuntimeError, phase: "failed to submit job", err: err}
	}

	fmt.Fprintf(out, "Job submitted successfully: %s\n", resp.Status)
	if resp.Message != "" {
		fmt.Fprintf(out, "Message: %s\n", resp.Message)
	}
	return nil
}

func newMetricsSink(cfg config.Config, logger *slog.Logger) metrics.Sink {
	if cfg.PushgatewayURL == "" {
		logger.Debug("gsctl: METRICS_PUSHGATEWAY_URL not set; metrics disabled")
		return metrics.NewNoopSink()
	}
	logger.Debug("gsctl: metrics enabled", "pushgateway", cfg.PushgatewayURL)
	return metrics.NewPrometheusSink(cfg.PushgatewayURL, logger)
}

// flushMetrics pushes recorded metrics. A failed push is logged and never
// changes the exit code.
func flushMetrics(sink metrics.Sink, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sink.Flush(ctx); err != nil {
		logger.Warn("gsctl: metrics push failed", "error", err)
	}
}
