package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/djlord-it/gsctl/internal/config"
	"github.com/djlord-it/gsctl/internal/metrics"
)

// JobsPath is appended to the base URL for job submission.
const JobsPath = "/jobs"

// maxResponseBodySize is the maximum response body read from the API (1MB).
const maxResponseBodySize = 1 << 20

const tracerName = "github.com/djlord-it/gsctl/internal/api"

// MetricsSink defines the interface for recording submission metrics.
// All methods must be non-blocking and fire-and-forget.
type MetricsSink interface {
	SubmissionCompleted(statusClass string, duration time.Duration)
	SubmissionOutcome(outcome string)
}

// Client submits jobs to the ground station API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    MetricsSink // optional, nil = disabled
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	requestID  func() string
}

// NewClient builds a client from cfg. It fails with a *config.ConfigurationError
// if the base URL or timeout cannot be used.
func NewClient(cfg config.Config, logger *slog.Logger) (*Client, error) {
	if err := config.ValidateHTTPURL(cfg.APIBaseURL); err != nil {
		return nil, &config.ConfigurationError{Err: fmt.Errorf("API_BASE_URL %q: %w", cfg.APIBaseURL, err)}
	}
	if cfg.APITimeout <= 0 {
		return nil, &config.ConfigurationError{Err: fmt.Errorf("API_TIMEOUT_SECONDS must be positive")}
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.APITimeout},
		baseURL:    cfg.APIBaseURL,
		logger:     logger,
		tracer:     noop.NewTracerProvider().Tracer(tracerName),
		propagator: propagation.TraceContext{},
		requestID:  uuid.NewString,
	}

	logger.Info("api: client initialized", "base_url", c.baseURL, "timeout", cfg.APITimeout)
	return c, nil
}

// WithMetrics attaches a metrics sink to the client.
func (c *Client) WithMetrics(sink MetricsSink) *Client {
	c.metrics = sink
	return c
}

// WithTracerProvider records a client span per submission and propagates
// its context in the traceparent header.
func (c *Client) WithTracerProvider(tp trace.TracerProvider) *Client {
	c.tracer = tp.Tracer(tracerName)
	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AddJob posts the job as JSON to {base_url}/jobs. Exactly one request is
// made; any failure is returned as *HTTPError and never retried.
func (c *Client) AddJob(ctx context.Context, job JobRequest) (APIResponse, error) {
	target := c.baseURL + JobsPath
	requestID := c.requestID()

	ctx, span := c.tracer.Start(ctx, "submit job",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodPost),
			attribute.String("url.full", target),
			attribute.String("gsctl.request_id", requestID),
			attribute.String("gsctl.satellite", job.TLE.TLE0),
		),
	)
	defer span.End()

	resp, err := c.send(ctx, target, requestID, job)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "job submission failed")
		return APIResponse{}, err
	}

	span.SetAttributes(attribute.String("gsctl.response_status", resp.Status))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

func (c *Client) send(ctx context.Context, target, requestID string, job JobRequest) (APIResponse, error) {
	httpErr := &HTTPError{Method: http.MethodPost, URL: target}

	body, err := json.Marshal(job)
	if err != nil {
		httpErr.Err = fmt.Errorf("marshal: %w", err)
		return APIResponse{}, httpErr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		httpErr.Err = fmt.Errorf("create request: %w", err)
		return APIResponse{}, httpErr
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	c.logger.Info("api: submitting job", "url", target, "request_id", requestID)
	c.logger.Debug("api: request body", "body", string(body))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.recordCompleted(metrics.ClassifyStatus(0, err), duration)
		c.recordOutcome(metrics.OutcomeTransportError)
		httpErr.Err = fmt.Errorf("send: %w", err)
		return APIResponse{}, httpErr
	}
	defer resp.Body.Close()

	c.recordCompleted(metrics.ClassifyStatus(resp.StatusCode, nil), duration)
	httpErr.StatusCode = resp.StatusCode
	httpErr.Status = resp.Status

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.recordOutcome(metrics.OutcomeRejected)
		httpErr.Body = snippet(data)
		c.logger.Warn("api: job rejected", "status", resp.StatusCode, "request_id", requestID, "duration", duration)
		return APIResponse{}, httpErr
	}

	if readErr != nil {
		c.recordOutcome(metrics.OutcomeInvalidResponse)
		httpErr.Err = fmt.Errorf("read response: %w", readErr)
		return APIResponse{}, httpErr
	}

	out, err := decodeResponse(data)
	if err != nil {
		c.recordOutcome(metrics.OutcomeInvalidResponse)
		httpErr.Err = err
		httpErr.Body = snippet(data)
		return APIResponse{}, httpErr
	}

	c.recordOutcome(metrics.OutcomeAccepted)
	c.logger.Info("api: job accepted", "status", out.Status, "request_id", requestID, "duration", duration)
	return out, nil
}

var errMissingStatus = errors.New("response has no status field")

// decodeResponse requires the status field to be present; message is optional.
func decodeResponse(data []byte) (APIResponse, error) {
	var raw struct {
		Status  *string `json:"status"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return APIResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if raw.Status == nil {
		return APIResponse{}, fmt.Errorf("decode response: %w", errMissingStatus)
	}

	out := APIResponse{Status: *raw.Status}
	if raw.Message != nil {
		out.Message = *raw.Message
	}
	return out, nil
}

func (c *Client) recordCompleted(statusClass string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.SubmissionCompleted(statusClass, d)
	}
}

func (c *Client) recordOutcome(outcome string) {
	if c.metrics != nil {
		c.metrics.SubmissionOutcome(outcome)
	}
}
