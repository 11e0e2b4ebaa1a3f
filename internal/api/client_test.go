package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/djlord-it/gsctl/internal/config"
	"github.com/djlord-it/gsctl/internal/logging"
	"github.com/djlord-it/gsctl/internal/metrics"
	"github.com/djlord-it/gsctl/internal/testutil"
)

type recordingSink struct {
	classes  []string
	outcomes []string
}

func (s *recordingSink) SubmissionCompleted(statusClass string, d time.Duration) {
	s.classes = append(s.classes, statusClass)
}

func (s *recordingSink) SubmissionOutcome(outcome string) {
	s.outcomes = append(s.outcomes, outcome)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(config.Config{
		APIBaseURL: baseURL,
		APITimeout: 5 * time.Second,
	}, logging.Discard())
	require.NoError(t, err)
	return c
}

func TestClient_AddJob_Success(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotHeaders = r.Header
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"status":"ok","message":"job 42 scheduled"}`)
	}))
	defer server.Close()

	sink := &recordingSink{}
	client := newTestClient(t, server.URL).WithMetrics(sink)

	resp, err := client.AddJob(testutil.TestContext(t), NewJobRequest(issFields()))
	require.NoError(t, err)

	assert.Equal(t, APIResponse{Status: "ok", Message: "job 42 scheduled"}, resp)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/jobs", gotPath)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.JSONEq(t, issJobJSON, gotBody)

	_, err = uuid.Parse(gotHeaders.Get("X-Request-ID"))
	assert.NoError(t, err, "X-Request-ID should be a UUID")

	assert.Equal(t, []string{metrics.StatusClass2xx}, sink.classes)
	assert.Equal(t, []string{metrics.OutcomeAccepted}, sink.outcomes)
}

func TestClient_AddJob_MessageOptional(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	}))
	defer server.Close()

	resp, err := newTestClient(t, server.URL).AddJob(testutil.TestContext(t), NewJobRequest(issFields()))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Message)
}

func TestClient_AddJob_ServerErrorNoRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"scheduler unavailable"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := &recordingSink{}
	_, err := newTestClient(t, server.URL).WithMetrics(sink).
		AddJob(testutil.TestContext(t), NewJobRequest(issFields()))
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *HTTPError, got %T", err)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, server.URL+"/jobs", httpErr.URL)
	assert.Contains(t, httpErr.Body, "scheduler unavailable")
	assert.Contains(t, err.Error(), "500 Internal Server Error")

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "must not retry")
	assert.Equal(t, []string{metrics.StatusClass5xx}, sink.classes)
	assert.Equal(t, []string{metrics.OutcomeRejected}, sink.outcomes)
}

func TestClient_AddJob_ClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).AddJob(testutil.TestContext(t), NewJobRequest(issFields()))

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
	assert.Empty(t, httpErr.Body)
}

func TestClient_AddJob_InvalidResponseBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>ok</html>"},
		{"empty", ""},
		{"missing status", `{"message":"hi"}`},
		{"wrong type", `{"status":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			sink := &recordingSink{}
			_, err := newTestClient(t, server.URL).WithMetrics(sink).
				AddJob(testutil.TestContext(t), NewJobRequest(issFields()))

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr), "expected *HTTPError, got %T: %v", err, err)
			assert.Equal(t, http.StatusOK, httpErr.StatusCode)
			assert.Contains(t, err.Error(), "decode response")
			assert.Equal(t, []string{metrics.OutcomeInvalidResponse}, sink.outcomes)
		})
	}
}

func TestClient_AddJob_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	sink := &recordingSink{}
	_, err := newTestClient(t, url).WithMetrics(sink).
		AddJob(testutil.TestContext(t), NewJobRequest(issFields()))

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Zero(t, httpErr.StatusCode)
	assert.Error(t, httpErr.Err)
	assert.Equal(t, []string{metrics.OutcomeTransportError}, sink.outcomes)
}

func TestClient_AddJob_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c, err := NewClient(config.Config{APIBaseURL: server.URL, APITimeout: 50 * time.Millisecond}, logging.Discard())
	require.NoError(t, err)

	sink := &recordingSink{}
	_, err = c.WithMetrics(sink).AddJob(testutil.TestContext(t), NewJobRequest(issFields()))

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, []string{metrics.StatusClassTimeout}, sink.classes)
}

func TestClient_AddJob_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, server.URL).AddJob(ctx, NewJobRequest(issFields()))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_AddJob_Tracing(t *testing.T) {
	var traceparent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	}))
	defer server.Close()

	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, err := newTestClient(t, server.URL).WithTracerProvider(tp).
		AddJob(testutil.TestContext(t), NewJobRequest(issFields()))
	require.NoError(t, err)

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "submit job", spans[0].Name)
	assert.True(t, strings.HasPrefix(traceparent, "00-"+spans[0].SpanContext.TraceID().String()),
		"traceparent %q should carry the span's trace id", traceparent)
}

func TestClient_AddJob_NoTraceparentWithoutTracing(t *testing.T) {
	var traceparent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).AddJob(testutil.TestContext(t), NewJobRequest(issFields()))
	require.NoError(t, err)
	assert.Empty(t, traceparent)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"relative url", config.Config{APIBaseURL: "localhost:3000", APITimeout: time.Second}},
		{"empty url", config.Config{APIBaseURL: "", APITimeout: time.Second}},
		{"zero timeout", config.Config{APIBaseURL: "http://localhost:3000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg, logging.Discard())

			var cfgErr *config.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected *config.ConfigurationError, got %T", err)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("API_TIMEOUT_SECONDS", "")

	c, err := NewClient(config.Load(), logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", c.BaseURL())
}

func TestHTTPError_Format(t *testing.T) {
	err := &HTTPError{
		Method:     http.MethodPost,
		URL:        "http://gs/jobs",
		StatusCode: 503,
		Status:     "503 Service Unavailable",
		Body:       "down",
	}
	assert.Equal(t, "HTTP request failed: POST http://gs/jobs returned 503 Service Unavailable (body: down)", err.Error())

	inner := errors.New("dial tcp: connection refused")
	err = &HTTPError{Method: http.MethodPost, URL: "http://gs/jobs", Err: inner}
	assert.Equal(t, "HTTP request failed: POST http://gs/jobs: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestSnippet_Truncates(t *testing.T) {
	long := strings.Repeat("x", maxErrorBodySnippet+10)
	got := snippet([]byte(long))
	assert.Len(t, got, maxErrorBodySnippet+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestSnippet_KeepsRunesWhole(t *testing.T) {
	// "é" is two bytes; an odd prefix puts the limit inside a rune.
	body := "x" + strings.Repeat("é", maxErrorBodySnippet)
	got := snippet([]byte(body))

	assert.True(t, utf8.ValidString(got), "snippet is not valid UTF-8: %q", got)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), maxErrorBodySnippet+3)
}

func TestNewClient_AgreesWithConfigValidate(t *testing.T) {
	urls := []string{
		"http://localhost:3000",
		"https://gs.example/api",
		"ftp://gs.example",
		"localhost:3000",
		"http://",
		"not a url",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			cfg := config.Config{APIBaseURL: u, APITimeout: time.Second}
			_, clientErr := NewClient(cfg, logging.Discard())
			assert.Equal(t, config.ValidateHTTPURL(u) == nil, clientErr == nil)
		})
	}
}
