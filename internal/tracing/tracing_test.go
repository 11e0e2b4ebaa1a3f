package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djlord-it/gsctl/internal/logging"
)

func TestInit_Disabled(t *testing.T) {
	tp, shutdown, err := Init(context.Background(), Config{}, logging.Discard())
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid(), "disabled tracing should produce non-recording spans")
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	tp, shutdown, err := Init(context.Background(), Config{
		Enabled:  true,
		Exporter: "stdout",
		Writer:   &buf,
	}, logging.Discard())
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "submit job")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ShutdownWithTimeout(shutdown, logging.Discard())

	assert.Contains(t, buf.String(), `"Name": "submit job"`)
	assert.Contains(t, buf.String(), ServiceName)
}

func TestInit_UnknownExporter(t *testing.T) {
	_, _, err := Init(context.Background(), Config{Enabled: true, Exporter: "zipkin"}, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported tracing exporter")
}

func TestShutdownWithTimeout_Nil(t *testing.T) {
	ShutdownWithTimeout(nil, logging.Discard())
}
