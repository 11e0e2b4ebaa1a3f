package metrics

import (
	"context"
	"time"
)

// NoopSink is a no-op implementation of Sink.
// Used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

// NewNoopSink returns a no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) CollectionCompleted(duration time.Duration, err error)          {}
func (n *NoopSink) SubmissionCompleted(statusClass string, duration time.Duration) {}
func (n *NoopSink) SubmissionOutcome(outcome string)                               {}
func (n *NoopSink) Flush(ctx context.Context) error                                { return nil }
