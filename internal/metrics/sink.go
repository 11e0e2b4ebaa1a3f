package metrics

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// Sink defines the interface for recording metrics of one gsctl invocation.
// Recording methods are fire-and-forget: implementations MUST NOT block or
// propagate errors. Flush is called once before the process exits.
type Sink interface {
	// Input collection
	CollectionCompleted(duration time.Duration, err error)

	// Submission
	SubmissionCompleted(statusClass string, duration time.Duration)
	SubmissionOutcome(outcome string)

	Flush(ctx context.Context) error
}

// Outcome constants for SubmissionOutcome.
const (
	OutcomeAccepted        = "accepted"
	OutcomeRejected        = "rejected"
	OutcomeTransportError  = "transport_error"
	OutcomeInvalidResponse = "invalid_response"
)

// StatusClass constants for SubmissionCompleted.
const (
	StatusClass2xx             = "2xx"
	StatusClass4xx             = "4xx"
	StatusClass5xx             = "5xx"
	StatusClassTimeout         = "timeout"
	StatusClassConnectionError = "connection_error"
	StatusClassOtherError      = "other_error"
)

// ClassifyStatus maps a status code and transport error to a status class.
func ClassifyStatus(statusCode int, err error) string {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return StatusClassTimeout
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return StatusClassTimeout
		}

		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
			return StatusClassTimeout
		}
		if strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") ||
			strings.Contains(msg, "network is unreachable") || strings.Contains(msg, "dial") {
			return StatusClassConnectionError
		}
		return StatusClassOtherError
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		return StatusClass2xx
	case statusCode >= 400 && statusCode < 500:
		return StatusClass4xx
	case statusCode >= 500:
		return StatusClass5xx
	default:
		return StatusClassOtherError
	}
}
