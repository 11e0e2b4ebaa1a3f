package api

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxErrorBodySnippet bounds how much of a response body ends up in errors.
const maxErrorBodySnippet = 512

// HTTPError reports a failed submission: transport failure, non-2xx status,
// or a response body that could not be decoded.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int    // 0 when no response was received
	Status     string // e.g. "500 Internal Server Error"
	Body       string // truncated response body, if any
	Err        error
}

func (e *HTTPError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP request failed: %s %s", e.Method, e.URL)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " returned %s", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, " (body: %s)", e.Body)
	}
	return b.String()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// snippet trims a response body for inclusion in an error message.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodySnippet {
		cut := maxErrorBodySnippet
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
