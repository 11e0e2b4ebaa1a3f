// Package testutil provides shared test helpers for gsctl.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// ISS element set used across tests.
const (
	ISSName  = "ISS (ZARYA)"
	ISSLine1 = "1 25544U 98067A   25235.75642456  .00011222  00000+0  20339-3 0  9993"
	ISSLine2 = "2 25544  51.6355 332.1708 0003307 260.2831  99.7785 15.50129787525648"
)

// PromptCall records a single prompt shown to the operator.
type PromptCall struct {
	Label       string
	Placeholder string
}

// ScriptedPrompter answers prompts from a fixed list, in order.
// Set FailAt to a 0-based prompt index to make that prompt return Err.
type ScriptedPrompter struct {
	mu      sync.Mutex
	answers []string
	calls   []PromptCall

	FailAt int
	Err    error
}

// NewScriptedPrompter returns a prompter that replays answers. FailAt is -1.
func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers, FailAt: -1}
}

// Prompt returns the next scripted answer.
func (p *ScriptedPrompter) Prompt(ctx context.Context, label, placeholder string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := len(p.calls)
	p.calls = append(p.calls, PromptCall{Label: label, Placeholder: placeholder})

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if idx == p.FailAt {
		return "", p.Err
	}
	if idx >= len(p.answers) {
		return "", fmt.Errorf("testutil: no scripted answer for prompt %d (%q)", idx, label)
	}
	return p.answers[idx], nil
}

// Calls returns the prompts shown so far.
func (p *ScriptedPrompter) Calls() []PromptCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PromptCall, len(p.calls))
	copy(out, p.calls)
	return out
}

// ValidAnswers is a complete answer script for the ISS sample job.
func ValidAnswers() []string {
	return []string{
		"2025-10-02", "12:00",
		"2025-10-02", "12:15",
		ISSName, ISSLine1, ISSLine2,
		"145800000", "437500000",
	}
}

// TestContext returns a context with a 5-second timeout.
// The context is cancelled when the test completes.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
