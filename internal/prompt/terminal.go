package prompt

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/huh"
)

// TerminalPrompter renders each prompt as a single-field huh form with a
// greyed-out placeholder.
type TerminalPrompter struct {
	in  io.Reader
	out io.Writer
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out}
}

func (p *TerminalPrompter) Prompt(ctx context.Context, label, placeholder string) (string, error) {
	var value string
	field := huh.NewInput().
		Title(label).
		Placeholder(placeholder).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(p.in).
		WithOutput(p.out).
		WithShowHelp(false)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", err
	}
	return value, nil
}
