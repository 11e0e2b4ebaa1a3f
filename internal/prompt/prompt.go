// Package prompt implements input.Prompter for interactive terminals and
// for piped stdin.
package prompt

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/djlord-it/gsctl/internal/input"
)

// ErrAborted is returned when the operator cancels a prompt (Ctrl+C or Esc).
var ErrAborted = errors.New("prompt aborted by user")

// New picks a TerminalPrompter when in is a terminal and a LinePrompter
// otherwise.
func New(in io.Reader, out io.Writer) input.Prompter {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewTerminalPrompter(in, out)
	}
	return NewLinePrompter(in, out)
}
