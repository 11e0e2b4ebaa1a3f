package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LinePrompter reads one line per prompt. It is used when stdin is not a
// terminal, e.g. when answers are piped in from a file.
type LinePrompter struct {
	r   *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	if out == nil {
		out = io.Discard
	}
	return &LinePrompter{r: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Prompt(ctx context.Context, label, placeholder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if placeholder != "" {
		fmt.Fprintf(p.out, "%s (e.g. %s) ", label, placeholder)
	} else {
		fmt.Fprintf(p.out, "%s ", label)
	}

	line, err := p.r.ReadString('\n')
	if err != nil {
		// A final line without a trailing newline still counts.
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read %q: %w", label, io.ErrUnexpectedEOF)
		}
		return "", fmt.Errorf("read %q: %w", label, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
