package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/djlord-it/gsctl/internal/input"
	"github.com/djlord-it/gsctl/internal/prompt"
)

// Build-time variables set via -ldflags
var (
	version = "dev"
	commit  = "unknown"
)

const (
	exitSuccess       = 0
	exitRuntimeError  = 1
	exitInvalidConfig = 2
)

// app carries the process surroundings so commands can run against buffers
// in tests.
type app struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	dotenvPath  string
	newPrompter func(in io.Reader, out io.Writer) input.Prompter
}

// exitError carries the exit code and the phase prefix printed to stderr.
type exitError struct {
	code  int
	phase string
	err   error
}

func (e *exitError) Error() string {
	if e.phase == "" {
		return e.err.Error()
	}
	return e.phase + ": " + e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], &app{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		dotenvPath:  ".env",
		newPrompter: prompt.New,
	})

	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, a *app) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(a.stderr, exitErr.Error())
		return exitErr.code
	}

	// Usage errors from cobra: unknown command, unexpected arguments.
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	fmt.Fprintf(a.stderr, "Run '%s --help' for usage.\n", root.CommandPath())
	return exitRuntimeError
}
