// Package shell is the single conduit between gitsetup and external tools.
//
// Every invocation degrades instead of failing: a missing binary, a non-zero
// exit, or a cancelled context all collapse into a Result with Success set
// to false. Callers decide what an unsuccessful run means for them.
package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/gitsetup/internal/logger"
)

// Result is the outcome of one external command.
type Result struct {
	Stdout  string // trimmed standard output
	Stderr  string // trimmed standard error
	Success bool   // true only when the command started and exited 0
}

// Output returns stderr followed by stdout. Some tools (ssh -T) report on
// stderr even when they succeed.
func (r Result) Output() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stderr + "\n" + r.Stdout
	}
}

// Gateway runs external commands.
type Gateway interface {
	// Run executes name with args and captures its output.
	Run(ctx context.Context, name string, args ...string) Result
	// RunInput is Run with input fed to the command's stdin.
	RunInput(ctx context.Context, input string, name string, args ...string) Result
	// RunTerminal captures output like Run but gives the command the
	// user's terminal as stdin. Needed for tty(1).
	RunTerminal(ctx context.Context, name string, args ...string) Result
	// RunInteractive attaches the command to the user's terminal.
	// Output is not captured.
	RunInteractive(ctx context.Context, name string, args ...string) Result
	// Exists reports whether name resolves on PATH. No side effects.
	Exists(name string) bool
}

// Local runs commands on this machine with os/exec.
type Local struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logger.Logger
}

// NewLocal returns a gateway wired to the process's standard streams.
func NewLocal(log logger.Logger) *Local {
	if log == nil {
		log = logger.Noop()
	}
	return &Local{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    log,
	}
}

// Run executes a command and captures stdout and stderr.
func (l *Local) Run(ctx context.Context, name string, args ...string) Result {
	return l.capture(ctx, nil, name, args...)
}

// RunInput executes a command with input on stdin.
func (l *Local) RunInput(ctx context.Context, input string, name string, args ...string) Result {
	return l.capture(ctx, strings.NewReader(input), name, args...)
}

// RunTerminal executes a command reading the terminal and captures its
// output.
func (l *Local) RunTerminal(ctx context.Context, name string, args ...string) Result {
	return l.capture(ctx, l.Stdin, name, args...)
}

// RunInteractive executes a command attached to the terminal so it can
// prompt for passphrases or key parameters.
func (l *Local) RunInteractive(ctx context.Context, name string, args ...string) Result {
	l.Log.Debug("$ %s (interactive)", CommandLine(name, args...))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Run(); err != nil {
		l.Log.Debug("  -> %v", err)
		return Result{}
	}
	return Result{Success: true}
}

// Exists reports whether name is on PATH.
func (l *Local) Exists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (l *Local) capture(ctx context.Context, stdin io.Reader, name string, args ...string) Result {
	l.Log.Debug("$ %s", CommandLine(name, args...))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout:  strings.TrimSpace(stdout.String()),
		Stderr:  strings.TrimSpace(stderr.String()),
		Success: err == nil,
	}
	if err != nil {
		l.Log.Debug("  -> %v", err)
	}
	return res
}
