// Package prompt is the wizard's only way to ask the user anything.
//
// The Prompter interface keeps the huh dependency at the edge so the wizard
// can be driven by a scripted fake in tests.
package prompt

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/rileyhilliard/gitsetup/internal/errors"
)

// TTYPath is opened for prompts when stdin is not a terminal.
const TTYPath = "/dev/tty"

// Option is one choice in a Select prompt.
type Option struct {
	Label string
	Value string
}

// Prompter asks questions. Every method returns a CANCELLED error when the
// context is done or the user aborts the form.
type Prompter interface {
	Confirm(ctx context.Context, title string, def bool) (bool, error)
	Input(ctx context.Context, title, description, def string, validate func(string) error) (string, error)
	Select(ctx context.Context, title string, options []Option, def string) (string, error)
	Pause(ctx context.Context, message string) error
}

// Huh implements Prompter with charmbracelet/huh forms.
type Huh struct {
	in     io.Reader
	out    io.Writer
	closer io.Closer
}

// NewHuh returns a Prompter reading from stdin, or from /dev/tty when stdin
// is piped (e.g. the installer was fed to sh through curl).
func NewHuh() *Huh {
	h := &Huh{in: os.Stdin, out: os.Stdout}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return h
	}
	if tty, err := os.Open(TTYPath); err == nil {
		h.in = tty
		h.closer = tty
	}
	return h
}

// NewHuhWithIO returns a Prompter bound to explicit streams.
func NewHuhWithIO(in io.Reader, out io.Writer) *Huh {
	return &Huh{in: in, out: out}
}

// Close releases /dev/tty if it was opened.
func (h *Huh) Close() error {
	if h.closer == nil {
		return nil
	}
	return h.closer.Close()
}

// Confirm asks a yes/no question.
func (h *Huh) Confirm(ctx context.Context, title string, def bool) (bool, error) {
	value := def
	err := h.run(ctx, huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value))
	return value, err
}

// Input asks for a line of text. validate may be nil.
func (h *Huh) Input(ctx context.Context, title, description, def string, validate func(string) error) (string, error) {
	value := def
	field := huh.NewInput().
		Title(title).
		Value(&value)
	if description != "" {
		field = field.Description(description)
	}
	if validate != nil {
		field = field.Validate(validate)
	}
	err := h.run(ctx, field)
	return value, err
}

// Select asks the user to pick one option. def preselects by value.
func (h *Huh) Select(ctx context.Context, title string, options []Option, def string) (string, error) {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}

	value := def
	err := h.run(ctx, huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&value))
	return value, err
}

// Pause shows a message and waits for the user to continue. Used while the
// user pastes a key into the browser.
func (h *Huh) Pause(ctx context.Context, message string) error {
	return h.run(ctx, huh.NewNote().
		Title(message).
		Next(true).
		NextLabel("Done"))
}

func (h *Huh) run(ctx context.Context, field huh.Field) error {
	if ctx.Err() != nil {
		return errors.Cancelled()
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(h.in).
		WithOutput(h.out).
		WithShowHelp(false)

	if err := form.RunWithContext(ctx); err != nil {
		return mapError(ctx, err)
	}
	return nil
}

// mapError turns huh and context failures into coded errors.
func mapError(ctx context.Context, err error) error {
	if ctx.Err() != nil ||
		stderrors.Is(err, huh.ErrUserAborted) ||
		stderrors.Is(err, context.Canceled) {
		return errors.Cancelled()
	}
	return errors.WrapWithCode(err, errors.ErrPrecondition,
		"Failed to get user input",
		"Run gitsetup from an interactive terminal")
}
