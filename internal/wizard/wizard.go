// Package wizard runs the fixed sequence of setup phases: welcome,
// preflight, identity, SSH, signing, verification, summary.
//
// Every collaborator arrives through Deps. The wizard never touches the
// OS directly; files go through dotfile, commands through shell.Gateway,
// questions through prompt.Prompter.
package wizard

import (
	"context"
	stderrors "errors"
	"os"
	"time"

	"github.com/rileyhilliard/gitsetup/internal/doctor"
	"github.com/rileyhilliard/gitsetup/internal/dotfile"
	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/gitconfig"
	"github.com/rileyhilliard/gitsetup/internal/gpg"
	"github.com/rileyhilliard/gitsetup/internal/logger"
	"github.com/rileyhilliard/gitsetup/internal/prompt"
	"github.com/rileyhilliard/gitsetup/internal/publish"
	"github.com/rileyhilliard/gitsetup/internal/shell"
	"github.com/rileyhilliard/gitsetup/internal/ui"
	"github.com/rileyhilliard/gitsetup/internal/workstation"
)

// TotalPhases is the count shown in phase headings. Welcome and summary
// are not numbered.
const TotalPhases = 5

// Deps are the wizard's collaborators.
type Deps struct {
	Workstation *workstation.Workstation
	Gateway     shell.Gateway
	Prompt      prompt.Prompter
	Publish     publish.Publisher
	Out         *ui.Printer
	Log         logger.Logger

	// Version is shown in the header.
	Version string
	// Animate turns on spinner animation; off when stdout is not a terminal.
	Animate bool
	// Now stamps backups. Defaults to time.Now.
	Now func() time.Time
	// Setenv exports GPG_TTY into this process. Defaults to os.Setenv.
	Setenv func(key, value string) error
}

// Identity is who the keys and commits belong to.
type Identity struct {
	Name  string
	Email string
}

// StepFailure records a resource step that could not finish.
type StepFailure struct {
	Step string
	Err  error
}

// Report is what a completed run produced.
type Report struct {
	Identity         Identity
	SigningAvailable bool
	SSHReady         bool
	SSHFingerprint   string
	KeyID            string
	Failures         []StepFailure
	Checks           []doctor.CheckResult
	AllGood          bool
}

// Failed reports whether step recorded a failure.
func (r *Report) Failed(step string) bool {
	for _, f := range r.Failures {
		if f.Step == step {
			return true
		}
	}
	return false
}

// Wizard drives one run.
type Wizard struct {
	d      Deps
	w      *workstation.Workstation
	out    *ui.Printer
	log    logger.Logger
	git    *gitconfig.Client
	gpg    *gpg.Tool
	report *Report
}

// New builds a Wizard, filling defaults for optional deps.
func New(d Deps) *Wizard {
	if d.Log == nil {
		d.Log = logger.Noop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Setenv == nil {
		d.Setenv = os.Setenv
	}
	if d.Publish == nil {
		d.Publish = &publish.Recorder{}
	}

	s := d.Workstation.Settings()
	return &Wizard{
		d:   d,
		w:   d.Workstation,
		out: d.Out,
		log: d.Log,
		git: gitconfig.New(d.Gateway),
		gpg: gpg.New(d.Gateway, s.GPG.Program, d.Log),
	}
}

// Run executes every phase in order. A nil error means the run reached the
// summary, even if some checks did not pass. Errors carry a code: DECLINED
// (clean exit), CANCELLED (interrupt), PRECONDITION or CONFIG (fatal).
func (wz *Wizard) Run(ctx context.Context) (*Report, error) {
	wz.report = &Report{}

	phases := []func(context.Context) error{
		wz.welcome,
		wz.preflight,
		wz.collectIdentity,
		wz.setupSSH,
		wz.setupSigning,
		wz.verify,
		wz.summary,
	}

	for _, phase := range phases {
		if ctx.Err() != nil {
			return wz.report, errors.Cancelled()
		}
		if err := phase(ctx); err != nil {
			return wz.report, err
		}
	}
	return wz.report, nil
}

// recordFailure notes a failed resource step and prints it. Only
// GENERATION and FILESYSTEM failures are recoverable this way; anything
// else is returned so the run stops.
func (wz *Wizard) recordFailure(step string, err error) error {
	switch errors.Code(err) {
	case errors.ErrGeneration, errors.ErrFilesystem, errors.ErrTool:
	default:
		return err
	}

	wz.report.Failures = append(wz.report.Failures, StepFailure{Step: step, Err: err})

	var e *errors.Error
	if stderrors.As(err, &e) {
		wz.out.Fail("%s", e.Message)
		if e.Suggestion != "" {
			wz.out.Dim("%s", e.Suggestion)
		}
	} else {
		wz.out.Fail("%v", err)
	}
	wz.log.Debug("%s failed: %v", step, err)
	return nil
}

// ensure applies a managed file and reports what happened. success is the
// line to print for Created or Appended; present is printed when the marker
// was already there.
func (wz *Wizard) ensure(ctx context.Context, step string, f dotfile.ManagedFile, success, present string) (bool, error) {
	if ctx.Err() != nil {
		return false, errors.Cancelled()
	}
	if logger.DebugEnabled() {
		if diff, err := dotfile.Preview(f); err == nil && diff != "" {
			wz.log.Debug("pending change:\n%s", diff)
		}
	}

	outcome, err := dotfile.Ensure(f)
	if err != nil {
		return false, wz.recordFailure(step, err)
	}

	switch outcome {
	case dotfile.AlreadyPresent:
		wz.out.Success("%s", present)
	default:
		wz.out.Success("%s", success)
	}
	wz.log.Debug("%s: %s", f.Path, outcome)
	return true, nil
}

// spin runs fn under a spinner and marks it by fn's result.
func (wz *Wizard) spin(label string, fn func() bool) bool {
	s := ui.NewSpinner(wz.out.Writer(), label)
	s.SetAnimated(wz.d.Animate)
	s.Start()
	ok := fn()
	if ok {
		s.Success()
	} else {
		s.Fail()
	}
	return ok
}

// handOff copies text, shows it, opens url and waits for the user to finish
// pasting. Clipboard and browser failures are warnings.
func (wz *Wizard) handOff(ctx context.Context, what, text, url string, steps []string, wait string) error {
	if ctx.Err() != nil {
		return errors.Cancelled()
	}
	wz.out.Newline()
	copied := wz.d.Publish.Copy(text) == nil
	if copied {
		wz.out.Success("%s is on your clipboard", what)
	} else {
		wz.out.Warn("Couldn't reach the clipboard. Copy %s from below", what)
	}
	wz.out.Code(text)
	wz.out.Newline()

	wz.out.Info("Opening %s", url)
	if err := wz.d.Publish.Open(url); err != nil {
		wz.out.Warn("Couldn't open a browser. Visit the page yourself")
		wz.log.Debug("browser: %v", err)
	}
	for _, s := range steps {
		wz.out.Dim("%s", s)
	}
	wz.out.Newline()

	return wz.d.Prompt.Pause(ctx, wait)
}
