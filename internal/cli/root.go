package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/gitsetup/internal/config"
	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/lock"
	"github.com/rileyhilliard/gitsetup/internal/logger"
	"github.com/rileyhilliard/gitsetup/internal/prompt"
	"github.com/rileyhilliard/gitsetup/internal/publish"
	"github.com/rileyhilliard/gitsetup/internal/shell"
	"github.com/rileyhilliard/gitsetup/internal/ui"
	"github.com/rileyhilliard/gitsetup/internal/wizard"
	"github.com/rileyhilliard/gitsetup/internal/workstation"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitInterrupt = 130
)

// runLockStale is how old a run lock must be before a new run may take it.
// A wizard run pauses for the user, so this is generous.
const runLockStale = time.Hour

// rootCmd runs the setup wizard. It takes no arguments or flags.
var rootCmd = &cobra.Command{
	Use:   "gitsetup",
	Short: "Set up SSH authentication and GPG commit signing for GitHub",
	Long: `Walks through everything a machine needs for secure git:

  1. An SSH key, loaded into ssh-agent and added to GitHub
  2. A GPG signing key, added to GitHub
  3. git configured to sign every commit
  4. A final check that the whole chain works

Safe to re-run. Anything already in place is left alone.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wizardCommand(cmd.Context())
	},
}

// Execute runs the root command and exits with the mapped code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	reportError(os.Stderr, err)
	os.Exit(ExitCode(err))
}

// ExitCode maps a command error to the process exit code: 0 for success or
// an explicit decline, 130 for an interrupt, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}
	switch errors.Code(err) {
	case errors.ErrDeclined:
		return ExitOK
	case errors.ErrCancelled:
		return ExitInterrupt
	default:
		return ExitFailure
	}
}

// reportError prints err the way its code calls for. ExitErrors were
// already reported by the command that returned them.
func reportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	if _, ok := errors.GetExitCode(err); ok {
		return
	}

	var e *errors.Error
	switch errors.Code(err) {
	case errors.ErrDeclined:
		if stderrors.As(err, &e) {
			fmt.Fprintf(w, "\n%s\n", e.Message)
		}
	case errors.ErrCancelled:
		if stderrors.As(err, &e) {
			fmt.Fprintf(w, "\n%s %s\n", ui.WarningStyle().Render(ui.SymbolWarning), e.Message)
		}
	default:
		fmt.Fprintf(w, "\n%s", err.Error())
	}
}

// configureOutput turns off color when NO_COLOR is set or stdout is not a
// terminal, and reports whether spinners should animate.
func configureOutput() bool {
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	if os.Getenv("NO_COLOR") != "" || !tty {
		ui.DisableColors()
		color.NoColor = true
	}
	return tty
}

// loadSettings reads the effective configuration.
func loadSettings() (*config.Settings, error) {
	return config.LoadDefault()
}

func wizardCommand(ctx context.Context) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	l, err := acquireRunLock(config.LockPath())
	if err != nil {
		return err
	}
	defer l.Release()

	animate := configureOutput()
	log := logger.NewEnvLogger("[gitsetup]")

	p := prompt.NewHuh()
	defer p.Close()

	wz := wizard.New(wizard.Deps{
		Workstation: workstation.Detect(settings, workstation.Host()),
		Gateway:     shell.NewLocal(log),
		Prompt:      p,
		Publish:     publish.NewDesktop(),
		Out:         ui.NewPrinter(os.Stdout),
		Log:         log,
		Version:     formatVersion(version),
		Animate:     animate,
	})

	report, err := wz.Run(ctx)
	if report != nil {
		for _, f := range report.Failures {
			log.Debug("step %s: %v", f.Step, f.Err)
		}
	}
	return err
}

// acquireRunLock keeps a second wizard from editing the same files. An
// empty path (no home directory) skips locking.
func acquireRunLock(path string) (*lock.Lock, error) {
	if path == "" {
		return nil, nil
	}
	l, err := lock.Acquire(path, runLockStale, "gitsetup")
	if stderrors.Is(err, lock.ErrLocked) {
		return nil, errors.WrapWithCode(err, errors.ErrPrecondition,
			"Another gitsetup run is in progress",
			fmt.Sprintf("Let it finish first. If it crashed, remove %s", path))
	}
	return l, err
}
