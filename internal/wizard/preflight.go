package wizard

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rileyhilliard/gitsetup/internal/config"
	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/ui"
	"github.com/rileyhilliard/gitsetup/internal/workstation"
)

const (
	// HomebrewURL is opened before the installer runs.
	HomebrewURL = "https://brew.sh"
	// HomebrewInstallScript is Homebrew's official installer.
	HomebrewInstallScript = "https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh"
)

func (wz *Wizard) welcome(ctx context.Context) error {
	wz.out.Header(ui.HeaderInfo{
		Version: wz.d.Version,
		Tagline: "SSH + GPG commit signing for git",
	})
	wz.out.Newline()
	wz.out.Text("This wizard sets up your machine for secure git:")
	wz.out.Newline()
	wz.out.Text("  1. Generate an SSH key and add it to GitHub")
	wz.out.Text("  2. Create a GPG signing key for verified commits")
	wz.out.Text("  3. Wire up git to use both automatically")
	wz.out.Text("  4. Verify the whole chain works")
	wz.out.Newline()
	wz.out.Dim("You'll need your GitHub account open in a browser.")
	wz.out.Dim("Takes about 5 minutes. Safe to re-run if anything fails.")
	wz.out.Newline()

	ready, err := wz.d.Prompt.Confirm(ctx, "Ready?", true)
	if err != nil {
		return err
	}
	if !ready {
		return errors.Declined("No worries. Run again whenever.")
	}
	return nil
}

// preflight checks hard requirements and installs the signing toolchain on
// macOS. A missing toolchain only degrades signing; a missing platform or
// git stops the run.
func (wz *Wizard) preflight(ctx context.Context) error {
	wz.out.Phase(1, TotalPhases, "Preflight checks")

	if !wz.w.PlatformSupported() {
		return errors.New(errors.ErrPrecondition,
			fmt.Sprintf("This wizard targets %s. Detected: %s",
				strings.Join(wz.w.Settings().Platforms, ", "), wz.w.OS),
			"Add this platform to 'platforms' in "+configHint())
	}
	wz.out.Success("%s detected", platformName(wz.w.OS))

	if !wz.d.Gateway.Exists("git") {
		suggestion := "Install git and re-run"
		if wz.w.IsDarwin() {
			suggestion = "Run: xcode-select --install"
		}
		return errors.New(errors.ErrPrecondition, "Git not found", suggestion)
	}
	wz.out.Success("Git installed  (%s)", wz.d.Gateway.Run(ctx, "git", "--version").Stdout)

	var err error
	if wz.w.IsDarwin() {
		wz.report.SigningAvailable, err = wz.preflightDarwin(ctx)
	} else {
		wz.report.SigningAvailable = wz.preflightOther(ctx)
	}
	if err != nil {
		return err
	}

	wz.out.Newline()
	wz.out.Success("Preflight complete")
	return nil
}

func (wz *Wizard) preflightDarwin(ctx context.Context) (bool, error) {
	if !wz.w.HasBrew() {
		wz.out.Warn("Homebrew not found (needed for GPG tools)")
		install, err := wz.d.Prompt.Confirm(ctx, "Install Homebrew now?", true)
		if err != nil {
			return false, err
		}
		if !install {
			wz.out.Warn("Skipping Homebrew. GPG signing won't be available.")
			return false, nil
		}

		wz.out.Info("Installing Homebrew... this can take a minute")
		if err := wz.d.Publish.Open(HomebrewURL); err != nil {
			wz.log.Debug("browser: %v", err)
		}
		wz.d.Gateway.RunInteractive(ctx, "/bin/bash", "-c",
			fmt.Sprintf(`/bin/bash -c "$(curl -fsSL %s)"`, HomebrewInstallScript))
		if ctx.Err() != nil {
			return false, errors.Cancelled()
		}

		wz.w.Refresh()
		if !wz.w.HasBrew() {
			return false, errors.New(errors.ErrPrecondition,
				"Homebrew install didn't finish",
				"It may need a terminal restart. Re-run gitsetup after")
		}
		wz.out.Success("Homebrew installed")
	} else {
		wz.out.Success("Homebrew installed")
	}

	if !wz.gpg.Available() {
		installed := wz.spin("Installing GnuPG", func() bool {
			wz.d.Gateway.Run(ctx, wz.w.BrewBin(), "install", "gnupg")
			return wz.gpg.Available()
		})
		if ctx.Err() != nil {
			return false, errors.Cancelled()
		}
		if !installed {
			wz.out.Fail("Could not install GnuPG")
			wz.out.Dim("Try: brew install gnupg")
			return false, nil
		}
	} else {
		wz.out.Success("GnuPG installed  (%s)", wz.gpgVersion(ctx))
	}

	if wz.w.PinentryPath == "" {
		wz.spin("Installing "+workstation.PinentryMac, func() bool {
			wz.d.Gateway.Run(ctx, wz.w.BrewBin(), "install", workstation.PinentryMac)
			wz.w.Refresh()
			return wz.w.PinentryPath != ""
		})
		if ctx.Err() != nil {
			return false, errors.Cancelled()
		}
		if wz.w.PinentryPath == "" {
			wz.out.Warn("%s not found. GPG passphrase prompts may behave oddly.", workstation.PinentryMac)
		}
	} else {
		wz.out.Success("%s installed", workstation.PinentryMac)
	}

	return true, nil
}

func (wz *Wizard) preflightOther(ctx context.Context) bool {
	if !wz.gpg.Available() {
		wz.out.Warn("GnuPG not found. Install it with your package manager to enable signing.")
		return false
	}
	wz.out.Success("GnuPG installed  (%s)", wz.gpgVersion(ctx))

	if wz.w.PinentryPath == "" {
		wz.out.Warn("No pinentry program on PATH. GPG passphrase prompts may behave oddly.")
	} else {
		wz.out.Success("pinentry at %s", wz.w.PinentryPath)
	}
	return true
}

func (wz *Wizard) gpgVersion(ctx context.Context) string {
	out := wz.d.Gateway.Run(ctx, wz.gpg.Program(), "--version").Stdout
	first, _, _ := strings.Cut(out, "\n")
	return first
}

func platformName(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "linux":
		return "Linux"
	default:
		return goos
	}
}

func configHint() string {
	return "~/" + path.Join(config.GlobalConfigDir, config.GlobalConfigFile)
}
