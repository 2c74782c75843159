package wizard

import (
	"context"
	"path/filepath"

	"github.com/rileyhilliard/gitsetup/internal/dotfile"
	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/gitconfig"
	"github.com/rileyhilliard/gitsetup/internal/gpg"
	"github.com/rileyhilliard/gitsetup/internal/setup"
	"github.com/rileyhilliard/gitsetup/internal/ui"
)

var gpgUploadSteps = []string{
	"1. Click New GPG key",
	"2. Title: something like \"Work MacBook Signing Key\"",
	"3. Key: paste (already copied). It starts with -----BEGIN PGP PUBLIC KEY BLOCK-----",
	"4. Click Add GPG key",
}

func (wz *Wizard) setupSigning(ctx context.Context) error {
	wz.out.Phase(4, TotalPhases, "GPG key & commit signing")
	wz.out.Dim("So GitHub can prove your commits are really yours")

	if !wz.report.SigningAvailable {
		wz.out.Skip("GPG setup", "GnuPG not available")
		return nil
	}

	if err := wz.configureAgent(ctx); err != nil {
		return err
	}

	id := wz.report.Identity
	h, err := wz.resolveSigningKey(ctx)
	if err != nil {
		return err
	}
	if h == nil {
		wz.out.Info("Generating GPG key pair...")
		wz.out.Dim("A passphrase dialog may pop up. Pick something strong.")
		wz.out.Newline()

		s := wz.w.Settings().GPG
		h, err = wz.gpg.Generate(ctx, id.Name, id.Email, gpg.KeySpec{
			Algo:       s.KeyAlgo,
			SubkeyAlgo: s.SubkeyAlgo,
			Expiry:     s.Expiry,
		})
		if err != nil {
			if ctx.Err() != nil {
				return errors.Cancelled()
			}
			// No key means nothing for git to sign with.
			return wz.recordFailure(StepSigningKey, err)
		}
		wz.out.Success("GPG key created: %s", h.KeyID)
	}
	wz.report.KeyID = h.KeyID

	wz.out.Info("Configuring git to sign commits automatically...")
	entries := gitconfig.SigningEntries(h.KeyID, id.Name, id.Email, wz.gpg.Program())
	if err := wz.git.Apply(ctx, entries); err != nil {
		if ctx.Err() != nil {
			return errors.Cancelled()
		}
		if rerr := wz.recordFailure(StepGitConfig, err); rerr != nil {
			return rerr
		}
	} else {
		wz.out.Success("Git config updated")
		wz.out.Newline()
		wz.out.Text("%s", ui.RenderKeyValues(snapshotPairs(wz.git.Snapshot(ctx, gitconfig.ManagedKeys()...))))
	}

	rc := filepath.Base(wz.w.ShellRC)
	if _, err := wz.ensure(ctx, StepProfile, setup.ProfileFile(wz.w),
		"Added GPG_TTY to "+rc,
		"GPG_TTY already in "+rc); err != nil {
		return err
	}

	armor, ok := wz.gpg.ExportArmored(ctx, h.KeyID)
	if ctx.Err() != nil {
		return errors.Cancelled()
	}
	if !ok {
		return wz.recordFailure(StepExport, errors.New(errors.ErrGeneration,
			"Could not export GPG public key",
			"Export it by hand: gpg --armor --export "+h.KeyID))
	}

	return wz.handOff(ctx, "Your GPG public key", armor, wz.w.Settings().GitHub.GPGKeysURL,
		gpgUploadSteps, "Press Enter after you've added the GPG key on GitHub")
}

// configureAgent points gpg-agent at the pinentry program and restarts it.
func (wz *Wizard) configureAgent(ctx context.Context) error {
	if err := dotfile.EnsureDir(wz.w.GnuPGDir, 0o700); err != nil {
		return wz.recordFailure(StepAgentConf, err)
	}

	if wz.w.PinentryPath == "" {
		wz.out.Skip("gpg-agent.conf", "no pinentry program found")
		return nil
	}

	if _, err := wz.ensure(ctx, StepAgentConf, setup.AgentConfFile(wz.w),
		"Configured gpg-agent to use "+filepath.Base(wz.w.PinentryPath),
		"gpg-agent already configured"); err != nil {
		return err
	}

	// The agent rereads its config only on restart.
	wz.gpg.KillAgent(ctx)
	return nil
}

// resolveSigningKey offers an existing key for the identity's email.
// nil means generate a new one.
func (wz *Wizard) resolveSigningKey(ctx context.Context) (*gpg.Handle, error) {
	id := wz.report.Identity
	h := wz.gpg.FindKey(ctx, id.Name, id.Email)
	if h == nil {
		return nil, nil
	}

	wz.out.Warn("Existing GPG key found for %s", id.Email)
	wz.out.Dim("Key ID: %s", h.KeyID)
	wz.out.Newline()

	reuse, err := wz.d.Prompt.Confirm(ctx, "Use this existing key?", true)
	if err != nil {
		return nil, err
	}
	if !reuse {
		return nil, nil
	}
	wz.out.Success("Using key %s", h.KeyID)
	return h, nil
}

func snapshotPairs(entries []gitconfig.Entry) [][2]string {
	pairs := make([][2]string, len(entries))
	for i, e := range entries {
		pairs[i] = [2]string{e.Key, e.Value}
	}
	return pairs
}
