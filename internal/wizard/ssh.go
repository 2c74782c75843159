package wizard

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/gitsetup/internal/dotfile"
	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/prompt"
	"github.com/rileyhilliard/gitsetup/internal/setup"
)

// Step names recorded in Report.Failures.
const (
	StepSSHKey     = "ssh-key"
	StepSSHConfig  = "ssh-config"
	StepAgentConf  = "gpg-agent"
	StepSigningKey = "signing-key"
	StepGitConfig  = "git-config"
	StepProfile    = "shell-profile"
	StepExport     = "gpg-export"
)

var sshUploadSteps = []string{
	"1. Click New SSH key",
	"2. Title: something like \"Work MacBook\"",
	"3. Key type: Authentication Key",
	"4. Key: paste (already copied)",
	"5. Click Add SSH key",
}

func (wz *Wizard) setupSSH(ctx context.Context) error {
	wz.out.Phase(3, TotalPhases, "SSH key")
	wz.out.Dim("So GitHub knows your machine")

	if err := dotfile.EnsureDir(wz.w.SSHDir, 0o700); err != nil {
		return wz.recordFailure(StepSSHKey, err)
	}

	k := setup.KeyPairFor(wz.w)
	if k.Exists() {
		res, err := wz.resolveExistingKey(ctx, k)
		if err != nil {
			return err
		}
		if res == setup.Replace {
			moved, err := k.Backup(wz.d.Now())
			if err != nil {
				return wz.recordFailure(StepSSHKey, err)
			}
			for _, m := range moved {
				wz.out.Success("Backed up to %s", wz.w.HomeRelative(m))
			}
		} else {
			wz.out.Success("Keeping existing key")
		}
	}

	if !k.Exists() {
		wz.out.Info("Generating %s key...", wz.w.KeyType)
		wz.out.Dim("You'll be asked for a passphrase (recommended, but Enter skips it)")
		wz.out.Newline()
		if err := setup.GenerateKey(ctx, wz.d.Gateway, k, wz.w.KeyType, wz.report.Identity.Email); err != nil {
			if ctx.Err() != nil {
				return errors.Cancelled()
			}
			return wz.recordFailure(StepSSHKey, err)
		}
		wz.out.Success("SSH key generated")
	}

	pub, err := setup.ReadPublicKey(k.PublicPath)
	if err != nil {
		return wz.recordFailure(StepSSHKey, err)
	}
	info, err := setup.ParsePublicKey(pub)
	if err != nil {
		return wz.recordFailure(StepSSHKey, err)
	}
	wz.report.SSHFingerprint = info.Fingerprint
	wz.out.Dim("%s %s", info.Type, info.Fingerprint)

	added := setup.AddToAgent(ctx, wz.d.Gateway, wz.w, k)
	if ctx.Err() != nil {
		return errors.Cancelled()
	}
	if added {
		where := "ssh-agent"
		if wz.w.IsDarwin() {
			where = "ssh-agent and macOS Keychain"
		}
		wz.out.Success("Key added to %s", where)
	} else {
		wz.out.Warn("Couldn't add the key to ssh-agent")
		wz.out.Dim("Try: ssh-add %s", wz.w.HomeRelative(k.Path))
	}

	configPath := wz.w.HomeRelative(wz.w.SSHConfigPath())
	if _, err := wz.ensure(ctx, StepSSHConfig, setup.HostAliasFile(wz.w),
		fmt.Sprintf("Added Host %s to %s", wz.w.Host, configPath),
		fmt.Sprintf("%s already has a %s entry", configPath, wz.w.Host)); err != nil {
		return err
	}

	if err := wz.handOff(ctx, "Your SSH public key", pub, wz.w.Settings().GitHub.SSHKeysURL,
		sshUploadSteps, "Press Enter after you've added the SSH key on GitHub"); err != nil {
		return err
	}

	var out string
	ok := wz.spin("Testing SSH connection to "+wz.w.Host, func() bool {
		var authed bool
		authed, out = setup.TestAuth(ctx, wz.d.Gateway, wz.w.Host)
		return authed
	})
	if ctx.Err() != nil {
		return errors.Cancelled()
	}
	if ok {
		wz.out.Success("SSH to %s works", wz.w.Host)
	} else {
		wz.out.Warn("Could not confirm the connection yet")
		wz.out.Dim("This sometimes takes a moment, or the host fingerprint needs confirming.")
		wz.out.Dim("Try: ssh -T git@%s", wz.w.Host)
		wz.log.Debug("ssh -T output: %s", out)
	}

	wz.report.SSHReady = true
	return nil
}

// resolveExistingKey asks whether to keep or replace a key already on disk.
func (wz *Wizard) resolveExistingKey(ctx context.Context, k setup.KeyPair) (setup.Resolution, error) {
	wz.out.Warn("SSH key already exists: %s", wz.w.HomeRelative(k.Path))
	if k.HasPublic() {
		if pub, err := setup.ReadPublicKey(k.PublicPath); err == nil {
			wz.out.Dim("%s", truncate(pub, 72))
		}
	}
	wz.out.Newline()

	choice, err := wz.d.Prompt.Select(ctx, "What do you want to do?", []prompt.Option{
		{Label: "Keep it", Value: setup.Reuse.String()},
		{Label: "Replace it (the old key is backed up)", Value: setup.Replace.String()},
	}, setup.Reuse.String())
	if err != nil {
		return setup.Reuse, err
	}
	if choice == setup.Replace.String() {
		return setup.Replace, nil
	}
	return setup.Reuse, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
