package doctor

import (
	"context"
	"path/filepath"

	"github.com/rileyhilliard/gitsetup/internal/dotfile"
	"github.com/rileyhilliard/gitsetup/internal/gitconfig"
	"github.com/rileyhilliard/gitsetup/internal/gpg"
	"github.com/rileyhilliard/gitsetup/internal/setup"
	"github.com/rileyhilliard/gitsetup/internal/workstation"
)

// SigningKeyCheck verifies git has a signing key and gpg holds its secret.
type SigningKeyCheck struct {
	Git   *gitconfig.Client
	GPG   *gpg.Tool
	KeyID string // known key; "" reads user.signingkey
}

func (c *SigningKeyCheck) Name() string     { return "signing_key" }
func (c *SigningKeyCheck) Category() string { return "SIGNING" }

func (c *SigningKeyCheck) Run(ctx context.Context) CheckResult {
	r := CheckResult{Name: c.Name(), Label: "GPG signing key"}

	id := c.KeyID
	if id == "" {
		id = c.Git.Get(ctx, gitconfig.KeySigningKey)
	}
	if id == "" {
		r.Status = StatusFail
		r.Value = "not configured"
		r.Suggestion = "Run gitsetup to create a signing key"
		return r
	}

	r.Value = id
	if !c.GPG.HasSecretKey(ctx, id) {
		r.Status = StatusWarn
		r.Suggestion = "gpg has no secret key " + id + "; check: gpg --list-secret-keys"
		return r
	}
	r.Status = StatusPass
	return r
}

// AutoSignCheck verifies commit.gpgsign is on.
type AutoSignCheck struct {
	Git *gitconfig.Client
}

func (c *AutoSignCheck) Name() string     { return "auto_sign" }
func (c *AutoSignCheck) Category() string { return "SIGNING" }

func (c *AutoSignCheck) Run(ctx context.Context) CheckResult {
	r := CheckResult{Name: c.Name(), Label: "Auto-sign commits"}

	v := c.Git.Get(ctx, gitconfig.KeyGPGSign)
	if v == "true" {
		r.Status = StatusPass
		r.Value = v
		return r
	}

	r.Status = StatusFail
	r.Value = v
	if v == "" {
		r.Value = "not set"
	}
	r.Suggestion = "git config --global commit.gpgsign true"
	return r
}

// GPGTTYCheck verifies the shell rc exports GPG_TTY.
type GPGTTYCheck struct {
	W *workstation.Workstation
}

func (c *GPGTTYCheck) Name() string     { return "gpg_tty" }
func (c *GPGTTYCheck) Category() string { return "SIGNING" }

func (c *GPGTTYCheck) Run(_ context.Context) CheckResult {
	r := CheckResult{Name: c.Name(), Label: "GPG_TTY in shell rc", Value: filepath.Base(c.W.ShellRC)}

	ok, err := dotfile.Configured(setup.ProfileFile(c.W))
	if err == nil && ok {
		r.Status = StatusPass
		return r
	}

	r.Status = StatusFail
	r.Suggestion = "echo 'export GPG_TTY=$(tty)' >> " + c.W.HomeRelative(c.W.ShellRC)
	return r
}
