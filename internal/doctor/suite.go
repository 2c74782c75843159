package doctor

import (
	"github.com/rileyhilliard/gitsetup/internal/gitconfig"
	"github.com/rileyhilliard/gitsetup/internal/gpg"
	"github.com/rileyhilliard/gitsetup/internal/shell"
	"github.com/rileyhilliard/gitsetup/internal/workstation"
)

// Env is what the checks read.
type Env struct {
	Workstation *workstation.Workstation
	Gateway     shell.Gateway
	Git         *gitconfig.Client
	GPG         *gpg.Tool
	KeyID       string // signing key from this run, if any
}

// VerificationChecks are the rows of the wizard's final report.
func VerificationChecks(env Env) []Check {
	return []Check{
		&SSHKeyCheck{W: env.Workstation},
		&SSHConfigCheck{W: env.Workstation},
		&SigningKeyCheck{Git: env.Git, GPG: env.GPG, KeyID: env.KeyID},
		&AutoSignCheck{Git: env.Git},
		&GPGTTYCheck{W: env.Workstation},
	}
}

// AllChecks adds the tool checks in front of the verification checks, for
// the doctor command.
func AllChecks(env Env) []Check {
	tools := []Check{
		&ToolCheck{Gateway: env.Gateway, Tool: "git", Hint: "xcode-select --install"},
		&ToolCheck{Gateway: env.Gateway, Tool: "ssh-keygen", Hint: "Install OpenSSH"},
		&ToolCheck{Gateway: env.Gateway, Tool: env.GPG.Program(), Hint: "brew install gnupg"},
	}
	if env.Workstation.IsDarwin() {
		tools = append(tools, &ToolCheck{
			Gateway:  env.Gateway,
			Tool:     env.Workstation.BrewBin(),
			Label:    "brew",
			Hint:     "See https://brew.sh",
			Optional: true,
		})
	}
	return append(tools, VerificationChecks(env)...)
}
