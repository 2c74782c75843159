package setup

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/gitsetup/internal/dotfile"
	"github.com/rileyhilliard/gitsetup/internal/workstation"
)

// Markers for the managed files. Their presence means "already configured".
const (
	PinentryMarker = "pinentry-program"
	GPGTTYMarker   = "GPG_TTY"
)

// HostAliasFile is the ~/.ssh/config block pointing the host at our key.
// The marker is the host name, matched case-insensitively because ssh
// treats host names that way.
func HostAliasFile(w *workstation.Workstation) dotfile.ManagedFile {
	var b strings.Builder
	fmt.Fprintf(&b, "\nHost %s\n", w.Host)
	b.WriteString("  AddKeysToAgent yes\n")
	if w.IsDarwin() {
		b.WriteString("  UseKeychain yes\n")
	}
	fmt.Fprintf(&b, "  IdentityFile %s\n", w.HomeRelative(w.SSHKeyPath()))

	return dotfile.ManagedFile{
		Path:   w.SSHConfigPath(),
		Mode:   0o600,
		Marker: w.Host,
		Block:  b.String(),
		Match:  dotfile.MatchFold,
	}
}

// AgentConfFile is the gpg-agent.conf line selecting the pinentry program.
// Callers must check w.PinentryPath is set first.
func AgentConfFile(w *workstation.Workstation) dotfile.ManagedFile {
	return dotfile.ManagedFile{
		Path:   w.AgentConfPath(),
		Marker: PinentryMarker,
		Block:  fmt.Sprintf("\n%s %s\n", PinentryMarker, w.PinentryPath),
		Match:  dotfile.MatchExact,
	}
}

// ProfileFile is the shell rc export that lets gpg find the terminal for
// passphrase prompts.
func ProfileFile(w *workstation.Workstation) dotfile.ManagedFile {
	return dotfile.ManagedFile{
		Path:   w.ShellRC,
		Marker: GPGTTYMarker,
		Block:  "\n# GPG commit signing\nexport GPG_TTY=$(tty)\n",
		Match:  dotfile.MatchExact,
	}
}
