// Package workstation resolves the facts about this machine that every setup
// step needs: OS, home directory, Homebrew prefix, pinentry program, shell rc
// file, and the paths of the managed files. It is built once at startup and
// passed explicitly; nothing here is global.
package workstation

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/rileyhilliard/gitsetup/internal/config"
)

const (
	// AppleSiliconPrefix is Homebrew's prefix on arm64 Macs.
	AppleSiliconPrefix = "/opt/homebrew"
	// IntelPrefix is Homebrew's prefix on x86_64 Macs.
	IntelPrefix = "/usr/local"
	// PinentryMac is the Homebrew formula and binary name for the macOS
	// passphrase dialog.
	PinentryMac = "pinentry-mac"
)

// System is the slice of the OS that detection reads. Tests substitute it.
type System struct {
	GOOS     string
	Home     string
	Getenv   func(string) string
	Exists   func(path string) bool
	LookPath func(name string) (string, error)
}

// Host returns the System for the running process.
func Host() System {
	home, _ := homedir.Dir()
	return System{
		GOOS:   runtime.GOOS,
		Home:   home,
		Getenv: os.Getenv,
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
		LookPath: exec.LookPath,
	}
}

// Workstation is the resolved context for one run.
type Workstation struct {
	OS    string
	Home  string
	Shell string // $SHELL as seen at startup

	SSHDir  string
	KeyName string
	KeyType string
	Host    string // ssh host alias, e.g. github.com

	GnuPGDir string

	BrewPrefix   string // "" off macOS
	PinentryPath string // "" when no pinentry program was found
	ShellRC      string

	settings *config.Settings
	sys      System
}

// Detect builds a Workstation from settings, filling in anything the
// settings leave unset by probing sys.
func Detect(s *config.Settings, sys System) *Workstation {
	w := &Workstation{
		OS:       sys.GOOS,
		Home:     sys.Home,
		Shell:    sys.Getenv("SHELL"),
		SSHDir:   s.SSH.Dir,
		KeyName:  s.SSH.KeyName,
		KeyType:  s.SSH.KeyType,
		Host:     s.SSH.Host,
		GnuPGDir: s.GPG.Dir,
		settings: s,
		sys:      sys,
	}

	w.ShellRC = s.Shell.RC
	if w.ShellRC == "" {
		w.ShellRC = filepath.Join(sys.Home, RCFileForShell(w.Shell))
	}

	w.Refresh()
	return w
}

// Refresh re-probes the Homebrew prefix and pinentry location. Call it after
// installing Homebrew or pinentry-mac.
func (w *Workstation) Refresh() {
	w.BrewPrefix = w.detectBrewPrefix()
	w.PinentryPath = w.detectPinentry()
}

// IsDarwin reports whether this is macOS. Keychain integration and
// Homebrew handling only apply there.
func (w *Workstation) IsDarwin() bool {
	return w.OS == "darwin"
}

// PlatformSupported reports whether OS is in the configured platforms.
func (w *Workstation) PlatformSupported() bool {
	for _, p := range w.settings.Platforms {
		if strings.EqualFold(p, w.OS) {
			return true
		}
	}
	return false
}

// Settings returns the settings the workstation was built from.
func (w *Workstation) Settings() *config.Settings {
	return w.settings
}

// SSHKeyPath is the private key path.
func (w *Workstation) SSHKeyPath() string {
	return filepath.Join(w.SSHDir, w.KeyName)
}

// SSHPubPath is the public key path.
func (w *Workstation) SSHPubPath() string {
	return w.SSHKeyPath() + ".pub"
}

// SSHConfigPath is the ssh client config file.
func (w *Workstation) SSHConfigPath() string {
	return filepath.Join(w.SSHDir, "config")
}

// AgentConfPath is gpg-agent's config file.
func (w *Workstation) AgentConfPath() string {
	return filepath.Join(w.GnuPGDir, "gpg-agent.conf")
}

// BrewBin is the brew executable under the detected prefix.
func (w *Workstation) BrewBin() string {
	if w.BrewPrefix == "" {
		return "brew"
	}
	return filepath.Join(w.BrewPrefix, "bin", "brew")
}

// HasBrew reports whether brew is installed at the detected prefix.
func (w *Workstation) HasBrew() bool {
	return w.BrewPrefix != "" && w.sys.Exists(w.BrewBin())
}

// HomeRelative renders path with a leading ~/ when it sits under the home
// directory. Used for display and for the IdentityFile line, which ssh
// expands itself.
func (w *Workstation) HomeRelative(path string) string {
	if w.Home == "" {
		return path
	}
	rel, err := filepath.Rel(w.Home, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return path
	}
	return "~/" + filepath.ToSlash(rel)
}

// RCFileForShell maps $SHELL to the rc file GPG_TTY belongs in.
// zsh and unknown shells use .zshrc; bash on macOS reads .bash_profile for
// login shells.
func RCFileForShell(shell string) string {
	switch {
	case strings.Contains(shell, "zsh"):
		return ".zshrc"
	case strings.Contains(shell, "bash"):
		return ".bash_profile"
	default:
		return ".zshrc"
	}
}

func (w *Workstation) detectBrewPrefix() string {
	if w.settings.Brew.Prefix != "" {
		return w.settings.Brew.Prefix
	}
	if !w.IsDarwin() {
		return ""
	}
	if w.sys.Exists(filepath.Join(AppleSiliconPrefix, "bin", "brew")) {
		return AppleSiliconPrefix
	}
	return IntelPrefix
}

func (w *Workstation) detectPinentry() string {
	if w.settings.GPG.Pinentry != "" {
		return w.settings.GPG.Pinentry
	}

	if !w.IsDarwin() {
		if path, err := w.sys.LookPath("pinentry"); err == nil {
			return path
		}
		return ""
	}

	candidates := []string{
		filepath.Join(w.BrewPrefix, "bin", PinentryMac),
		filepath.Join(AppleSiliconPrefix, "bin", PinentryMac),
		filepath.Join(IntelPrefix, "bin", PinentryMac),
	}
	for _, c := range candidates {
		if w.sys.Exists(c) {
			return c
		}
	}
	return ""
}
