package doctor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"

	"github.com/rileyhilliard/gitsetup/internal/dotfile"
	"github.com/rileyhilliard/gitsetup/internal/setup"
	"github.com/rileyhilliard/gitsetup/internal/workstation"
)

// SSHKeyCheck verifies the public key exists and parses.
type SSHKeyCheck struct {
	W *workstation.Workstation
}

func (c *SSHKeyCheck) Name() string     { return "ssh_key" }
func (c *SSHKeyCheck) Category() string { return "SSH" }

func (c *SSHKeyCheck) Run(_ context.Context) CheckResult {
	r := CheckResult{Name: c.Name(), Label: "SSH key"}
	k := setup.KeyPairFor(c.W)

	if !k.HasPublic() {
		r.Status = StatusFail
		r.Value = "not found"
		r.Suggestion = "Run gitsetup to generate " + c.W.HomeRelative(k.Path)
		return r
	}

	text, err := setup.ReadPublicKey(k.PublicPath)
	if err != nil {
		r.Status = StatusFail
		r.Value = "unreadable"
		r.Suggestion = "Check permissions on " + c.W.HomeRelative(k.PublicPath)
		return r
	}

	info, err := setup.ParsePublicKey(text)
	if err != nil {
		r.Status = StatusFail
		r.Value = "not a valid public key"
		r.Suggestion = fmt.Sprintf("Regenerate it: ssh-keygen -y -f %s > %s",
			c.W.HomeRelative(k.Path), c.W.HomeRelative(k.PublicPath))
		return r
	}

	r.Status = StatusPass
	r.Value = info.Type + " " + info.Fingerprint
	return r
}

// SSHConfigCheck verifies ~/.ssh/config has the host alias block and that
// ssh resolves the host to our key.
type SSHConfigCheck struct {
	W *workstation.Workstation
}

func (c *SSHConfigCheck) Name() string     { return "ssh_config" }
func (c *SSHConfigCheck) Category() string { return "SSH" }

func (c *SSHConfigCheck) Run(_ context.Context) CheckResult {
	r := CheckResult{Name: c.Name(), Label: "SSH config"}
	f := setup.HostAliasFile(c.W)

	ok, err := dotfile.Configured(f)
	if err != nil || !ok {
		r.Status = StatusFail
		r.Value = "missing " + c.W.Host
		r.Suggestion = "Run gitsetup to add a Host " + c.W.Host + " entry"
		return r
	}

	identity, err := HostIdentityFile(f.Path, c.W.Host, c.W.Home)
	switch {
	case err != nil:
		r.Status = StatusWarn
		r.Value = c.W.Host + " entry present"
		r.Suggestion = "ssh config couldn't be parsed: " + err.Error()
	case identity == "":
		r.Status = StatusWarn
		r.Value = c.W.Host + " entry present, no IdentityFile"
		r.Suggestion = "Add 'IdentityFile " + c.W.HomeRelative(c.W.SSHKeyPath()) + "' under Host " + c.W.Host
	case identity != c.W.SSHKeyPath():
		r.Status = StatusWarn
		r.Value = c.W.Host + " uses " + c.W.HomeRelative(identity)
		r.Suggestion = "The entry points at a different key than " + c.W.HomeRelative(c.W.SSHKeyPath())
	default:
		r.Status = StatusPass
		r.Value = c.W.Host + " entry present"
	}
	return r
}

// HostIdentityFile parses an ssh config file and returns the IdentityFile
// ssh would use for host, with a leading ~ expanded against home.
// A missing file yields "", nil.
func HostIdentityFile(configPath, host, home string) (string, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return "", err
	}

	identity, err := cfg.Get(host, "IdentityFile")
	if err != nil {
		return "", err
	}
	return expandTilde(identity, home), nil
}

func expandTilde(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
