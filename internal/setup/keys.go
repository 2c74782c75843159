package setup

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/rileyhilliard/gitsetup/internal/dotfile"
	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/shell"
	"github.com/rileyhilliard/gitsetup/internal/workstation"
)

// AuthSuccessPhrase is what GitHub prints on a successful ssh -T.
const AuthSuccessPhrase = "successfully authenticated"

// KeyPair locates an SSH key pair on disk.
type KeyPair struct {
	Path       string // private key
	PublicPath string // public key
}

// KeyPairFor returns the configured key pair for w.
func KeyPairFor(w *workstation.Workstation) KeyPair {
	return KeyPair{Path: w.SSHKeyPath(), PublicPath: w.SSHPubPath()}
}

// Exists reports whether the private key is present.
func (k KeyPair) Exists() bool {
	return dotfile.Exists(k.Path)
}

// HasPublic reports whether the public key is present.
func (k KeyPair) HasPublic() bool {
	return dotfile.Exists(k.PublicPath)
}

// Backup moves both halves of the pair aside with a .bak.<unix ts> suffix.
// A missing public key is skipped. Returns the backup paths written.
func (k KeyPair) Backup(now time.Time) ([]string, error) {
	var moved []string
	for _, p := range []string{k.Path, k.PublicPath} {
		if !dotfile.Exists(p) {
			continue
		}
		dest, err := dotfile.Backup(p, now)
		if err != nil {
			return moved, err
		}
		moved = append(moved, dest)
	}
	return moved, nil
}

// PublicKeyInfo describes a parsed public key.
type PublicKeyInfo struct {
	Type        string // e.g. ssh-ed25519
	Fingerprint string // SHA256:...
	Comment     string
}

// ReadPublicKey reads the contents of a public key file.
func ReadPublicKey(pubPath string) (string, error) {
	data, err := os.ReadFile(pubPath)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrFilesystem,
			fmt.Sprintf("Failed to read public key: %s", pubPath),
			"Check that the file exists and is readable")
	}
	return strings.TrimSpace(string(data)), nil
}

// ParsePublicKey validates authorized_keys-format text and returns its type
// and fingerprint.
func ParsePublicKey(text string) (PublicKeyInfo, error) {
	pub, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(text))
	if err != nil {
		return PublicKeyInfo{}, errors.WrapWithCode(err, errors.ErrGeneration,
			"Public key isn't in a format ssh understands",
			"Regenerate it with: ssh-keygen -y -f <private key> > <private key>.pub")
	}
	return PublicKeyInfo{
		Type:        pub.Type(),
		Fingerprint: ssh.FingerprintSHA256(pub),
		Comment:     comment,
	}, nil
}

// GenerateKey runs ssh-keygen attached to the terminal so the user can set
// a passphrase. The key is labelled with comment (normally an email).
func GenerateKey(ctx context.Context, gw shell.Gateway, k KeyPair, keyType, comment string) error {
	if k.Exists() {
		return errors.New(errors.ErrGeneration,
			fmt.Sprintf("Key already exists at %s", k.Path),
			"Keep it, or choose replace to move it aside first")
	}

	args := []string{"-t", keyType, "-C", comment, "-f", k.Path}
	if keyType == "rsa" {
		args = append(args, "-b", "4096")
	}

	res := gw.RunInteractive(ctx, "ssh-keygen", args...)
	if !res.Success || !k.Exists() || !k.HasPublic() {
		return errors.New(errors.ErrGeneration,
			"SSH key generation didn't produce a key pair",
			"Try it by hand: "+shell.CommandLine("ssh-keygen", args...))
	}
	return nil
}

// AddToAgent loads the private key into ssh-agent. On macOS the passphrase
// is also stored in the login keychain.
func AddToAgent(ctx context.Context, gw shell.Gateway, w *workstation.Workstation, k KeyPair) bool {
	args := []string{k.Path}
	if w.IsDarwin() {
		args = []string{"--apple-use-keychain", k.Path}
	}
	return gw.RunInteractive(ctx, "ssh-add", args...).Success
}

// TestAuth runs ssh -T git@<host> and reports whether the host greeted us
// as an authenticated user. ssh -T exits 1 even on success, so the
// output is what counts.
func TestAuth(ctx context.Context, gw shell.Gateway, host string) (bool, string) {
	res := gw.Run(ctx, "ssh", "-T",
		"-o", "StrictHostKeyChecking=accept-new",
		"-o", "BatchMode=yes",
		"git@"+host)
	out := res.Output()
	return strings.Contains(out, AuthSuccessPhrase), out
}
