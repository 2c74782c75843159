// Package gpg drives the gpg and gpgconf command line tools to find, create,
// and export a commit-signing key. All invocations go through a shell.Gateway.
package gpg

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/logger"
	"github.com/rileyhilliard/gitsetup/internal/shell"
)

// SignedMessageHeader marks successful clearsign output.
const SignedMessageHeader = "BEGIN PGP SIGNED MESSAGE"

// Handle identifies a secret key in the user's keyring.
type Handle struct {
	KeyID string
	Name  string
	Email string
}

// UserID renders the "Name <email>" form gpg expects.
func (h Handle) UserID() string {
	return fmt.Sprintf("%s <%s>", h.Name, h.Email)
}

// KeySpec describes the key to generate.
type KeySpec struct {
	Algo       string // primary key algorithm, e.g. ed25519
	SubkeyAlgo string // encryption subkey algorithm, e.g. cv25519
	Expiry     string // e.g. 3y
}

// Tool wraps gpg and gpgconf.
type Tool struct {
	gw      shell.Gateway
	program string
	log     logger.Logger
}

// New returns a Tool that invokes program (normally "gpg").
func New(gw shell.Gateway, program string, log logger.Logger) *Tool {
	if program == "" {
		program = "gpg"
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Tool{gw: gw, program: program, log: log}
}

// Program returns the gpg binary name used for git's gpg.program.
func (t *Tool) Program() string {
	return t.program
}

// Available reports whether the gpg binary is on PATH.
func (t *Tool) Available() bool {
	return t.gw.Exists(t.program)
}

// ListSecretKeys returns the long-format secret key listing for email.
// Empty when gpg fails or has no matching key.
func (t *Tool) ListSecretKeys(ctx context.Context, email string) string {
	res := t.gw.Run(ctx, t.program, "--list-secret-keys", "--keyid-format", "LONG", email)
	return res.Stdout
}

// HasSecretKey reports whether the keyring holds the secret half of keyID.
func (t *Tool) HasSecretKey(ctx context.Context, keyID string) bool {
	return t.gw.Run(ctx, t.program, "--list-secret-keys", keyID).Success
}

// FindKey looks up an existing secret key for the given identity.
func (t *Tool) FindKey(ctx context.Context, name, email string) *Handle {
	id, ok := ExtractKeyID(t.ListSecretKeys(ctx, email))
	if !ok {
		return nil
	}
	return &Handle{KeyID: id, Name: name, Email: email}
}

// Generate creates a signing key for the identity. It tries unattended
// generation first and falls back to gpg's interactive flow. Only a key
// that was not in the keyring before counts, so declining an existing key
// never hands it back. On success an encryption subkey is added; a failure
// there is logged but not fatal.
func (t *Tool) Generate(ctx context.Context, name, email string, spec KeySpec) (*Handle, error) {
	before := make(map[string]bool)
	for _, id := range ExtractKeyIDs(t.ListSecretKeys(ctx, email)) {
		before[id] = true
	}

	uid := Handle{Name: name, Email: email}.UserID()
	res := t.gw.Run(ctx, t.program,
		"--batch", "--passphrase", "",
		"--quick-gen-key", uid, spec.Algo, "sign", spec.Expiry)
	if !res.Success {
		t.log.Debug("unattended key generation failed, falling back to --full-generate-key")
		t.gw.RunInteractive(ctx, t.program, "--full-generate-key")
	}

	var h *Handle
	for _, id := range ExtractKeyIDs(t.ListSecretKeys(ctx, email)) {
		if !before[id] {
			h = &Handle{KeyID: id, Name: name, Email: email}
			break
		}
	}
	if h == nil {
		return nil, errors.New(errors.ErrGeneration,
			"GPG key generation didn't produce a key for "+email,
			"Try generating one by hand: "+shell.CommandLine(t.program, "--full-generate-key"))
	}

	if spec.SubkeyAlgo != "" {
		sub := t.gw.Run(ctx, t.program,
			"--batch", "--passphrase", "",
			"--quick-add-key", h.KeyID, spec.SubkeyAlgo, "encr", spec.Expiry)
		if !sub.Success {
			t.log.Warn("couldn't add %s encryption subkey to %s", spec.SubkeyAlgo, h.KeyID)
		}
	}

	return h, nil
}

// ExportArmored returns the ASCII-armored public key.
func (t *Tool) ExportArmored(ctx context.Context, keyID string) (string, bool) {
	res := t.gw.Run(ctx, t.program, "--armor", "--export", keyID)
	if !res.Success || !strings.Contains(res.Stdout, "BEGIN PGP PUBLIC KEY BLOCK") {
		return "", false
	}
	return res.Stdout, true
}

// KillAgent stops gpg-agent so it rereads gpg-agent.conf on next use.
func (t *Tool) KillAgent(ctx context.Context) bool {
	return t.gw.Run(ctx, "gpgconf", "--kill", "gpg-agent").Success
}

// RestartAgent kills and relaunches gpg-agent.
func (t *Tool) RestartAgent(ctx context.Context) bool {
	t.KillAgent(ctx)
	return t.gw.Run(ctx, "gpgconf", "--launch", "gpg-agent").Success
}

// CanSign clearsigns a short message and reports whether gpg produced a
// signed block. This exercises the agent and pinentry end to end.
func (t *Tool) CanSign(ctx context.Context) bool {
	res := t.gw.RunInput(ctx, "test\n", t.program, "--clearsign")
	return res.Success && strings.Contains(res.Stdout, SignedMessageHeader)
}
