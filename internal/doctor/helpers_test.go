package doctor

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/rileyhilliard/gitsetup/internal/config"
	"github.com/rileyhilliard/gitsetup/internal/workstation"
)

func testWorkstation(t *testing.T) *workstation.Workstation {
	t.Helper()
	home := t.TempDir()
	s := config.DefaultSettings()
	s.SSH.Dir = filepath.Join(home, ".ssh")
	s.GPG.Dir = filepath.Join(home, ".gnupg")
	return workstation.Detect(s, workstation.System{
		GOOS:     "darwin",
		Home:     home,
		Getenv:   func(string) string { return "/bin/zsh" },
		Exists:   func(string) bool { return false },
		LookPath: func(string) (string, error) { return "", os.ErrNotExist },
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func writePublicKey(t *testing.T, w *workstation.Workstation) ssh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	key, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	writeFile(t, w.SSHPubPath(), string(ssh.MarshalAuthorizedKey(key)))
	return key
}
