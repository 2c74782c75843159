package gpg

import (
	"context"
	"testing"

	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/logger"
	"github.com/rileyhilliard/gitsetup/internal/shell"
	shelltest "github.com/rileyhilliard/gitsetup/internal/shell/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spec = KeySpec{Algo: "ed25519", SubkeyAlgo: "cv25519", Expiry: "3y"}

func TestTool_FindKey(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		gw := shelltest.NewFakeGateway().
			On("gpg --list-secret-keys --keyid-format LONG ada@example.com", shelltest.OK(listing))

		h := New(gw, "", nil).FindKey(ctx, "Ada", "ada@example.com")

		require.NotNil(t, h)
		assert.Equal(t, "2BA6DADD4FB95F14", h.KeyID)
		assert.Equal(t, "Ada <ada@example.com>", h.UserID())
	})

	t.Run("gpg fails", func(t *testing.T) {
		gw := shelltest.NewFakeGateway()
		assert.Nil(t, New(gw, "gpg", nil).FindKey(ctx, "Ada", "ada@example.com"))
	})
}

func TestTool_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("unattended generation", func(t *testing.T) {
		gw := shelltest.NewFakeGateway().
			On("gpg --batch --passphrase '' --quick-gen-key 'Ada <ada@example.com>' ed25519 sign 3y", shelltest.OK("")).
			On("gpg --list-secret-keys", shelltest.OK(""), shelltest.OK(listing)).
			On("gpg --batch --passphrase '' --quick-add-key 2BA6DADD4FB95F14 cv25519 encr 3y", shelltest.OK(""))

		h, err := New(gw, "gpg", nil).Generate(ctx, "Ada", "ada@example.com", spec)

		require.NoError(t, err)
		assert.Equal(t, "2BA6DADD4FB95F14", h.KeyID)
		assert.False(t, gw.Ran("gpg --full-generate-key"))
		assert.True(t, gw.Ran("gpg --batch --passphrase '' --quick-add-key"))
	})

	t.Run("falls back to interactive generation", func(t *testing.T) {
		gw := shelltest.NewFakeGateway().
			On("gpg --batch", shelltest.Fail()).
			On("gpg --full-generate-key", shelltest.OK("")).
			On("gpg --list-secret-keys", shelltest.OK(""), shelltest.OK(listing)).
			On("gpg --batch --passphrase '' --quick-add-key", shelltest.OK(""))

		h, err := New(gw, "gpg", nil).Generate(ctx, "Ada", "ada@example.com", spec)

		require.NoError(t, err)
		assert.Equal(t, "2BA6DADD4FB95F14", h.KeyID)
		calls := gw.CallsMatching("gpg --full-generate-key")
		require.Len(t, calls, 1)
		assert.True(t, calls[0].Interactive)

		// The subkey is added unattended even when the primary key was not.
		sub := gw.CallsMatching("gpg --batch --passphrase '' --quick-add-key 2BA6DADD4FB95F14 cv25519 encr 3y")
		require.Len(t, sub, 1)
		assert.False(t, sub[0].Interactive)
	})

	t.Run("no key afterwards is a generation failure", func(t *testing.T) {
		gw := shelltest.NewFakeGateway().
			On("gpg --batch", shelltest.OK("")).
			On("gpg --list-secret-keys", shelltest.OK("gpg: error reading key: No secret key"))

		h, err := New(gw, "gpg", nil).Generate(ctx, "Ada", "ada@example.com", spec)

		assert.Nil(t, h)
		assert.True(t, errors.IsCode(err, errors.ErrGeneration))
		assert.False(t, gw.Ran("gpg --batch --passphrase '' --quick-add-key"), "no subkey without a primary key")
	})

	t.Run("an existing key is not mistaken for the new one", func(t *testing.T) {
		gw := shelltest.NewFakeGateway().
			On("gpg --batch", shelltest.Fail()).
			On("gpg --full-generate-key", shelltest.Fail()).
			On("gpg --list-secret-keys", shelltest.OK(listing))

		h, err := New(gw, "gpg", nil).Generate(ctx, "Ada", "ada@example.com", spec)

		assert.Nil(t, h)
		assert.True(t, errors.IsCode(err, errors.ErrGeneration))
	})

	t.Run("new key listed after the old one", func(t *testing.T) {
		old := "sec   ed25519/1111111111111111 2020-01-01 [SC]\n"
		both := old + "sec   ed25519/2222222222222222 2024-01-01 [SC]\n"
		gw := shelltest.NewFakeGateway().
			On("gpg --batch", shelltest.OK("")).
			On("gpg --list-secret-keys", shelltest.OK(old), shelltest.OK(both))

		h, err := New(gw, "gpg", nil).Generate(ctx, "Ada", "ada@example.com", spec)

		require.NoError(t, err)
		assert.Equal(t, "2222222222222222", h.KeyID)
	})

	t.Run("subkey failure is only logged", func(t *testing.T) {
		log := logger.NewBufferLogger()
		gw := shelltest.NewFakeGateway().
			On("gpg --batch", shelltest.OK("")).
			On("gpg --batch --passphrase '' --quick-add-key", shelltest.Fail()).
			On("gpg --list-secret-keys", shelltest.OK(""), shelltest.OK(listing))

		h, err := New(gw, "gpg", log).Generate(ctx, "Ada", "ada@example.com", spec)

		require.NoError(t, err)
		assert.NotNil(t, h)
		assert.True(t, log.HasLevel("warn"))
	})
}

func TestTool_ExportArmored(t *testing.T) {
	ctx := context.Background()
	armored := "-----BEGIN PGP PUBLIC KEY BLOCK-----\n\nmDMEZ...\n-----END PGP PUBLIC KEY BLOCK-----"

	gw := shelltest.NewFakeGateway().On("gpg --armor --export ABCDEF0123456789", shelltest.OK(armored))
	out, ok := New(gw, "gpg", nil).ExportArmored(ctx, "ABCDEF0123456789")
	assert.True(t, ok)
	assert.Equal(t, armored, out)

	gw = shelltest.NewFakeGateway().On("gpg --armor --export", shelltest.OK(""))
	_, ok = New(gw, "gpg", nil).ExportArmored(ctx, "ABCDEF0123456789")
	assert.False(t, ok, "gpg prints nothing for unknown keys")
}

func TestTool_CanSign(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		res  shell.Result
		want bool
	}{
		{"signed", shelltest.OK("-----BEGIN PGP SIGNED MESSAGE-----\nHash: SHA512\n\ntest"), true},
		{"success without signature", shelltest.OK("test"), false},
		{"failure", shelltest.Fail(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := shelltest.NewFakeGateway().On("gpg --clearsign", tt.res)
			assert.Equal(t, tt.want, New(gw, "gpg", nil).CanSign(ctx))

			calls := gw.CallsMatching("gpg --clearsign")
			require.Len(t, calls, 1)
			assert.Equal(t, "test\n", calls[0].Input)
		})
	}
}

func TestTool_RestartAgent(t *testing.T) {
	gw := shelltest.NewFakeGateway().On("gpgconf", shelltest.OK(""))

	assert.True(t, New(gw, "gpg", nil).RestartAgent(context.Background()))
	assert.True(t, gw.Ran("gpgconf --kill gpg-agent"))
	assert.True(t, gw.Ran("gpgconf --launch gpg-agent"))
}

func TestTool_Available(t *testing.T) {
	gw := shelltest.NewFakeGateway()
	tool := New(gw, "gpg2", nil)
	assert.False(t, tool.Available())
	assert.Equal(t, "gpg2", tool.Program())

	gw.SetTool("gpg2", true)
	assert.True(t, tool.Available())
}

func TestTool_HasSecretKey(t *testing.T) {
	ctx := context.Background()
	gw := shelltest.NewFakeGateway().
		On("gpg --list-secret-keys 2BA6DADD4FB95F14", shelltest.OK(listing))
	tool := New(gw, "gpg", nil)

	assert.True(t, tool.HasSecretKey(ctx, "2BA6DADD4FB95F14"))
	assert.False(t, tool.HasSecretKey(ctx, "DEADBEEFDEADBEEF"))
}
