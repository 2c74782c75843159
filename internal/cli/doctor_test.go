package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/gitsetup/internal/config"
	"github.com/rileyhilliard/gitsetup/internal/doctor"
	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/logger"
	shelltest "github.com/rileyhilliard/gitsetup/internal/shell/testing"
	"github.com/rileyhilliard/gitsetup/internal/workstation"
)

type mockCheck struct {
	name     string
	category string
	result   doctor.CheckResult
}

func (m *mockCheck) Name() string     { return m.name }
func (m *mockCheck) Category() string { return m.category }
func (m *mockCheck) Run(context.Context) doctor.CheckResult {
	r := m.result
	r.Name = m.name
	return r
}

func check(category, label string, status doctor.CheckStatus) *mockCheck {
	return &mockCheck{
		name:     label,
		category: category,
		result:   doctor.CheckResult{Label: label, Status: status, Value: "v-" + label},
	}
}

func TestRunDoctor_Text(t *testing.T) {
	checks := []doctor.Check{
		check("SIGNING", "Auto-sign", doctor.StatusPass),
		check("TOOLS", "git", doctor.StatusPass),
		check("SSH", "SSH key", doctor.StatusPass),
	}

	var buf bytes.Buffer
	err := runDoctor(context.Background(), &buf, checks, false)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Everything looks good")
	tools := bytes.Index(buf.Bytes(), []byte("TOOLS"))
	ssh := bytes.Index(buf.Bytes(), []byte("SSH\n"))
	signing := bytes.Index(buf.Bytes(), []byte("SIGNING"))
	assert.True(t, tools < ssh && ssh < signing, "categories in display order:\n%s", out)
	assert.Contains(t, out, "(v-git)")
}

func TestRunDoctor_FailuresExitOne(t *testing.T) {
	failing := check("SIGNING", "Auto-sign", doctor.StatusFail)
	failing.result.Suggestion = "git config --global commit.gpgsign true"
	checks := []doctor.Check{
		check("SSH", "SSH key", doctor.StatusPass),
		check("SSH", "SSH config", doctor.StatusWarn),
		failing,
	}

	var buf bytes.Buffer
	err := runDoctor(context.Background(), &buf, checks, false)

	code, ok := errors.GetExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, ExitCode(err))
	out := buf.String()
	assert.Contains(t, out, "2 issues found")
	assert.Contains(t, out, "git config --global commit.gpgsign true")
}

func TestRunDoctor_WarningsStillPass(t *testing.T) {
	checks := []doctor.Check{
		check("SSH", "SSH config", doctor.StatusWarn),
	}

	var buf bytes.Buffer
	assert.NoError(t, runDoctor(context.Background(), &buf, checks, false))
	assert.Contains(t, buf.String(), "1 issue found")
}

func TestRunDoctor_JSON(t *testing.T) {
	checks := []doctor.Check{
		check("SSH", "SSH key", doctor.StatusPass),
		check("CUSTOM", "extra", doctor.StatusPass),
		check("TOOLS", "git", doctor.StatusPass),
	}

	var buf bytes.Buffer
	require.NoError(t, runDoctor(context.Background(), &buf, checks, true))

	var env struct {
		Success bool         `json:"success"`
		Data    DoctorOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	require.Len(t, env.Data.Categories, 3)
	assert.Equal(t, "TOOLS", env.Data.Categories[0].Name)
	assert.Equal(t, "SSH", env.Data.Categories[1].Name)
	assert.Equal(t, "CUSTOM", env.Data.Categories[2].Name, "unknown categories go last")
	assert.Equal(t, SummaryOutput{Pass: 3, AllClear: true}, env.Data.Summary)
	assert.Contains(t, buf.String(), `"status": "pass"`)
}

func TestRunDoctor_JSONWithFailures(t *testing.T) {
	checks := []doctor.Check{check("SSH", "SSH key", doctor.StatusFail)}

	var buf bytes.Buffer
	err := runDoctor(context.Background(), &buf, checks, true)

	assert.Equal(t, 1, ExitCode(err))
	env := decodeEnvelope(t, &buf)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeChecksFailed, env.Error.Code)
}

func TestRunDoctor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := runDoctor(ctx, &buf, []doctor.Check{check("SSH", "SSH key", doctor.StatusPass)}, false)

	assert.True(t, errors.IsCode(err, errors.ErrCancelled))
	assert.Empty(t, buf.String())
}

func TestDoctorEnv_AllChecksOnFreshMachine(t *testing.T) {
	home := t.TempDir()
	s := config.DefaultSettings()
	s.SSH.Dir = filepath.Join(home, ".ssh")
	s.GPG.Dir = filepath.Join(home, ".gnupg")
	sys := workstation.System{
		GOOS:     "darwin",
		Home:     home,
		Getenv:   func(string) string { return "/bin/zsh" },
		Exists:   func(string) bool { return false },
		LookPath: func(string) (string, error) { return "", os.ErrNotExist },
	}
	gw := shelltest.NewFakeGateway().WithTools("git", "ssh-keygen", "gpg")

	env := doctorEnv(s, sys, gw, logger.Noop())
	var buf bytes.Buffer
	err := runDoctor(context.Background(), &buf, doctor.AllChecks(env), false)

	assert.Equal(t, 1, ExitCode(err), "nothing configured yet")
	out := buf.String()
	assert.Contains(t, out, "TOOLS")
	assert.Contains(t, out, "SIGNING")
	assert.Contains(t, out, "Run gitsetup to fix what's missing.")
}
