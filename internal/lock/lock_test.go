package lock

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLockInfo(t *testing.T) {
	info := NewLockInfo("gitsetup")

	assert.NotEmpty(t, info.User)
	assert.NotEmpty(t, info.Hostname)
	assert.Equal(t, os.Getpid(), info.PID)
	assert.Equal(t, "gitsetup", info.Command)
	assert.WithinDuration(t, time.Now(), info.Started, time.Second)
}

func TestLockInfo_Age(t *testing.T) {
	info := &LockInfo{Started: time.Now().Add(-5 * time.Minute)}

	assert.InDelta(t, (5 * time.Minute).Seconds(), info.Age().Seconds(), 1)
}

func TestLockInfo_MarshalRoundTrip(t *testing.T) {
	info := &LockInfo{
		User:     "ada",
		Hostname: "macbook",
		Started:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		PID:      12345,
		Command:  "gitsetup",
	}

	data, err := info.Marshal()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "ada", raw["user"])
	assert.Equal(t, float64(12345), raw["pid"])

	back, err := ParseLockInfo(data)
	require.NoError(t, err)
	assert.Equal(t, info.User, back.User)
	assert.Equal(t, info.PID, back.PID)
	assert.True(t, info.Started.Equal(back.Started))
}

func TestParseLockInfo_Invalid(t *testing.T) {
	_, err := ParseLockInfo([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseLockInfo(nil)
	assert.Error(t, err)
}

func TestLockInfo_String(t *testing.T) {
	info := &LockInfo{User: "ada", Hostname: "macbook", PID: 4242}
	assert.Equal(t, "ada@macbook (pid 4242)", info.String())
}

func TestAcquire(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gitsetup", "run.lock")

	l, err := Acquire(dir, time.Hour, "gitsetup")
	require.NoError(t, err)
	assert.Equal(t, dir, l.Dir)

	data, err := os.ReadFile(filepath.Join(dir, "info.json"))
	require.NoError(t, err)
	info, err := ParseLockInfo(data)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), info.PID)

	require.NoError(t, l.Release())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestAcquire_Held(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run.lock")
	first, err := Acquire(dir, time.Hour, "gitsetup")
	require.NoError(t, err)
	defer first.Release()

	second, err := Acquire(dir, time.Hour, "gitsetup")

	assert.Nil(t, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked))
	assert.Contains(t, err.Error(), first.Info.String())
	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr, "the holder's lock is untouched")
}

func TestAcquire_StaleLockReplaced(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run.lock")
	require.NoError(t, os.Mkdir(dir, 0o700))
	old := &LockInfo{User: "ada", Hostname: "macbook", PID: 1, Started: time.Now().Add(-2 * time.Hour)}
	data, err := old.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.json"), data, 0o600))

	l, err := Acquire(dir, time.Hour, "gitsetup")

	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), l.Info.PID)
	assert.Equal(t, l.Info.String(), Holder(dir))
}

func TestAcquire_NeverStaleWithZeroThreshold(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run.lock")
	require.NoError(t, os.Mkdir(dir, 0o700))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(dir, past, past))

	_, err := Acquire(dir, 0, "gitsetup")

	assert.True(t, errors.Is(err, ErrLocked))
}

func TestAcquire_StaleByMtimeWithoutInfo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run.lock")
	require.NoError(t, os.Mkdir(dir, 0o700))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(dir, past, past))

	l, err := Acquire(dir, time.Hour, "gitsetup")

	require.NoError(t, err)
	defer l.Release()
}

func TestHolder(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "unknown", Holder(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.json"), []byte(" garbage \n"), 0o600))
	assert.Equal(t, "garbage", Holder(dir))
}

func TestLock_ReleaseNil(t *testing.T) {
	var l *Lock
	assert.NoError(t, l.Release())
}
