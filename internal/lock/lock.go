// Package lock keeps two gitsetup runs from editing the same dotfiles at
// once. The lock is a directory: mkdir is atomic, so whoever creates it
// holds it. An info.json inside names the holder.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rileyhilliard/gitsetup/internal/errors"
)

const infoFile = "info.json"

// Lock is a held lock.
type Lock struct {
	Dir  string    // the lock directory
	Info *LockInfo // about us
}

// Acquire takes the lock at dir without waiting. A lock older than stale is
// treated as abandoned and replaced; stale <= 0 never expires a lock.
// When the lock is held the error wraps ErrLocked.
func Acquire(dir string, stale time.Duration, command string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFilesystem,
			fmt.Sprintf("Failed to create %s", filepath.Dir(dir)),
			"Check permissions on the parent directory")
	}

	info := NewLockInfo(command)
	for attempt := 0; attempt < 2; attempt++ {
		err := os.Mkdir(dir, 0o700)
		if err == nil {
			if err := writeInfo(dir, info); err != nil {
				_ = os.RemoveAll(dir)
				return nil, err
			}
			return &Lock{Dir: dir, Info: info}, nil
		}
		if !os.IsExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrFilesystem,
				fmt.Sprintf("Failed to create lock directory: %s", dir),
				"Check permissions on the parent directory")
		}

		// Only one stale removal; if it's back, someone else just took it.
		if attempt > 0 || !isStale(dir, stale) {
			break
		}
		if err := os.RemoveAll(dir); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrFilesystem,
				fmt.Sprintf("Failed to remove stale lock: %s", dir),
				"Remove it by hand: rm -rf "+dir)
		}
	}

	return nil, fmt.Errorf("%w: held by %s", ErrLocked, Holder(dir))
}

// Release removes the lock. Safe to call on nil.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return ForceRelease(l.Dir)
}

// ForceRelease removes a lock directory regardless of who holds it.
func ForceRelease(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.WrapWithCode(err, errors.ErrFilesystem,
			fmt.Sprintf("Failed to remove lock directory: %s", dir),
			"Remove it by hand: rm -rf "+dir)
	}
	return nil
}

// Holder describes who holds the lock at dir, or "unknown".
func Holder(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, infoFile))
	if err != nil {
		return "unknown"
	}
	info, err := ParseLockInfo(data)
	if err != nil {
		return strings.TrimSpace(string(data))
	}
	return info.String()
}

// isStale reports whether the lock at dir is older than threshold. A lock
// whose info can't be read is aged by the directory's mtime, which covers a
// holder that crashed between mkdir and writing info.json.
func isStale(dir string, threshold time.Duration) bool {
	if threshold <= 0 {
		return false
	}

	if data, err := os.ReadFile(filepath.Join(dir, infoFile)); err == nil {
		if info, err := ParseLockInfo(data); err == nil {
			return info.Age() > threshold
		}
	}

	st, err := os.Stat(dir)
	if err != nil {
		return false
	}
	return time.Since(st.ModTime()) > threshold
}

func writeInfo(dir string, info *LockInfo) error {
	data, err := info.Marshal()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrFilesystem,
			"Failed to serialize lock info", "")
	}
	if err := os.WriteFile(filepath.Join(dir, infoFile), data, 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrFilesystem,
			"Failed to write lock info file",
			"Check disk space and permissions on "+dir)
	}
	return nil
}
