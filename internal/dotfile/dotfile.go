// Package dotfile makes idempotent edits to small configuration files.
//
// A ManagedFile pairs a target path with a marker substring and a content
// block. The marker's presence anywhere in the file means the block is
// already there; nothing about the file's structure is parsed. Ensure either
// creates the file, appends the block, or leaves the file alone, so running
// it any number of times converges on the same bytes.
package dotfile

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/aymanbagabas/go-udiff"
	"github.com/rileyhilliard/gitsetup/internal/errors"
)

// Match controls how the marker is compared against file content.
type Match int

const (
	// MatchExact requires the marker byte for byte.
	MatchExact Match = iota
	// MatchFold compares case-insensitively. Used where the marker is a
	// hostname the user may have typed in any case.
	MatchFold
)

// DefaultMode is applied to created files when ManagedFile.Mode is zero.
const DefaultMode fs.FileMode = 0o644

// Outcome is what Ensure did.
type Outcome int

const (
	Created Outcome = iota
	AlreadyPresent
	Appended
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyPresent:
		return "already present"
	case Appended:
		return "appended"
	default:
		return "unknown"
	}
}

// ManagedFile describes one file and the block it must contain.
type ManagedFile struct {
	Path   string
	Mode   fs.FileMode // applied on create; zero means DefaultMode
	Marker string
	Block  string
	Match  Match
}

// contains reports whether content carries the marker under f's match mode.
func (f ManagedFile) contains(content string) bool {
	if f.Match == MatchFold {
		return strings.Contains(strings.ToLower(content), strings.ToLower(f.Marker))
	}
	return strings.Contains(content, f.Marker)
}

func (f ManagedFile) validate() error {
	if f.Path == "" || f.Marker == "" {
		return errors.New(errors.ErrConfig,
			"Managed file needs both a path and a marker",
			"")
	}
	if !f.contains(f.Block) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Block for %s doesn't contain its marker %q", f.Path, f.Marker),
			"Without the marker every run would append the block again")
	}
	return nil
}

// Ensure makes sure f.Path contains f.Marker, writing f.Block if it doesn't.
//
//   - missing file: written with the block's leading whitespace stripped,
//     then chmod'ed to the requested mode
//   - marker present: untouched
//   - marker absent: block appended verbatim, existing bytes preserved
func Ensure(f ManagedFile) (Outcome, error) {
	if err := f.validate(); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(f.Path)
	switch {
	case os.IsNotExist(err):
		if err := create(f); err != nil {
			return 0, err
		}
		return Created, nil
	case err != nil:
		return 0, errors.WrapWithCode(err, errors.ErrFilesystem,
			"Couldn't read "+f.Path,
			"Check the file's permissions")
	}

	if f.contains(string(data)) {
		return AlreadyPresent, nil
	}
	if err := appendBlock(f); err != nil {
		return 0, err
	}
	return Appended, nil
}

// Configured reports whether f.Path exists and carries the marker.
// A missing file is not an error.
func Configured(f ManagedFile) (bool, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.WrapWithCode(err, errors.ErrFilesystem,
			"Couldn't read "+f.Path,
			"Check the file's permissions")
	}
	return f.contains(string(data)), nil
}

// Preview returns a unified diff of what Ensure would change, or "" when the
// file is already configured.
func Preview(f ManagedFile) (string, error) {
	if err := f.validate(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.WrapWithCode(err, errors.ErrFilesystem,
			"Couldn't read "+f.Path, "")
	}
	before := string(data)

	var after string
	switch {
	case os.IsNotExist(err):
		after = strings.TrimLeftFunc(f.Block, unicode.IsSpace)
	case f.contains(before):
		return "", nil
	default:
		after = before + f.Block
	}

	return udiff.Unified(f.Path, f.Path, before, after), nil
}

// Backup renames path to path.bak.<unix seconds> and returns the new name.
func Backup(path string, now time.Time) (string, error) {
	dest := fmt.Sprintf("%s.bak.%d", path, now.Unix())
	if err := os.Rename(path, dest); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrFilesystem,
			"Couldn't back up "+path,
			"Move it aside by hand and run again")
	}
	return dest, nil
}

// EnsureDir creates dir and its parents with mode if it doesn't exist.
func EnsureDir(dir string, mode fs.FileMode) error {
	if err := os.MkdirAll(dir, mode); err != nil {
		return errors.WrapWithCode(err, errors.ErrFilesystem,
			"Couldn't create "+dir,
			"Check permissions on the parent directory")
	}
	return nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func create(f ManagedFile) error {
	mode := f.Mode
	if mode == 0 {
		mode = DefaultMode
	}

	if err := EnsureDir(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}

	content := strings.TrimLeftFunc(f.Block, unicode.IsSpace)
	if err := os.WriteFile(f.Path, []byte(content), mode); err != nil {
		return errors.WrapWithCode(err, errors.ErrFilesystem,
			"Couldn't create "+f.Path,
			"Check permissions on "+filepath.Dir(f.Path))
	}
	// WriteFile's mode is filtered by umask
	if err := os.Chmod(f.Path, mode); err != nil {
		return errors.WrapWithCode(err, errors.ErrFilesystem,
			fmt.Sprintf("Couldn't set permissions %o on %s", mode, f.Path),
			fmt.Sprintf("Fix it by hand: chmod %o %s", mode, f.Path))
	}
	return nil
}

func appendBlock(f ManagedFile) error {
	fh, err := os.OpenFile(f.Path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrFilesystem,
			"Couldn't open "+f.Path+" for writing",
			"Check the file's permissions")
	}

	if _, err := fh.WriteString(f.Block); err != nil {
		fh.Close()
		return errors.WrapWithCode(err, errors.ErrFilesystem,
			"Couldn't append to "+f.Path,
			"Check free disk space and permissions")
	}
	if err := fh.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrFilesystem,
			"Couldn't finish writing "+f.Path, "")
	}
	return nil
}
