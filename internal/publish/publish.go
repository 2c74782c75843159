// Package publish hands generated public material to the user for upload:
// the text goes to the clipboard and the upload page opens in the browser.
// Both are conveniences; failures are reported and never stop the wizard.
package publish

import (
	"io"

	"github.com/atotto/clipboard"
	"github.com/cli/browser"

	"github.com/rileyhilliard/gitsetup/internal/errors"
)

// Publisher copies text and opens URLs.
type Publisher interface {
	Copy(text string) error
	Open(url string) error
}

// Desktop uses the system clipboard and default browser.
type Desktop struct{}

// NewDesktop returns the system Publisher. Browser launcher chatter is
// discarded so it does not interleave with wizard output.
func NewDesktop() *Desktop {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &Desktop{}
}

// Copy places text on the clipboard.
func (Desktop) Copy(text string) error {
	if clipboard.Unsupported {
		return errors.New(errors.ErrTool,
			"No clipboard utility available",
			"Copy the text shown above by hand")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errors.WrapWithCode(err, errors.ErrTool,
			"Couldn't copy to the clipboard",
			"Copy the text shown above by hand")
	}
	return nil
}

// Open launches url in the default browser.
func (Desktop) Open(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return errors.WrapWithCode(err, errors.ErrTool,
			"Couldn't open the browser",
			"Visit "+url+" yourself")
	}
	return nil
}

// Recorder is a Publisher that remembers what it was given. Tests use it,
// and so does a headless run where neither clipboard nor browser exists.
type Recorder struct {
	Copied  []string
	Opened  []string
	CopyErr error
	OpenErr error
}

// Copy implements Publisher.
func (r *Recorder) Copy(text string) error {
	r.Copied = append(r.Copied, text)
	return r.CopyErr
}

// Open implements Publisher.
func (r *Recorder) Open(url string) error {
	r.Opened = append(r.Opened, url)
	return r.OpenErr
}
