// Package testing provides a scripted Prompter for wizard tests.
package testing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/prompt"
)

// Kind identifies the prompt type.
type Kind string

const (
	KindConfirm Kind = "confirm"
	KindInput   Kind = "input"
	KindSelect  Kind = "select"
	KindPause   Kind = "pause"
)

// Asked records one prompt shown to the fake user.
type Asked struct {
	Kind  Kind
	Title string
}

type answer struct {
	match   string
	kind    Kind
	values  []string
	err     error
	answers int
}

// FakePrompter answers prompts whose title contains a registered substring.
// Rules are tried in registration order. Queued answers are consumed in
// order and the last one repeats. Unmatched prompts take their default.
type FakePrompter struct {
	mu      sync.Mutex
	answers []*answer

	Asked []Asked
}

// NewFakePrompter returns a fake that accepts every default.
func NewFakePrompter() *FakePrompter {
	return &FakePrompter{}
}

// OnConfirm scripts answers for confirms whose title contains match.
func (f *FakePrompter) OnConfirm(match string, values ...bool) *FakePrompter {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = fmt.Sprint(v)
	}
	return f.add(&answer{match: match, kind: KindConfirm, values: s})
}

// OnInput scripts answers for inputs whose title contains match.
// Answers rejected by the prompt's validator are skipped, the way a real
// form keeps the user on the field.
func (f *FakePrompter) OnInput(match string, values ...string) *FakePrompter {
	return f.add(&answer{match: match, kind: KindInput, values: values})
}

// OnSelect scripts chosen values for selects whose title contains match.
func (f *FakePrompter) OnSelect(match string, values ...string) *FakePrompter {
	return f.add(&answer{match: match, kind: KindSelect, values: values})
}

// FailOn makes any prompt whose title contains match return err.
func (f *FakePrompter) FailOn(match string, err error) *FakePrompter {
	return f.add(&answer{match: match, err: err})
}

// CancelOn simulates Ctrl+C on the prompt whose title contains match.
func (f *FakePrompter) CancelOn(match string) *FakePrompter {
	return f.FailOn(match, errors.Cancelled())
}

// Count returns how many prompts with titles containing match were shown.
func (f *FakePrompter) Count(match string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.Asked {
		if strings.Contains(a.Title, match) {
			n++
		}
	}
	return n
}

// Confirm implements prompt.Prompter.
func (f *FakePrompter) Confirm(ctx context.Context, title string, def bool) (bool, error) {
	v, ok, err := f.next(ctx, KindConfirm, title, nil)
	if err != nil || !ok {
		return def, err
	}
	return v == "true", nil
}

// Input implements prompt.Prompter.
func (f *FakePrompter) Input(ctx context.Context, title, _ string, def string, validate func(string) error) (string, error) {
	v, ok, err := f.next(ctx, KindInput, title, validate)
	if err != nil {
		return def, err
	}
	if !ok {
		if validate != nil {
			if verr := validate(def); verr != nil {
				return def, fmt.Errorf("fake prompter: default %q for %q is invalid: %w", def, title, verr)
			}
		}
		return def, nil
	}
	return v, nil
}

// Select implements prompt.Prompter.
func (f *FakePrompter) Select(ctx context.Context, title string, options []prompt.Option, def string) (string, error) {
	v, ok, err := f.next(ctx, KindSelect, title, nil)
	if err != nil || !ok {
		return def, err
	}
	for _, o := range options {
		if o.Value == v {
			return v, nil
		}
	}
	return def, fmt.Errorf("fake prompter: %q is not an option of %q", v, title)
}

// Pause implements prompt.Prompter.
func (f *FakePrompter) Pause(ctx context.Context, message string) error {
	_, _, err := f.next(ctx, KindPause, message, nil)
	return err
}

func (f *FakePrompter) add(a *answer) *FakePrompter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, a)
	return f
}

func (f *FakePrompter) next(ctx context.Context, kind Kind, title string, validate func(string) error) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Asked = append(f.Asked, Asked{Kind: kind, Title: title})

	if ctx.Err() != nil {
		return "", false, errors.Cancelled()
	}

	for _, a := range f.answers {
		if !strings.Contains(title, a.match) {
			continue
		}
		if a.err != nil {
			return "", false, a.err
		}
		if a.kind != kind || len(a.values) == 0 {
			continue
		}
		for {
			v := a.values[min(a.answers, len(a.values)-1)]
			exhausted := a.answers >= len(a.values)-1
			a.answers++
			if validate == nil || validate(v) == nil {
				return v, true, nil
			}
			if exhausted {
				return "", false, fmt.Errorf("fake prompter: no valid answer for %q", title)
			}
		}
	}
	return "", false, nil
}
