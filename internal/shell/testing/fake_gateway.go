// Package testing provides test doubles for the shell package.
package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/rileyhilliard/gitsetup/internal/shell"
)

// Call records one command the fake received.
type Call struct {
	Name        string
	Args        []string
	Input       string
	Interactive bool
	Line        string // rendered with shell.CommandLine
}

type rule struct {
	prefix  string
	results []shell.Result
	fn      func(Call) shell.Result
}

// FakeGateway scripts command results by command-line prefix.
// Unmatched commands fail, mirroring a tool that is not installed.
type FakeGateway struct {
	mu    sync.Mutex
	rules []*rule
	tools map[string]bool

	Calls []Call
}

// NewFakeGateway returns an empty fake with no tools on PATH.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{tools: make(map[string]bool)}
}

// WithTools marks names as present on PATH.
func (f *FakeGateway) WithTools(names ...string) *FakeGateway {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.tools[n] = true
	}
	return f
}

// SetTool sets PATH presence for name.
func (f *FakeGateway) SetTool(name string, present bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tools[name] = present
}

// On queues results for commands whose rendered line starts with prefix.
// The last queued result repeats once the queue drains.
func (f *FakeGateway) On(prefix string, results ...shell.Result) *FakeGateway {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, &rule{prefix: prefix, results: results})
	return f
}

// OnFunc computes the result for matching commands, typically to simulate
// side effects such as a tool writing a key file.
func (f *FakeGateway) OnFunc(prefix string, fn func(Call) shell.Result) *FakeGateway {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, &rule{prefix: prefix, fn: fn})
	return f
}

// OK is a successful result with the given stdout.
func OK(stdout string) shell.Result {
	return shell.Result{Stdout: stdout, Success: true}
}

// Fail is an unsuccessful result.
func Fail() shell.Result {
	return shell.Result{}
}

func (f *FakeGateway) Run(ctx context.Context, name string, args ...string) shell.Result {
	return f.dispatch(ctx, Call{Name: name, Args: args})
}

func (f *FakeGateway) RunInput(ctx context.Context, input string, name string, args ...string) shell.Result {
	return f.dispatch(ctx, Call{Name: name, Args: args, Input: input})
}

func (f *FakeGateway) RunTerminal(ctx context.Context, name string, args ...string) shell.Result {
	return f.dispatch(ctx, Call{Name: name, Args: args})
}

func (f *FakeGateway) RunInteractive(ctx context.Context, name string, args ...string) shell.Result {
	return f.dispatch(ctx, Call{Name: name, Args: args, Interactive: true})
}

func (f *FakeGateway) Exists(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tools[name]
}

// Ran reports whether any recorded command line starts with prefix.
func (f *FakeGateway) Ran(prefix string) bool {
	return len(f.CallsMatching(prefix)) > 0
}

// CallsMatching returns recorded calls whose line starts with prefix.
func (f *FakeGateway) CallsMatching(prefix string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if strings.HasPrefix(c.Line, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeGateway) dispatch(ctx context.Context, call Call) shell.Result {
	call.Line = shell.CommandLine(call.Name, call.Args...)

	f.mu.Lock()
	f.Calls = append(f.Calls, call)
	if ctx.Err() != nil {
		f.mu.Unlock()
		return shell.Result{}
	}
	r := f.match(call.Line)
	if r == nil {
		f.mu.Unlock()
		return shell.Result{}
	}
	if r.fn != nil {
		fn := r.fn
		f.mu.Unlock()
		return fn(call)
	}
	res := r.results[0]
	if len(r.results) > 1 {
		r.results = r.results[1:]
	}
	f.mu.Unlock()
	return res
}

// match picks the longest matching prefix so specific rules beat general ones.
func (f *FakeGateway) match(line string) *rule {
	var best *rule
	for _, r := range f.rules {
		if !strings.HasPrefix(line, r.prefix) {
			continue
		}
		if r.fn == nil && len(r.results) == 0 {
			continue
		}
		if best == nil || len(r.prefix) > len(best.prefix) {
			best = r
		}
	}
	return best
}

var _ shell.Gateway = (*FakeGateway)(nil)
