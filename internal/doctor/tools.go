package doctor

import (
	"context"
	"path/filepath"

	"github.com/rileyhilliard/gitsetup/internal/shell"
)

// ToolCheck verifies an external program is on PATH.
type ToolCheck struct {
	Gateway  shell.Gateway
	Tool     string
	Label    string // defaults to Tool
	Hint     string // install advice
	Optional bool   // missing is a warning, not a failure
}

func (c *ToolCheck) Name() string     { return "tool_" + filepath.Base(c.Tool) }
func (c *ToolCheck) Category() string { return "TOOLS" }

func (c *ToolCheck) Run(_ context.Context) CheckResult {
	r := CheckResult{Name: c.Name(), Label: c.Label}
	if r.Label == "" {
		r.Label = c.Tool
	}
	if c.Gateway.Exists(c.Tool) {
		r.Status = StatusPass
		r.Value = "installed"
		return r
	}

	r.Value = "not found"
	r.Suggestion = c.Hint
	r.Status = StatusFail
	if c.Optional {
		r.Status = StatusWarn
	}
	return r
}
