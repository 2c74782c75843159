// Package doctor holds the read-only checks behind the wizard's final
// verification report and the `gitsetup doctor` command.
package doctor

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/gitsetup/internal/ui"
)

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status as its string form for --json output.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the form MarshalText writes.
func (s *CheckStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pass":
		*s = StatusPass
	case "warn":
		*s = StatusWarn
	case "fail":
		*s = StatusFail
	default:
		return fmt.Errorf("unknown check status %q", text)
	}
	return nil
}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Label      string      `json:"label"`
	Value      string      `json:"value"`
	Status     CheckStatus `json:"status"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Passed reports whether the check did not fail. A warning still passes.
func (r CheckResult) Passed() bool {
	return r.Status != StatusFail
}

// Check defines the interface for diagnostic checks.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Category groups checks in the doctor output (e.g. "SSH", "SIGNING").
	Category() string

	// Run executes the check. Checks never mutate anything.
	Run(ctx context.Context) CheckResult
}

// RunAll executes checks in order and returns the results.
func RunAll(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	for i, check := range checks {
		results[i] = check.Run(ctx)
	}
	return results
}

// CountByStatus counts results by status.
func CountByStatus(results []CheckResult) map[CheckStatus]int {
	counts := make(map[CheckStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// HasFailures returns true if any result has a fail status.
func HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// AllPassed is the report's verdict: no result failed.
func AllPassed(results []CheckResult) bool {
	return len(results) > 0 && !HasFailures(results)
}

// Summary returns a summary string of the check results.
func Summary(results []CheckResult) string {
	counts := CountByStatus(results)
	warn := counts[StatusWarn]
	fail := counts[StatusFail]

	if fail == 0 && warn == 0 {
		return "Everything looks good"
	}

	total := warn + fail
	return fmt.Sprintf("%d issue%s found", total, pluralize(total))
}

// Rows converts results for ui.RenderCheckTable.
func Rows(results []CheckResult) []ui.CheckRow {
	rows := make([]ui.CheckRow, len(results))
	for i, r := range results {
		rows[i] = ui.CheckRow{
			Status:     r.Status.String(),
			Label:      r.Label,
			Value:      r.Value,
			Suggestion: r.Suggestion,
		}
	}
	return rows
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
