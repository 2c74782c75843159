package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/gitsetup/internal/config"
	"github.com/rileyhilliard/gitsetup/internal/doctor"
	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/gitconfig"
	"github.com/rileyhilliard/gitsetup/internal/gpg"
	"github.com/rileyhilliard/gitsetup/internal/logger"
	"github.com/rileyhilliard/gitsetup/internal/shell"
	"github.com/rileyhilliard/gitsetup/internal/ui"
	"github.com/rileyhilliard/gitsetup/internal/workstation"
)

var doctorJSON bool

// doctorCmd runs the read-only checks without changing anything.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check SSH and GPG signing setup without changing anything",
	Long: `Run the same checks the wizard finishes with, plus tool availability.

Checks:
  - git, ssh-keygen, gpg (and brew on macOS) are installed
  - SSH key exists and parses; ~/.ssh/config routes github.com to it
  - git has a signing key that gpg holds, and commit.gpgsign is on
  - GPG_TTY is exported from your shell profile

Exits 1 when any check fails.

Examples:
  gitsetup doctor
  gitsetup doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), cmd.OutOrStdout(), doctorJSON)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// categoryOrder is the display order; unknown categories follow.
var categoryOrder = []string{"TOOLS", "SSH", "SIGNING"}

func doctorCommand(ctx context.Context, w io.Writer, asJSON bool) error {
	settings, err := loadSettings()
	if err != nil {
		if asJSON {
			if jerr := WriteJSONFromError(w, err); jerr != nil {
				return jerr
			}
			return errors.NewExitError(ExitFailure)
		}
		return err
	}

	if !asJSON {
		configureOutput()
	}
	log := logger.NewEnvLogger("[doctor]")
	env := doctorEnv(settings, workstation.Host(), shell.NewLocal(log), log)
	return runDoctor(ctx, w, doctor.AllChecks(env), asJSON)
}

// doctorEnv wires the checks to a workstation and gateway.
func doctorEnv(settings *config.Settings, sys workstation.System, gw shell.Gateway, log logger.Logger) doctor.Env {
	return doctor.Env{
		Workstation: workstation.Detect(settings, sys),
		Gateway:     gw,
		Git:         gitconfig.New(gw),
		GPG:         gpg.New(gw, settings.GPG.Program, log),
	}
}

// runDoctor runs checks and writes the report. Any failing check yields an
// ExitError so the process exits 1 without a second message.
func runDoctor(ctx context.Context, w io.Writer, checks []doctor.Check, asJSON bool) error {
	results := doctor.RunAll(ctx, checks)
	if ctx.Err() != nil {
		return errors.Cancelled()
	}

	var err error
	if asJSON {
		err = outputDoctorJSON(w, checks, results)
	} else {
		outputDoctorText(w, checks, results)
	}
	if err != nil {
		return err
	}

	if doctor.HasFailures(results) {
		return errors.NewExitError(ExitFailure)
	}
	return nil
}

// groupByCategory returns categories in display order with their result
// indices.
func groupByCategory(checks []doctor.Check) ([]string, map[string][]int) {
	grouped := make(map[string][]int)
	var seen []string
	for i, check := range checks {
		cat := check.Category()
		if _, ok := grouped[cat]; !ok {
			seen = append(seen, cat)
		}
		grouped[cat] = append(grouped[cat], i)
	}

	order := make([]string, 0, len(seen))
	for _, cat := range categoryOrder {
		if _, ok := grouped[cat]; ok {
			order = append(order, cat)
		}
	}
	for _, cat := range seen {
		if !contains(categoryOrder, cat) {
			order = append(order, cat)
		}
	}
	return order, grouped
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// outputDoctorJSON outputs results in JSON format.
func outputDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	order, grouped := groupByCategory(checks)

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(order)),
	}
	for _, cat := range order {
		co := CategoryOutput{Name: cat}
		for _, idx := range grouped[cat] {
			co.Results = append(co.Results, results[idx])
		}
		output.Categories = append(output.Categories, co)
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		AllClear: doctor.AllPassed(results),
	}

	if doctor.HasFailures(results) {
		return WriteJSONFailure(w, output, ErrCodeChecksFailed, doctor.Summary(results))
	}
	return WriteJSONSuccess(w, output)
}

// outputDoctorText outputs results in human-readable format.
func outputDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) {
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("gitsetup doctor"))
	fmt.Fprintln(w)

	order, grouped := groupByCategory(checks)
	for _, cat := range order {
		fmt.Fprintln(w, headerStyle.Render(cat))
		for _, idx := range grouped[cat] {
			renderCheckResult(w, results[idx])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", ui.HeaderWidth))
	fmt.Fprintln(w)

	summary := doctor.Summary(results)
	if doctor.HasFailures(results) {
		fmt.Fprintf(w, "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), summary)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Run %s to fix what's missing.\n", ui.MutedStyle().Render("gitsetup"))
	} else {
		fmt.Fprintf(w, "%s %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), summary)
	}
	fmt.Fprintln(w)
}

// renderCheckResult renders a single check result.
func renderCheckResult(w io.Writer, r doctor.CheckResult) {
	status := r.Status.String()
	symbol := ui.StatusStyle(status).Render(ui.StatusSymbol(status))
	fmt.Fprintf(w, "  %s %s", symbol, r.Label)
	if r.Value != "" {
		fmt.Fprintf(w, " %s", ui.MutedStyle().Render("("+r.Value+")"))
	}
	fmt.Fprintln(w)

	if r.Suggestion != "" && r.Status != doctor.StatusPass {
		fmt.Fprintf(w, "      %s\n", ui.MutedStyle().Render(r.Suggestion))
	}
}
