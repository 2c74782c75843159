package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Step completed
	SymbolFail     = "✗" // Step failed
	SymbolWarning  = "!" // Completed with a caveat
	SymbolPending  = "○" // Not yet started
	SymbolProgress = "◐" // In progress
	SymbolComplete = "●" // Done (spinner final state)
	SymbolSkipped  = "⊘" // Skipped
	SymbolArrow    = "›" // Informational line / phase marker
)

// StatusSymbol maps a pass/warn/fail status to its symbol.
func StatusSymbol(status string) string {
	switch status {
	case "pass":
		return SymbolSuccess
	case "warn":
		return SymbolWarning
	case "fail":
		return SymbolFail
	default:
		return SymbolPending
	}
}
