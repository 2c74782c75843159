// Package ui renders gitsetup's terminal output.
//
// Everything is drawn with Lip Gloss using ANSI colors so the user's theme
// picks the shades:
//
//	ColorSuccess   (green)  - completed steps
//	ColorError     (red)    - failures
//	ColorWarning   (yellow) - caveats and skipped steps
//	ColorInfo      (cyan)   - informational lines, copyable text
//	ColorMuted     (gray)   - secondary text, timings
//
// Use DisableColors() for monochrome output (NO_COLOR, non-terminal stdout).
//
// The wizard talks to a Printer, which writes one status line per event:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.Phase(2, 5, "SSH key")
//	p.Success("Key pair at %s", path)
//	p.Warn("Clipboard unavailable, copy the key below")
//
// Non-interactive external commands run under a Spinner, and the final
// verification report is a bubbles table built by RenderCheckTable.
package ui
