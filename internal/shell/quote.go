package shell

import "strings"

// QuoteArg wraps s in single quotes, escaping embedded single quotes, so a
// shell treats it literally. Used when showing commands the user can copy.
func QuoteArg(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// CommandLine renders name and args as a copy-pasteable shell line.
// Arguments that are empty or contain spaces or quotes are quoted.
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			parts = append(parts, QuoteArg(a))
			continue
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
