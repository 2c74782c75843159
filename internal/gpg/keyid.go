package gpg

import (
	"regexp"
	"strings"
)

// keyIDPattern matches the long key ID in a secret-key line such as
//
//	sec   ed25519/2BA6DADD4FB95F14 2024-01-01 [SC] [expires: 2027-01-01]
//
// The hex run must end at a non-alphanumeric character or end of line so a
// token like 2BA6DADD4FBW5F14 is rejected outright instead of truncated.
var keyIDPattern = regexp.MustCompile(`/([A-F0-9]{8,})(?:[^A-Za-z0-9]|$)`)

// ExtractKeyID returns the key ID from the first "sec" line of
// `gpg --list-secret-keys --keyid-format LONG` output that carries one.
func ExtractKeyID(output string) (string, bool) {
	ids := scanKeyIDs(output, 1)
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// ExtractKeyIDs returns every key ID in the listing, in order.
func ExtractKeyIDs(output string) []string {
	return scanKeyIDs(output, -1)
}

// scanKeyIDs collects up to limit IDs; a negative limit means all.
func scanKeyIDs(output string, limit int) []string {
	var ids []string
	for _, line := range strings.Split(output, "\n") {
		if limit >= 0 && len(ids) >= limit {
			break
		}
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "sec") {
			continue
		}
		if m := keyIDPattern.FindStringSubmatch(line); m != nil {
			ids = append(ids, m[1])
		}
	}
	return ids
}
