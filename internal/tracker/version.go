package tracker

import (
	"fmt"
	"strconv"
	"strings"
)

// MinDaemonVersion is the oldest daemon this client speaks to. Older daemons
// predate the framed args envelope.
const MinDaemonVersion = "0.9.0"

// VersionError reports a daemon too old for this client. It is raised once
// per workspace, before the first real operation runs.
type VersionError struct {
	Workspace string
	Got       string
	Min       string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("daemon for %s reports version %s, but this client needs %s or newer.\n"+
		"Upgrade the daemon, then restart it with: twd serve", e.Workspace, e.Got, e.Min)
}

// parseVersion reads up to three dotted numeric segments, ignoring a leading
// "v" and any pre-release suffix.
func parseVersion(s string) (segments [3]int, ok bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return segments, false
	}
	parts := strings.SplitN(s, ".", 3)
	for i, part := range parts {
		end := len(part)
		for j, r := range part {
			if r < '0' || r > '9' {
				end = j
				break
			}
		}
		if end == 0 {
			return segments, false
		}
		n, err := strconv.Atoi(part[:end])
		if err != nil {
			return segments, false
		}
		segments[i] = n
	}
	return segments, true
}

// versionAtLeast reports whether got >= min. Unparseable versions are
// treated as compatible; refusing to talk over a cosmetic version string
// would be worse than proceeding.
func versionAtLeast(got, min string) bool {
	g, ok := parseVersion(got)
	if !ok {
		return true
	}
	m, ok := parseVersion(min)
	if !ok {
		return true
	}
	for i := 0; i < 3; i++ {
		if g[i] != m[i] {
			return g[i] > m[i]
		}
	}
	return true
}
