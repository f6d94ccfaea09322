package endpoint

import (
	"os"
)

// Detect reports whether socketPath exists and is actually a Unix socket.
// It is a cheap precheck; only a protocol exchange proves the daemon is
// responsive.
func Detect(socketPath string) bool {
	if socketPath == "" {
		return false
	}

	stat, err := os.Stat(socketPath)
	if err != nil {
		return false
	}

	return stat.Mode()&os.ModeSocket != 0
}
