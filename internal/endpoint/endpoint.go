// Package endpoint discovers the rendezvous socket of a running taskwire
// daemon. Discovery walks upward from the workspace looking for the marker
// state directory, then falls back to a global socket under the caller's
// home directory. Clients never create the socket; its existence is the
// signal that a daemon is listening.
package endpoint

import (
	"os"
	"path/filepath"

	"github.com/codefionn/taskwire/internal/workspace"
)

// SocketFile is the rendezvous file name inside the marker directory.
const SocketFile = "twd.sock"

// Endpoint is a discovered daemon address plus the working directory the
// daemon should use for server-side relative resolution.
type Endpoint struct {
	// SocketPath is the Unix socket the daemon listens on.
	SocketPath string
	// WorkingDir is the directory the rendezvous file was found under,
	// or the workspace itself for the global fallback.
	WorkingDir string
}

// NotFoundError reports that no rendezvous socket exists for a workspace.
// It is a hard failure: there is no empty or default endpoint.
type NotFoundError struct {
	Workspace string
}

func (e *NotFoundError) Error() string {
	return "no running daemon found for " + e.Workspace +
		": no " + workspace.MarkerDir + "/" + SocketFile + " between there and the filesystem root, " +
		"and no global ~/" + workspace.MarkerDir + "/" + SocketFile + ".\n" +
		"Start one with: twd serve (or twd serve --global)"
}

// Locate finds the daemon endpoint for a canonical workspace identity.
// The first marker directory found walking upward decides the outcome: if
// it holds the rendezvous file that endpoint wins, otherwise the global
// socket is consulted before failing with *NotFoundError.
func Locate(ws string) (*Endpoint, error) {
	dir := ws
	for {
		marker := filepath.Join(dir, workspace.MarkerDir)
		if info, err := os.Stat(marker); err == nil && info.IsDir() {
			sock := filepath.Join(marker, SocketFile)
			if _, err := os.Stat(sock); err == nil {
				return &Endpoint{SocketPath: sock, WorkingDir: dir}, nil
			}
			// Marker without a socket: the project exists but no
			// local daemon is listening. Check the global daemon.
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if sock, ok := globalSocket(); ok {
		return &Endpoint{SocketPath: sock, WorkingDir: ws}, nil
	}

	return nil, &NotFoundError{Workspace: ws}
}

func globalSocket() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	sock := filepath.Join(home, workspace.MarkerDir, SocketFile)
	if _, err := os.Stat(sock); err != nil {
		return "", false
	}
	return sock, true
}
