package endpoint

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codefionn/taskwire/internal/logger"
	"github.com/codefionn/taskwire/internal/workspace"
)

// DefaultAwaitTimeout bounds how long Await waits for a freshly started
// daemon to publish its socket.
const DefaultAwaitTimeout = 10 * time.Second

// StartDaemon spawns the daemon executable detached in dir and returns
// without waiting for it. Callers follow up with Await to learn when the
// rendezvous socket appears.
func StartDaemon(bin, dir string, global bool) error {
	args := []string{"serve"}
	if global {
		args = append(args, "--global")
	}

	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon %s: %w", bin, err)
	}

	logger.Info("started daemon %s (pid %d) in %s", bin, cmd.Process.Pid, dir)

	// The daemon outlives this process; detach instead of reaping.
	return cmd.Process.Release()
}

// Await blocks until the rendezvous socket exists under dir's marker
// directory, returning its path. The marker directory itself is created if
// needed so there is something to watch.
func Await(ctx context.Context, dir string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultAwaitTimeout
	}

	marker := filepath.Join(dir, workspace.MarkerDir)
	if err := os.MkdirAll(marker, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", marker, err)
	}
	sock := filepath.Join(marker, SocketFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return "", fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(marker); err != nil {
		return "", fmt.Errorf("failed to watch %s: %w", marker, err)
	}

	// The socket may have appeared before the watch was registered.
	if _, err := os.Stat(sock); err == nil {
		return sock, nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return "", fmt.Errorf("watcher closed while waiting for %s", sock)
			}
			if event.Name == sock && event.Op.Has(fsnotify.Create) {
				return sock, nil
			}
		case err, ok := <-watcher.Errors:
			if ok && err != nil {
				logger.Warn("watcher error while waiting for %s: %v", sock, err)
			}
		case <-deadline.C:
			return "", fmt.Errorf("daemon socket %s did not appear within %s", sock, timeout)
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}
