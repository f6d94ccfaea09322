package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Git implements the VCS interface by shelling out to the git binary.
type Git struct {
	// rootCache caches rev-parse results per directory; workspace
	// resolution may probe the same directory many times in one process.
	rootMu    sync.RWMutex
	rootCache map[string]rootResult
}

type rootResult struct {
	root string
	err  error
}

// NewGit creates a new Git VCS instance.
func NewGit() *Git {
	return &Git{
		rootCache: make(map[string]rootResult),
	}
}

// RepositoryRoot returns the root directory of the git repository
// containing dir.
func (g *Git) RepositoryRoot(ctx context.Context, dir string) (string, error) {
	g.rootMu.RLock()
	cached, ok := g.rootCache[dir]
	g.rootMu.RUnlock()
	if ok {
		return cached.root, cached.err
	}

	root, err := g.lookupRoot(ctx, dir)

	g.rootMu.Lock()
	g.rootCache[dir] = rootResult{root: root, err: err}
	g.rootMu.Unlock()

	return root, err
}

func (g *Git) lookupRoot(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
