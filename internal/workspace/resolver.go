// Package workspace turns user-supplied or inferred directories into
// canonical workspace identities. Two paths naming the same physical project
// resolve to the same identity; a nested project carrying its own state
// directory keeps its own identity instead of merging into an ancestor.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/codefionn/taskwire/internal/logger"
	"github.com/codefionn/taskwire/internal/vcs"
)

// MarkerDir is the well-known state directory whose presence marks a
// project root (and holds the daemon rendezvous socket).
const MarkerDir = ".taskwire"

// NotFoundError reports that no workspace could be determined for a call.
type NotFoundError struct {
	// Start is the directory the upward search began from.
	Start string
}

func (e *NotFoundError) Error() string {
	return "no workspace found walking up from " + e.Start +
		": no " + MarkerDir + " directory on the path to the filesystem root.\n" +
		"Pass --workspace, set TASKWIRE_WORKSPACE, or run 'twd init' in your project root"
}

// Resolver canonicalizes directories into workspace identities. Results are
// memoized by the literal input string; distinct spellings of the same
// directory may be computed independently but converge on the same output.
type Resolver struct {
	vcs vcs.VCS
	log *logger.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewResolver creates a resolver backed by the given VCS. A nil VCS uses git.
func NewResolver(v vcs.VCS) *Resolver {
	if v == nil {
		v = vcs.NewGit()
	}
	return &Resolver{
		vcs:   v,
		log:   logger.Global().WithPrefix("workspace"),
		cache: make(map[string]string),
	}
}

// Resolve returns the canonical workspace identity for dir. It never fails:
// symlinks are resolved, a directory carrying its own marker keeps its own
// identity, otherwise the enclosing repository root wins, otherwise the
// resolved path itself.
func (r *Resolver) Resolve(ctx context.Context, dir string) string {
	r.mu.Lock()
	cached, ok := r.cache[dir]
	r.mu.Unlock()
	if ok {
		return cached
	}

	canonical := r.canonicalize(ctx, dir)

	r.mu.Lock()
	r.cache[dir] = canonical
	r.mu.Unlock()

	return canonical
}

func (r *Resolver) canonicalize(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		real = abs
	}

	// A nested project with its own state directory keeps its own
	// identity even inside a larger checkout.
	if info, err := os.Stat(filepath.Join(real, MarkerDir)); err == nil && info.IsDir() {
		return real
	}

	if root, err := r.vcs.RepositoryRoot(ctx, real); err == nil && root != "" {
		if realRoot, err := filepath.EvalSymlinks(root); err == nil {
			return realRoot
		}
		return root
	}

	return real
}

// Find selects the effective workspace for an operation: the explicit
// argument wins, then the ambient default, then an upward walk from the
// current directory looking for the marker. Returns *NotFoundError when the
// walk exhausts the filesystem without finding one.
func (r *Resolver) Find(ctx context.Context, explicit, ambient string) (string, error) {
	if explicit != "" {
		return r.Resolve(ctx, explicit), nil
	}
	if ambient != "" {
		return r.Resolve(ctx, ambient), nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", &NotFoundError{Start: "."}
	}

	dir := wd
	for {
		if info, err := os.Stat(filepath.Join(dir, MarkerDir)); err == nil && info.IsDir() {
			r.log.Debug("inferred workspace %s from %s", dir, wd)
			return r.Resolve(ctx, dir), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", &NotFoundError{Start: wd}
}
