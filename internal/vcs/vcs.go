// Package vcs provides a minimal version control abstraction used by
// workspace resolution. Only repository root discovery is needed; the
// interface keeps git behind a seam so tests can run without a git binary.
package vcs

import (
	"context"
)

// VCS locates version control metadata for a directory.
type VCS interface {
	// RepositoryRoot returns the root directory of the repository
	// containing the given directory. Returns an error if dir is not
	// inside a repository.
	RepositoryRoot(ctx context.Context, dir string) (string, error)
}
